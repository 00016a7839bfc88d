package domain

import (
	"fmt"
	"strings"
)

// RecordKind selects one of the three team data sets. It is only ever built from
// strings at the HTTP boundary; everything behind it switches on the constant.
type RecordKind int

const (
	KindBiz RecordKind = iota + 1
	KindDev
	KindSecurity
)

var AllRecordKinds = []RecordKind{KindBiz, KindDev, KindSecurity}

func ParseRecordKind(s string) (RecordKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "biz", "companies", "business":
		return KindBiz, nil
	case "dev", "development":
		return KindDev, nil
	case "security", "incident", "incidents":
		return KindSecurity, nil
	}
	return 0, fmt.Errorf("unknown team %q", s)
}

func (k RecordKind) String() string {
	switch k {
	case KindBiz:
		return "biz"
	case KindDev:
		return "dev"
	case KindSecurity:
		return "security"
	}
	return fmt.Sprintf("RecordKind(%d)", int(k))
}

// ListKey is the JSON key that wraps list responses for the kind.
func (k RecordKind) ListKey() string {
	switch k {
	case KindBiz:
		return "companies"
	case KindDev:
		return "dev"
	case KindSecurity:
		return "incidents"
	}
	return "records"
}

// OwnerTeam is the staff team responsible for the kind.
func (k RecordKind) OwnerTeam() Team {
	switch k {
	case KindBiz:
		return TeamBusiness
	case KindDev:
		return TeamDevelopment
	case KindSecurity:
		return TeamSecurity
	}
	return TeamManagement
}
