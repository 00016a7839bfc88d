package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type AccountType string

const (
	AccountMember AccountType = "member"
	AccountAdmin  AccountType = "admin"
)

func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case "":
		return AccountMember, nil
	case AccountMember, AccountAdmin:
		return AccountType(s), nil
	}
	return "", fmt.Errorf("unknown account type %q", s)
}

// Team is one of the four fixed staff groupings.
type Team string

const (
	TeamManagement  Team = "management"
	TeamBusiness    Team = "business"
	TeamSecurity    Team = "security"
	TeamDevelopment Team = "development"
)

var AllTeams = []Team{TeamManagement, TeamBusiness, TeamSecurity, TeamDevelopment}

// legacyTeams maps the Korean team names older documents were written with.
var legacyTeams = map[string]Team{
	"관리팀": TeamManagement,
	"사업팀": TeamBusiness,
	"보안팀": TeamSecurity,
	"개발팀": TeamDevelopment,
}

func NormalizeTeam(s string) Team {
	if t, ok := legacyTeams[s]; ok {
		return t
	}
	return Team(s)
}

func (t *Team) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: typ, Value: data}
	switch typ {
	case bson.TypeNull, bson.TypeUndefined:
		*t = ""
	case bson.TypeString:
		*t = NormalizeTeam(raw.StringValue())
	default:
		return fmt.Errorf("cannot decode %s into Team", typ)
	}
	return nil
}

func (t Team) Valid() bool {
	for _, team := range AllTeams {
		if t == team {
			return true
		}
	}
	return false
}

// Account is a member or staff (admin) account. Both live in separate collections
// but share one user id and nickname namespace.
type Account struct {
	Id          Id          `bson:"_id,omitempty" json:"id"`
	UserId      UserId      `bson:"userId" json:"userId"`
	PassHash    string      `bson:"password" json:"-"`
	Nickname    Nickname    `bson:"nickname" json:"nickname"`
	Email       string      `bson:"email,omitempty" json:"email,omitempty"`
	Team        Team        `bson:"team,omitempty" json:"team,omitempty"`
	Phone       string      `bson:"phone,omitempty" json:"phone,omitempty"`
	CompanyId   string      `bson:"company_id,omitempty" json:"company_id,omitempty"`
	CompanyName string      `bson:"company_name,omitempty" json:"company_name,omitempty"`
	JoinedAt    *time.Time  `bson:"joinedAt,omitempty" json:"joinedAt,omitempty"`
	Type        AccountType `bson:"-" json:"type"`
}

// AccountKeyKind names a namespace shared by members and admins.
type AccountKeyKind string

const (
	KeyUserId   AccountKeyKind = "user_id"
	KeyNickname AccountKeyKind = "nickname"
)

// AccountKey is a reservation of a unique value in the shared namespace.
type AccountKey struct {
	Kind  AccountKeyKind
	Value string
}

func (k AccountKey) String() string {
	return string(k.Kind) + "/" + k.Value
}

// Principal is the authenticated caller carried in an access token.
type Principal struct {
	Id     string
	UserId UserId
	Type   AccountType
	Team   Team
}

func (p Principal) IsAdmin() bool {
	return p.Type == AccountAdmin
}
