package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
	mw "github.com/teamdash/teamdash/shared/middleware"
)

// parseIntParam parses an integer parameter from a string and returns a meaningful error
func parseIntParam(param string, paramName string) (int, error) {
	val, err := strconv.Atoi(param)
	if err != nil {
		return 0, errors.BadRequest(fmt.Sprintf("invalid %s: must be an integer", paramName))
	}
	return val, nil
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return parseIntParam(raw, name)
}

func idParam(r *http.Request) (domain.Id, error) {
	raw := chi.URLParam(r, "id")
	id, ok := domain.ParseId(raw)
	if !ok {
		return id, errors.BadRequest(fmt.Sprintf("Invalid id %q", raw))
	}
	return id, nil
}

func kindParam(r *http.Request) (domain.RecordKind, error) {
	kind, err := domain.ParseRecordKind(chi.URLParam(r, "team"))
	if err != nil {
		return 0, errors.NotFound("Unknown team")
	}
	return kind, nil
}

func principal(r *http.Request) (domain.Principal, error) {
	p := mw.GetPrincipalFromContext(r)
	if p == nil {
		return domain.Principal{}, errors.Unauthorized("Not authorized")
	}
	return *p, nil
}

// selfOrAdmin allows account changes by the owner or by staff.
func selfOrAdmin(r *http.Request, userId domain.UserId) error {
	p, err := principal(r)
	if err != nil {
		return err
	}
	if !p.IsAdmin() && p.UserId != userId {
		return errors.Forbidden("Cannot change another account")
	}
	return nil
}

func accountType(raw string) (domain.AccountType, error) {
	t, err := domain.ParseAccountType(raw)
	if err != nil {
		return "", errors.BadRequest(err.Error())
	}
	return t, nil
}
