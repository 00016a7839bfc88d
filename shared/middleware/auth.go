package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/teamdash/teamdash/shared/domain"
	jwt_internal "github.com/teamdash/teamdash/shared/jwt"
	"github.com/teamdash/teamdash/shared/logger"
	"github.com/teamdash/teamdash/shared/utils"
)

// Key to store the caller in the request context
type key int

const PrincipalKey key = 0

const AccessTokenCookie = "accessToken"

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService jwt_internal.JwtService
}

func NewAuth(jwtService jwt_internal.JwtService) *Auth {
	return &Auth{jwtService: jwtService}
}

// NeedAuth returns middleware that requires any signed-in account
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that requires a staff account
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// OptionalAuth populates the caller if the token is valid but lets anonymous requests through
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := a.extractPrincipal(r)
			if p != nil {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), PrincipalKey, p)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractPrincipal reads the token from the cookie, then from the Authorization header
func (a *Auth) extractPrincipal(r *http.Request) (*domain.Principal, error) {
	var tokenString string
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		tokenString = cookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	p, ok := jwt_internal.Principal(token)
	if !ok {
		return nil, errInvalidClaims
	}
	return &p, nil
}

// Sentinel errors for extractPrincipal
var (
	errNoToken       = errorString("no token")
	errInvalidClaims = errorString("invalid claims")
)

type errorString string

func (e errorString) Error() string { return string(e) }

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := a.extractPrincipal(r)
			if err != nil {
				switch err {
				case errNoToken:
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
				case errInvalidClaims:
					logger.Log.Error("invalid jwt claims")
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				default:
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			if adminOnly && !p.IsAdmin() {
				http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), PrincipalKey, p)))
		})
	}
}

// GetPrincipalFromContext returns the caller or nil for anonymous requests
func GetPrincipalFromContext(r *http.Request) *domain.Principal {
	p, ok := r.Context().Value(PrincipalKey).(*domain.Principal)
	if !ok {
		return nil
	}
	return p
}
