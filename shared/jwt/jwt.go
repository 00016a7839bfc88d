package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/logger"
)

type JwtService interface {
	NewToken(p domain.Principal) (string, error)
	DecodeToken(jwtStr string) (*jwt.Token, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(p domain.Principal) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = p.Id
	claims["userId"] = p.UserId
	claims["type"] = string(p.Type)
	if p.Team != "" {
		claims["team"] = string(p.Team)
	}
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("Can't create token")
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		// Verify signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		logger.Log.Debug("token rejected", "error", err)
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}

	if !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	return token, nil
}

// Principal reads the caller out of decoded token claims.
func Principal(token *jwt.Token) (domain.Principal, bool) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Principal{}, false
	}
	uid, ok := claims["uid"].(string)
	if !ok {
		return domain.Principal{}, false
	}
	userId, ok := claims["userId"].(string)
	if !ok {
		return domain.Principal{}, false
	}
	accountType, ok := claims["type"].(string)
	if !ok {
		return domain.Principal{}, false
	}
	team, _ := claims["team"].(string)
	return domain.Principal{Id: uid, UserId: userId, Type: domain.AccountType(accountType), Team: domain.Team(team)}, true
}
