package service

import (
	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/logger"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(userId domain.UserId, password domain.Password) (LoginResult, error)
	ChangePassword(t domain.AccountType, userId domain.UserId, oldPassword, newPassword domain.Password) error
	ChangeNickname(t domain.AccountType, userId domain.UserId, nickname domain.Nickname) error
}

// AccountStorage is shared by the auth and account services.
type AccountStorage interface {
	SaveAccount(t domain.AccountType, acc domain.Account) (domain.Id, error)
	Account(t domain.AccountType, userId domain.UserId) (domain.Account, error)
	Accounts(t domain.AccountType) ([]domain.Account, error)
	UpdatePassword(t domain.AccountType, userId domain.UserId, passHash string) error
	UpdateNickname(t domain.AccountType, userId domain.UserId, nickname domain.Nickname) error
	DeleteAccounts(t domain.AccountType, userIds []domain.UserId) (int64, error)
	KeyTaken(key domain.AccountKey) (bool, error)
}

type Jwt interface {
	NewToken(p domain.Principal) (string, error)
}

type LoginResult struct {
	Account     domain.Account
	AccessToken string
}

type Auth struct {
	storage AccountStorage
	jwt     Jwt
}

func NewAuth(storage AccountStorage, jwt Jwt) *Auth {
	return &Auth{storage: storage, jwt: jwt}
}

var errInvalidCredentials = errors.BadRequest("Invalid user id or password")

// Login checks members first, then staff. The same error is returned for an
// unknown user id and a wrong password.
func (a *Auth) Login(userId domain.UserId, password domain.Password) (LoginResult, error) {
	for _, t := range []domain.AccountType{domain.AccountMember, domain.AccountAdmin} {
		acc, err := a.storage.Account(t, userId)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return LoginResult{}, err
		}
		if bcrypt.CompareHashAndPassword([]byte(acc.PassHash), []byte(password)) != nil {
			continue
		}

		acc.Type = t
		token, err := a.jwt.NewToken(domain.Principal{Id: acc.Id.Hex(), UserId: acc.UserId, Type: t, Team: acc.Team})
		if err != nil {
			logger.Log.Error("failed to create jwt token", "user_id", userId, "error", err)
			return LoginResult{}, err
		}
		return LoginResult{Account: acc, AccessToken: token}, nil
	}
	return LoginResult{}, errInvalidCredentials
}

func (a *Auth) ChangePassword(t domain.AccountType, userId domain.UserId, oldPassword, newPassword domain.Password) error {
	acc, err := a.storage.Account(t, userId)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PassHash), []byte(oldPassword)) != nil {
		return errors.BadRequest("Current password does not match")
	}
	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	return a.storage.UpdatePassword(t, userId, string(passHash))
}

func (a *Auth) ChangeNickname(t domain.AccountType, userId domain.UserId, nickname domain.Nickname) error {
	if _, err := a.storage.Account(t, userId); err != nil {
		return err
	}
	return asDuplicate(a.storage.UpdateNickname(t, userId, nickname))
}

// asDuplicate reports namespace conflicts as client errors carrying the
// storage's message.
func asDuplicate(err error) error {
	if errors.IsConflict(err) {
		return errors.BadRequest(err.Error())
	}
	return err
}
