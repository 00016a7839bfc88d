package service

import (
	"fmt"
	"strings"

	"github.com/sethvargo/go-password/password"
	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/logger"
	"github.com/teamdash/teamdash/shared/middleware/metrics"
	"golang.org/x/crypto/bcrypt"
)

type AccountService interface {
	AdminJoin(acc domain.Account, password domain.Password) (domain.Account, error)
	Invite(req InviteRequest) (InviteResult, error)
	Admins() ([]domain.Account, error)
	Members() ([]domain.Account, error)
	CheckDuplicate(kind domain.AccountKeyKind, value string) (bool, error)
	Delete(t domain.AccountType, userIds []domain.UserId) (int64, error)
}

type Email interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email string) error
}

// CompanyLookup resolves company ids to names.
type CompanyLookup interface {
	Name(companyId string) (string, bool)
}

type InviteRequest struct {
	Type      domain.AccountType
	UserId    domain.UserId
	Nickname  domain.Nickname
	Email     string
	Team      domain.Team
	Phone     string
	CompanyId string
}

// InviteResult reports the account and, separately, whether the mail with its
// temporary password went out.
type InviteResult struct {
	Account    domain.Account
	EmailSent  bool
	EmailError string
}

const tempPasswordLen = 12

type Account struct {
	storage   AccountStorage
	email     Email
	companies CompanyLookup
	clock     Clock
}

func NewAccount(storage AccountStorage, email Email, companies CompanyLookup, clock Clock) *Account {
	return &Account{storage: storage, email: email, companies: companies, clock: clock}
}

func (a *Account) AdminJoin(acc domain.Account, pass domain.Password) (domain.Account, error) {
	if !acc.Team.Valid() {
		return domain.Account{}, errors.BadRequest("Unknown team")
	}
	passHash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.Account{}, err
	}
	acc.PassHash = string(passHash)
	acc.Type = domain.AccountAdmin

	id, err := a.storage.SaveAccount(domain.AccountAdmin, acc)
	if err != nil {
		return domain.Account{}, asDuplicate(err)
	}
	acc.Id = id
	return acc, nil
}

// Invite creates an account with a generated password and mails it. A mail
// failure leaves the account in place and is reported in the result.
func (a *Account) Invite(req InviteRequest) (InviteResult, error) {
	if err := a.email.IsCorrect(req.Email); err != nil {
		return InviteResult{}, err
	}
	if req.Type == "" {
		req.Type = domain.AccountMember
	}
	if req.Type == domain.AccountAdmin && !req.Team.Valid() {
		return InviteResult{}, errors.BadRequest("Staff accounts need a team")
	}

	acc := domain.Account{
		UserId:   req.UserId,
		Nickname: req.Nickname,
		Email:    strings.ToLower(req.Email),
		Phone:    req.Phone,
		Type:     req.Type,
	}
	if req.Type == domain.AccountAdmin {
		acc.Team = req.Team
	}
	if req.CompanyId != "" {
		name, ok := a.companies.Name(req.CompanyId)
		if !ok {
			return InviteResult{}, errors.BadRequest(fmt.Sprintf("Unknown company %s", req.CompanyId))
		}
		acc.CompanyId = req.CompanyId
		acc.CompanyName = name
	}
	joinedAt := a.clock.now().UTC()
	acc.JoinedAt = &joinedAt

	tempPassword, err := password.Generate(tempPasswordLen, 3, 0, false, true)
	if err != nil {
		logger.Log.Error("failed to generate temporary password", "error", err)
		return InviteResult{}, err
	}
	passHash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return InviteResult{}, err
	}
	acc.PassHash = string(passHash)

	id, err := a.storage.SaveAccount(req.Type, acc)
	if err != nil {
		return InviteResult{}, asDuplicate(err)
	}
	acc.Id = id

	result := InviteResult{Account: acc}
	if err := a.email.Send(acc.Email, "Your dashboard account", inviteBody(acc, tempPassword)); err != nil {
		logger.Log.Error("failed to send invitation", "user_id", acc.UserId, "error", err)
		metrics.InviteEmails.WithLabelValues("failed").Inc()
		result.EmailError = err.Error()
		return result, nil
	}
	metrics.InviteEmails.WithLabelValues("sent").Inc()
	result.EmailSent = true
	return result, nil
}

func inviteBody(acc domain.Account, tempPassword string) string {
	return fmt.Sprintf(`Hello %s,

An account has been created for you.

User id: %s
Temporary password: %s

Please sign in and change your password.
`, acc.Nickname, acc.UserId, tempPassword)
}

func (a *Account) Admins() ([]domain.Account, error) {
	return a.storage.Accounts(domain.AccountAdmin)
}

// Members lists members with the company name read from the directory.
func (a *Account) Members() ([]domain.Account, error) {
	members, err := a.storage.Accounts(domain.AccountMember)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if name, ok := a.companies.Name(members[i].CompanyId); ok {
			members[i].CompanyName = name
		}
	}
	return members, nil
}

func (a *Account) CheckDuplicate(kind domain.AccountKeyKind, value string) (bool, error) {
	if kind != domain.KeyUserId && kind != domain.KeyNickname {
		return false, errors.BadRequest("field must be userId or nickname")
	}
	if strings.TrimSpace(value) == "" {
		return false, errors.BadRequest("value is required")
	}
	return a.storage.KeyTaken(domain.AccountKey{Kind: kind, Value: value})
}

func (a *Account) Delete(t domain.AccountType, userIds []domain.UserId) (int64, error) {
	n, err := a.storage.DeleteAccounts(t, userIds)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.NotFound("No matching accounts")
	}
	return n, nil
}
