package service

import (
	"time"

	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
)

// --- Mocks ---

type MockAccountStorage struct {
	SaveAccountFunc    func(t domain.AccountType, acc domain.Account) (domain.Id, error)
	AccountFunc        func(t domain.AccountType, userId domain.UserId) (domain.Account, error)
	AccountsFunc       func(t domain.AccountType) ([]domain.Account, error)
	UpdatePasswordFunc func(t domain.AccountType, userId domain.UserId, passHash string) error
	UpdateNicknameFunc func(t domain.AccountType, userId domain.UserId, nickname domain.Nickname) error
	DeleteAccountsFunc func(t domain.AccountType, userIds []domain.UserId) (int64, error)
	KeyTakenFunc       func(key domain.AccountKey) (bool, error)
}

func (m *MockAccountStorage) SaveAccount(t domain.AccountType, acc domain.Account) (domain.Id, error) {
	if m.SaveAccountFunc != nil {
		return m.SaveAccountFunc(t, acc)
	}
	return domain.NewId(), nil
}

func (m *MockAccountStorage) Account(t domain.AccountType, userId domain.UserId) (domain.Account, error) {
	if m.AccountFunc != nil {
		return m.AccountFunc(t, userId)
	}
	return domain.Account{}, internal_errors.NotFound("User not found")
}

func (m *MockAccountStorage) Accounts(t domain.AccountType) ([]domain.Account, error) {
	if m.AccountsFunc != nil {
		return m.AccountsFunc(t)
	}
	return nil, nil
}

func (m *MockAccountStorage) UpdatePassword(t domain.AccountType, userId domain.UserId, passHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(t, userId, passHash)
	}
	return nil
}

func (m *MockAccountStorage) UpdateNickname(t domain.AccountType, userId domain.UserId, nickname domain.Nickname) error {
	if m.UpdateNicknameFunc != nil {
		return m.UpdateNicknameFunc(t, userId, nickname)
	}
	return nil
}

func (m *MockAccountStorage) DeleteAccounts(t domain.AccountType, userIds []domain.UserId) (int64, error) {
	if m.DeleteAccountsFunc != nil {
		return m.DeleteAccountsFunc(t, userIds)
	}
	return int64(len(userIds)), nil
}

func (m *MockAccountStorage) KeyTaken(key domain.AccountKey) (bool, error) {
	if m.KeyTakenFunc != nil {
		return m.KeyTakenFunc(key)
	}
	return false, nil
}

type MockRecordStorage struct {
	CompaniesFunc      func() ([]domain.Company, error)
	CompanyFunc        func(id domain.Id) (domain.Company, error)
	InsertCompanyFunc  func(c domain.Company) (domain.Id, error)
	ReplaceCompanyFunc func(c domain.Company) error
	MaxCompanyIdFunc   func(prefix string) (string, error)

	IncidentsFunc       func() ([]domain.Incident, error)
	IncidentFunc        func(id domain.Id) (domain.Incident, error)
	InsertIncidentFunc  func(i domain.Incident) (domain.Id, error)
	ReplaceIncidentFunc func(i domain.Incident) error
	MaxIncidentSeqFunc  func(dayPrefix string) (int, error)

	DevProjectsFunc       func() ([]domain.DevProject, error)
	DevProjectFunc        func(id domain.Id) (domain.DevProject, error)
	InsertDevProjectFunc  func(p domain.DevProject) (domain.Id, error)
	ReplaceDevProjectFunc func(p domain.DevProject) error

	DeleteRecordsFunc func(kind domain.RecordKind, ids []domain.Id) (int64, error)
	ColumnsFunc       func(kind domain.RecordKind) ([]string, error)

	UpdateCompanyStatusFunc  func(id domain.Id, status domain.CompanyStatus) error
	UpdateIncidentStatusFunc func(id domain.Id, status domain.IncidentStatus) error
}

func (m *MockRecordStorage) Companies() ([]domain.Company, error) {
	if m.CompaniesFunc != nil {
		return m.CompaniesFunc()
	}
	return nil, nil
}

func (m *MockRecordStorage) Company(id domain.Id) (domain.Company, error) {
	if m.CompanyFunc != nil {
		return m.CompanyFunc(id)
	}
	return domain.Company{}, internal_errors.NotFound("Company not found")
}

func (m *MockRecordStorage) InsertCompany(c domain.Company) (domain.Id, error) {
	if m.InsertCompanyFunc != nil {
		return m.InsertCompanyFunc(c)
	}
	return domain.NewId(), nil
}

func (m *MockRecordStorage) ReplaceCompany(c domain.Company) error {
	if m.ReplaceCompanyFunc != nil {
		return m.ReplaceCompanyFunc(c)
	}
	return nil
}

func (m *MockRecordStorage) MaxCompanyId(prefix string) (string, error) {
	if m.MaxCompanyIdFunc != nil {
		return m.MaxCompanyIdFunc(prefix)
	}
	return "", nil
}

func (m *MockRecordStorage) Incidents() ([]domain.Incident, error) {
	if m.IncidentsFunc != nil {
		return m.IncidentsFunc()
	}
	return nil, nil
}

func (m *MockRecordStorage) Incident(id domain.Id) (domain.Incident, error) {
	if m.IncidentFunc != nil {
		return m.IncidentFunc(id)
	}
	return domain.Incident{}, internal_errors.NotFound("Incident not found")
}

func (m *MockRecordStorage) InsertIncident(i domain.Incident) (domain.Id, error) {
	if m.InsertIncidentFunc != nil {
		return m.InsertIncidentFunc(i)
	}
	return domain.NewId(), nil
}

func (m *MockRecordStorage) ReplaceIncident(i domain.Incident) error {
	if m.ReplaceIncidentFunc != nil {
		return m.ReplaceIncidentFunc(i)
	}
	return nil
}

func (m *MockRecordStorage) MaxIncidentSeq(dayPrefix string) (int, error) {
	if m.MaxIncidentSeqFunc != nil {
		return m.MaxIncidentSeqFunc(dayPrefix)
	}
	return 0, nil
}

func (m *MockRecordStorage) DevProjects() ([]domain.DevProject, error) {
	if m.DevProjectsFunc != nil {
		return m.DevProjectsFunc()
	}
	return nil, nil
}

func (m *MockRecordStorage) DevProject(id domain.Id) (domain.DevProject, error) {
	if m.DevProjectFunc != nil {
		return m.DevProjectFunc(id)
	}
	return domain.DevProject{}, internal_errors.NotFound("Dev project not found")
}

func (m *MockRecordStorage) InsertDevProject(p domain.DevProject) (domain.Id, error) {
	if m.InsertDevProjectFunc != nil {
		return m.InsertDevProjectFunc(p)
	}
	return domain.NewId(), nil
}

func (m *MockRecordStorage) ReplaceDevProject(p domain.DevProject) error {
	if m.ReplaceDevProjectFunc != nil {
		return m.ReplaceDevProjectFunc(p)
	}
	return nil
}

func (m *MockRecordStorage) DeleteRecords(kind domain.RecordKind, ids []domain.Id) (int64, error) {
	if m.DeleteRecordsFunc != nil {
		return m.DeleteRecordsFunc(kind, ids)
	}
	return int64(len(ids)), nil
}

func (m *MockRecordStorage) Columns(kind domain.RecordKind) ([]string, error) {
	if m.ColumnsFunc != nil {
		return m.ColumnsFunc(kind)
	}
	return nil, nil
}

func (m *MockRecordStorage) UpdateCompanyStatus(id domain.Id, status domain.CompanyStatus) error {
	if m.UpdateCompanyStatusFunc != nil {
		return m.UpdateCompanyStatusFunc(id, status)
	}
	return nil
}

func (m *MockRecordStorage) UpdateIncidentStatus(id domain.Id, status domain.IncidentStatus) error {
	if m.UpdateIncidentStatusFunc != nil {
		return m.UpdateIncidentStatusFunc(id, status)
	}
	return nil
}

type MockBoardStorage struct {
	SavePostFunc          func(p domain.Post) (domain.Id, error)
	PostsFunc             func(page, size int) (domain.PostPage, error)
	ViewPostFunc          func(id domain.Id) (domain.Post, error)
	PostFunc              func(id domain.Id) (domain.Post, error)
	UpdatePostFunc        func(id domain.Id, patch domain.PostPatch) error
	SoftDeletePostFunc    func(id domain.Id, stamp domain.Stamp) (int64, error)
	MarkPostAnsweredFunc  func(id domain.Id) error
	SaveCommentFunc       func(c domain.Comment) (domain.Id, error)
	CommentsFunc          func(postId domain.Id) ([]domain.Comment, error)
	CommentFunc           func(id domain.Id) (domain.Comment, error)
	SoftDeleteCommentFunc func(id domain.Id, stamp domain.Stamp) error
}

func (m *MockBoardStorage) SavePost(p domain.Post) (domain.Id, error) {
	if m.SavePostFunc != nil {
		return m.SavePostFunc(p)
	}
	return domain.NewId(), nil
}

func (m *MockBoardStorage) Posts(page, size int) (domain.PostPage, error) {
	if m.PostsFunc != nil {
		return m.PostsFunc(page, size)
	}
	return domain.PostPage{Page: page, Size: size}, nil
}

func (m *MockBoardStorage) ViewPost(id domain.Id) (domain.Post, error) {
	if m.ViewPostFunc != nil {
		return m.ViewPostFunc(id)
	}
	return domain.Post{}, internal_errors.NotFound("Post not found")
}

func (m *MockBoardStorage) Post(id domain.Id) (domain.Post, error) {
	if m.PostFunc != nil {
		return m.PostFunc(id)
	}
	return domain.Post{}, internal_errors.NotFound("Post not found")
}

func (m *MockBoardStorage) UpdatePost(id domain.Id, patch domain.PostPatch) error {
	if m.UpdatePostFunc != nil {
		return m.UpdatePostFunc(id, patch)
	}
	return nil
}

func (m *MockBoardStorage) SoftDeletePost(id domain.Id, stamp domain.Stamp) (int64, error) {
	if m.SoftDeletePostFunc != nil {
		return m.SoftDeletePostFunc(id, stamp)
	}
	return 0, nil
}

func (m *MockBoardStorage) MarkPostAnswered(id domain.Id) error {
	if m.MarkPostAnsweredFunc != nil {
		return m.MarkPostAnsweredFunc(id)
	}
	return nil
}

func (m *MockBoardStorage) SaveComment(c domain.Comment) (domain.Id, error) {
	if m.SaveCommentFunc != nil {
		return m.SaveCommentFunc(c)
	}
	return domain.NewId(), nil
}

func (m *MockBoardStorage) Comments(postId domain.Id) ([]domain.Comment, error) {
	if m.CommentsFunc != nil {
		return m.CommentsFunc(postId)
	}
	return nil, nil
}

func (m *MockBoardStorage) Comment(id domain.Id) (domain.Comment, error) {
	if m.CommentFunc != nil {
		return m.CommentFunc(id)
	}
	return domain.Comment{}, internal_errors.NotFound("Comment not found")
}

func (m *MockBoardStorage) SoftDeleteComment(id domain.Id, stamp domain.Stamp) error {
	if m.SoftDeleteCommentFunc != nil {
		return m.SoftDeleteCommentFunc(id, stamp)
	}
	return nil
}

type MockEmail struct {
	SendFunc      func(recipientEmail, subject, body string) error
	IsCorrectFunc func(email string) error
}

func (m *MockEmail) Send(recipientEmail, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(recipientEmail, subject, body)
	}
	return nil
}

func (m *MockEmail) IsCorrect(email string) error {
	if m.IsCorrectFunc != nil {
		return m.IsCorrectFunc(email)
	}
	return nil
}

type MockJwt struct {
	NewTokenFunc func(p domain.Principal) (string, error)
}

func (m *MockJwt) NewToken(p domain.Principal) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(p)
	}
	return "token", nil
}

// staticDirectory is a fixed company directory that counts invalidations.
type staticDirectory struct {
	names       map[string]string
	invalidated int
}

func (d *staticDirectory) Name(id string) (string, bool) {
	name, ok := d.names[id]
	return name, ok
}

func (d *staticDirectory) Invalidate() { d.invalidated++ }

type plainRenderer struct{}

func (plainRenderer) Render(text string) string { return "<p>" + text + "</p>" }

// fixedClock pins "now" to 2025-06-15 10:30 UTC.
var fixedClock Clock = func() time.Time {
	return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
}

type MockGlobalIndexStorage struct {
	GciRankingsFunc    func(year int) ([]domain.GciRanking, error)
	RiskyCountriesFunc func(since time.Time) ([]domain.RiskyCountry, error)
}

func (m *MockGlobalIndexStorage) GciRankings(year int) ([]domain.GciRanking, error) {
	if m.GciRankingsFunc != nil {
		return m.GciRankingsFunc(year)
	}
	return nil, nil
}

func (m *MockGlobalIndexStorage) RiskyCountries(since time.Time) ([]domain.RiskyCountry, error) {
	if m.RiskyCountriesFunc != nil {
		return m.RiskyCountriesFunc(since)
	}
	return nil, nil
}
