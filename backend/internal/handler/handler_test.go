package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/teamdash/teamdash/backend/internal/service"
	"github.com/teamdash/teamdash/shared/api"
	"github.com/teamdash/teamdash/shared/config"
	"github.com/teamdash/teamdash/shared/domain"
	mw "github.com/teamdash/teamdash/shared/middleware"
)

func createRequest(t *testing.T, method, url string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{JwtTTL: 3600}}
}

// asPrincipal puts p into the request context the way the auth middleware does.
func asPrincipal(p domain.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), mw.PrincipalKey, &p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var (
	memberPrincipal = domain.Principal{Id: "m1", UserId: "kim", Type: domain.AccountMember}
	adminPrincipal  = domain.Principal{Id: "a1", UserId: "boss", Type: domain.AccountAdmin, Team: domain.TeamManagement}
)

// --- Service mocks ---

type MockAuthService struct {
	MockLogin          func(userId domain.UserId, password domain.Password) (service.LoginResult, error)
	MockChangePassword func(t domain.AccountType, userId domain.UserId, oldPassword, newPassword domain.Password) error
	MockChangeNickname func(t domain.AccountType, userId domain.UserId, nickname domain.Nickname) error
}

func (m *MockAuthService) Login(userId domain.UserId, password domain.Password) (service.LoginResult, error) {
	if m.MockLogin != nil {
		return m.MockLogin(userId, password)
	}
	return service.LoginResult{}, nil
}

func (m *MockAuthService) ChangePassword(t domain.AccountType, userId domain.UserId, oldPassword, newPassword domain.Password) error {
	if m.MockChangePassword != nil {
		return m.MockChangePassword(t, userId, oldPassword, newPassword)
	}
	return nil
}

func (m *MockAuthService) ChangeNickname(t domain.AccountType, userId domain.UserId, nickname domain.Nickname) error {
	if m.MockChangeNickname != nil {
		return m.MockChangeNickname(t, userId, nickname)
	}
	return nil
}

type MockAccountService struct {
	MockAdminJoin      func(acc domain.Account, password domain.Password) (domain.Account, error)
	MockInvite         func(req service.InviteRequest) (service.InviteResult, error)
	MockAdmins         func() ([]domain.Account, error)
	MockMembers        func() ([]domain.Account, error)
	MockCheckDuplicate func(kind domain.AccountKeyKind, value string) (bool, error)
	MockDelete         func(t domain.AccountType, userIds []domain.UserId) (int64, error)
}

func (m *MockAccountService) AdminJoin(acc domain.Account, password domain.Password) (domain.Account, error) {
	if m.MockAdminJoin != nil {
		return m.MockAdminJoin(acc, password)
	}
	return acc, nil
}

func (m *MockAccountService) Invite(req service.InviteRequest) (service.InviteResult, error) {
	if m.MockInvite != nil {
		return m.MockInvite(req)
	}
	return service.InviteResult{}, nil
}

func (m *MockAccountService) Admins() ([]domain.Account, error) {
	if m.MockAdmins != nil {
		return m.MockAdmins()
	}
	return nil, nil
}

func (m *MockAccountService) Members() ([]domain.Account, error) {
	if m.MockMembers != nil {
		return m.MockMembers()
	}
	return nil, nil
}

func (m *MockAccountService) CheckDuplicate(kind domain.AccountKeyKind, value string) (bool, error) {
	if m.MockCheckDuplicate != nil {
		return m.MockCheckDuplicate(kind, value)
	}
	return false, nil
}

func (m *MockAccountService) Delete(t domain.AccountType, userIds []domain.UserId) (int64, error) {
	if m.MockDelete != nil {
		return m.MockDelete(t, userIds)
	}
	return int64(len(userIds)), nil
}

type MockRecordsService struct {
	MockCompanies        func() ([]domain.Company, error)
	MockIncidents        func() ([]domain.Incident, error)
	MockDevProjects      func() ([]domain.DevProject, error)
	MockColumns          func(kind domain.RecordKind) ([]string, error)
	MockCreateCompany    func(c domain.Company) (domain.Id, error)
	MockCreateIncident   func(i domain.Incident) (domain.Id, error)
	MockCreateDevProject func(d domain.DevProject) (domain.Id, error)
	MockUpdateCompany    func(id domain.Id, patch domain.CompanyPatch) error
	MockUpdateIncident   func(id domain.Id, patch domain.IncidentPatch) error
	MockUpdateDevProject func(id domain.Id, patch domain.DevPatch) error
	MockDeleteRecords    func(kind domain.RecordKind, ids []string) (int64, error)
	MockNextCompanyId    func(industry domain.Industry) (string, error)
}

func (m *MockRecordsService) Companies() ([]domain.Company, error) {
	if m.MockCompanies != nil {
		return m.MockCompanies()
	}
	return nil, nil
}

func (m *MockRecordsService) Incidents() ([]domain.Incident, error) {
	if m.MockIncidents != nil {
		return m.MockIncidents()
	}
	return nil, nil
}

func (m *MockRecordsService) DevProjects() ([]domain.DevProject, error) {
	if m.MockDevProjects != nil {
		return m.MockDevProjects()
	}
	return nil, nil
}

func (m *MockRecordsService) Columns(kind domain.RecordKind) ([]string, error) {
	if m.MockColumns != nil {
		return m.MockColumns(kind)
	}
	return nil, nil
}

func (m *MockRecordsService) CreateCompany(c domain.Company) (domain.Id, error) {
	if m.MockCreateCompany != nil {
		return m.MockCreateCompany(c)
	}
	return domain.NewId(), nil
}

func (m *MockRecordsService) CreateIncident(i domain.Incident) (domain.Id, error) {
	if m.MockCreateIncident != nil {
		return m.MockCreateIncident(i)
	}
	return domain.NewId(), nil
}

func (m *MockRecordsService) CreateDevProject(d domain.DevProject) (domain.Id, error) {
	if m.MockCreateDevProject != nil {
		return m.MockCreateDevProject(d)
	}
	return domain.NewId(), nil
}

func (m *MockRecordsService) UpdateCompany(id domain.Id, patch domain.CompanyPatch) error {
	if m.MockUpdateCompany != nil {
		return m.MockUpdateCompany(id, patch)
	}
	return nil
}

func (m *MockRecordsService) UpdateIncident(id domain.Id, patch domain.IncidentPatch) error {
	if m.MockUpdateIncident != nil {
		return m.MockUpdateIncident(id, patch)
	}
	return nil
}

func (m *MockRecordsService) UpdateDevProject(id domain.Id, patch domain.DevPatch) error {
	if m.MockUpdateDevProject != nil {
		return m.MockUpdateDevProject(id, patch)
	}
	return nil
}

func (m *MockRecordsService) DeleteRecords(kind domain.RecordKind, ids []string) (int64, error) {
	if m.MockDeleteRecords != nil {
		return m.MockDeleteRecords(kind, ids)
	}
	return int64(len(ids)), nil
}

func (m *MockRecordsService) NextCompanyId(industry domain.Industry) (string, error) {
	if m.MockNextCompanyId != nil {
		return m.MockNextCompanyId(industry)
	}
	return "", nil
}

type MockDashboardService struct {
	MockSummary       func() (api.DashboardSummaryResponse, error)
	MockSummaryGraphs func() (api.DashboardGraphsResponse, error)
}

func (m *MockDashboardService) Summary() (api.DashboardSummaryResponse, error) {
	if m.MockSummary != nil {
		return m.MockSummary()
	}
	return api.DashboardSummaryResponse{}, nil
}

func (m *MockDashboardService) SummaryGraphs() (api.DashboardGraphsResponse, error) {
	if m.MockSummaryGraphs != nil {
		return m.MockSummaryGraphs()
	}
	return api.DashboardGraphsResponse{}, nil
}

type MockGraphService struct {
	MockRender      func(kind domain.RecordKind, graphType string, opts service.GraphOptions) ([]byte, error)
	MockThreatTypes func() ([]string, error)
	MockTopThreats  func(n int) ([]string, error)
}

func (m *MockGraphService) Render(kind domain.RecordKind, graphType string, opts service.GraphOptions) ([]byte, error) {
	if m.MockRender != nil {
		return m.MockRender(kind, graphType, opts)
	}
	return nil, nil
}

func (m *MockGraphService) ThreatTypes() ([]string, error) {
	if m.MockThreatTypes != nil {
		return m.MockThreatTypes()
	}
	return nil, nil
}

func (m *MockGraphService) TopThreats(n int) ([]string, error) {
	if m.MockTopThreats != nil {
		return m.MockTopThreats(n)
	}
	return nil, nil
}

type MockPostService struct {
	MockCreate func(actor domain.Principal, p domain.Post) (domain.Id, error)
	MockList   func(page, size int) (domain.PostPage, error)
	MockView   func(id domain.Id) (domain.Post, error)
	MockUpdate func(actor domain.Principal, id domain.Id, patch domain.PostPatch) error
	MockDelete func(actor domain.Principal, id domain.Id) error
}

func (m *MockPostService) Create(actor domain.Principal, p domain.Post) (domain.Id, error) {
	if m.MockCreate != nil {
		return m.MockCreate(actor, p)
	}
	return domain.NewId(), nil
}

func (m *MockPostService) List(page, size int) (domain.PostPage, error) {
	if m.MockList != nil {
		return m.MockList(page, size)
	}
	return domain.PostPage{}, nil
}

func (m *MockPostService) View(id domain.Id) (domain.Post, error) {
	if m.MockView != nil {
		return m.MockView(id)
	}
	return domain.Post{Id: id}, nil
}

func (m *MockPostService) Update(actor domain.Principal, id domain.Id, patch domain.PostPatch) error {
	if m.MockUpdate != nil {
		return m.MockUpdate(actor, id, patch)
	}
	return nil
}

func (m *MockPostService) Delete(actor domain.Principal, id domain.Id) error {
	if m.MockDelete != nil {
		return m.MockDelete(actor, id)
	}
	return nil
}

type MockCommentService struct {
	MockCreate func(actor domain.Principal, c domain.Comment) (domain.Id, error)
	MockList   func(postId domain.Id) ([]domain.Comment, error)
	MockDelete func(actor domain.Principal, id domain.Id) error
}

func (m *MockCommentService) Create(actor domain.Principal, c domain.Comment) (domain.Id, error) {
	if m.MockCreate != nil {
		return m.MockCreate(actor, c)
	}
	return domain.NewId(), nil
}

func (m *MockCommentService) List(postId domain.Id) ([]domain.Comment, error) {
	if m.MockList != nil {
		return m.MockList(postId)
	}
	return nil, nil
}

func (m *MockCommentService) Delete(actor domain.Principal, id domain.Id) error {
	if m.MockDelete != nil {
		return m.MockDelete(actor, id)
	}
	return nil
}

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

type MockGlobalIndexService struct {
	MockRiskyCountryMap    func() (*geojson.FeatureCollection, error)
	MockRiskyCountryAlerts func(minutesAgo int) ([]domain.RiskyCountry, error)
	MockGciRankings        func(year int) ([]domain.GciRanking, error)
}

func (m *MockGlobalIndexService) RiskyCountryMap() (*geojson.FeatureCollection, error) {
	if m.MockRiskyCountryMap != nil {
		return m.MockRiskyCountryMap()
	}
	return geojson.NewFeatureCollection(), nil
}

func (m *MockGlobalIndexService) RiskyCountryAlerts(minutesAgo int) ([]domain.RiskyCountry, error) {
	if m.MockRiskyCountryAlerts != nil {
		return m.MockRiskyCountryAlerts(minutesAgo)
	}
	return nil, nil
}

func (m *MockGlobalIndexService) GciRankings(year int) ([]domain.GciRanking, error) {
	if m.MockGciRankings != nil {
		return m.MockGciRankings(year)
	}
	return nil, nil
}
