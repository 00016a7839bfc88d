package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdash/teamdash/backend/internal/service"
	"github.com/teamdash/teamdash/shared/api"
	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
)

func setupAccountHandler(accountService *MockAccountService) *chi.Mux {
	h := &Handler{account: accountService, cfg: testConfig()}
	router := chi.NewRouter()
	router.Use(asPrincipal(adminPrincipal))
	router.Post("/api/admin/join", h.AdminJoin)
	router.Get("/api/admin/list", h.ListAdmins)
	router.Get("/api/member/list", h.ListMembers)
	router.Post("/api/admin/member-invite", h.InviteMember)
	router.Get("/api/admin/check-duplicate", h.CheckDuplicate)
	router.Post("/api/admin/delete", h.DeleteAccounts)
	return router
}

func TestAdminJoin(t *testing.T) {
	route := "/api/admin/join"

	t.Run("created", func(t *testing.T) {
		mockService := &MockAccountService{
			MockAdminJoin: func(acc domain.Account, password domain.Password) (domain.Account, error) {
				assert.Equal(t, "lee", acc.UserId)
				assert.Equal(t, domain.TeamSecurity, acc.Team)
				assert.Equal(t, "pass1", password)
				acc.Type = domain.AccountAdmin
				return acc, nil
			},
		}
		rr := httptest.NewRecorder()
		setupAccountHandler(mockService).ServeHTTP(rr, createRequest(t, http.MethodPost, route,
			[]byte(`{"userId":"lee","password":"pass1","nickname":"Lee","team":"security"}`)))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.NotContains(t, rr.Body.String(), "pass1")
		var acc domain.Account
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &acc))
		assert.Equal(t, domain.AccountAdmin, acc.Type)
	})

	t.Run("unknown team", func(t *testing.T) {
		rr := httptest.NewRecorder()
		setupAccountHandler(&MockAccountService{}).ServeHTTP(rr, createRequest(t, http.MethodPost, route,
			[]byte(`{"userId":"lee","password":"pass1","nickname":"Lee","team":"marketing"}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate user id", func(t *testing.T) {
		mockService := &MockAccountService{
			MockAdminJoin: func(domain.Account, domain.Password) (domain.Account, error) {
				return domain.Account{}, internal_errors.BadRequest("user id already exists")
			},
		}
		rr := httptest.NewRecorder()
		setupAccountHandler(mockService).ServeHTTP(rr, createRequest(t, http.MethodPost, route,
			[]byte(`{"userId":"lee","password":"pass1","nickname":"Lee","team":"security"}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "already exists")
	})
}

func TestInviteMember(t *testing.T) {
	route := "/api/admin/member-invite"

	t.Run("mail failure is reported but account is created", func(t *testing.T) {
		mockService := &MockAccountService{
			MockInvite: func(req service.InviteRequest) (service.InviteResult, error) {
				assert.Equal(t, domain.AccountMember, req.Type)
				assert.Equal(t, "park@example.com", req.Email)
				assert.Equal(t, "I00001", req.CompanyId)
				return service.InviteResult{
					Account:    domain.Account{UserId: req.UserId, Email: req.Email},
					EmailError: "smtp down",
				}, nil
			},
		}
		rr := httptest.NewRecorder()
		setupAccountHandler(mockService).ServeHTTP(rr, createRequest(t, http.MethodPost, route,
			[]byte(`{"userId":"park","nickname":"Park","email":"park@example.com","company_id":"I00001"}`)))

		require.Equal(t, http.StatusCreated, rr.Code)
		var resp api.InviteResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.False(t, resp.EmailSent)
		assert.Equal(t, "smtp down", resp.EmailError)
		assert.Equal(t, "park", resp.Account.UserId)
	})

	t.Run("invalid email", func(t *testing.T) {
		rr := httptest.NewRecorder()
		setupAccountHandler(&MockAccountService{}).ServeHTTP(rr, createRequest(t, http.MethodPost, route,
			[]byte(`{"userId":"park","nickname":"Park","email":"not-an-email"}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid account type", func(t *testing.T) {
		rr := httptest.NewRecorder()
		setupAccountHandler(&MockAccountService{}).ServeHTTP(rr, createRequest(t, http.MethodPost, route,
			[]byte(`{"userId":"park","nickname":"Park","email":"park@example.com","accountType":"root"}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListAccounts(t *testing.T) {
	t.Run("empty admin list is an empty array", func(t *testing.T) {
		rr := httptest.NewRecorder()
		setupAccountHandler(&MockAccountService{}).ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/admin/list", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"accounts":[]}`, rr.Body.String())
	})

	t.Run("members with company name", func(t *testing.T) {
		mockService := &MockAccountService{
			MockMembers: func() ([]domain.Account, error) {
				return []domain.Account{{UserId: "kim", CompanyId: "I00001", CompanyName: "Acme"}}, nil
			},
		}
		rr := httptest.NewRecorder()
		setupAccountHandler(mockService).ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/member/list", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp api.AccountListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Accounts, 1)
		assert.Equal(t, "Acme", resp.Accounts[0].CompanyName)
	})
}

func TestCheckDuplicate(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantKind domain.AccountKeyKind
		status   int
	}{
		{name: "user id", query: "?field=userId&value=kim", wantKind: domain.KeyUserId, status: http.StatusOK},
		{name: "nickname", query: "?field=nickname&value=Kim", wantKind: domain.KeyNickname, status: http.StatusOK},
		{name: "unknown field", query: "?field=email&value=x", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockAccountService{
				MockCheckDuplicate: func(kind domain.AccountKeyKind, value string) (bool, error) {
					assert.Equal(t, tt.wantKind, kind)
					return true, nil
				},
			}
			rr := httptest.NewRecorder()
			setupAccountHandler(mockService).ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/admin/check-duplicate"+tt.query, nil))

			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"duplicate":true}`, rr.Body.String())
			}
		})
	}
}

func TestDeleteAccounts(t *testing.T) {
	route := "/api/admin/delete"

	t.Run("deleted count", func(t *testing.T) {
		mockService := &MockAccountService{
			MockDelete: func(at domain.AccountType, userIds []domain.UserId) (int64, error) {
				assert.Equal(t, domain.AccountMember, at)
				assert.Equal(t, []domain.UserId{"kim", "park"}, userIds)
				return 2, nil
			},
		}
		rr := httptest.NewRecorder()
		setupAccountHandler(mockService).ServeHTTP(rr, createRequest(t, http.MethodPost, route,
			[]byte(`{"accountType":"member","userIds":["kim","park"]}`)))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"deleted":2}`, rr.Body.String())
	})

	t.Run("nothing deleted", func(t *testing.T) {
		mockService := &MockAccountService{
			MockDelete: func(domain.AccountType, []domain.UserId) (int64, error) {
				return 0, internal_errors.NotFound("No matching accounts")
			},
		}
		rr := httptest.NewRecorder()
		setupAccountHandler(mockService).ServeHTTP(rr, createRequest(t, http.MethodPost, route,
			[]byte(`{"accountType":"admin","userIds":["ghost"]}`)))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("empty id list", func(t *testing.T) {
		rr := httptest.NewRecorder()
		setupAccountHandler(&MockAccountService{}).ServeHTTP(rr, createRequest(t, http.MethodPost, route,
			[]byte(`{"accountType":"member","userIds":[]}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
