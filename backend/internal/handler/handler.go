package handler

import (
	"context"

	"github.com/teamdash/teamdash/backend/internal/service"
	"github.com/teamdash/teamdash/shared/config"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Services groups everything the HTTP layer talks to.
type Services struct {
	Auth        service.AuthService
	Account     service.AccountService
	Records     service.RecordsService
	Dashboard   service.DashboardService
	Graph       service.GraphService
	Post        service.PostService
	Comment     service.CommentService
	GlobalIndex service.GlobalIndexService
}

type Handler struct {
	auth        service.AuthService
	account     service.AccountService
	records     service.RecordsService
	dashboard   service.DashboardService
	graph       service.GraphService
	post        service.PostService
	comment     service.CommentService
	globalIndex service.GlobalIndexService
	cfg         *config.Config
	health      HealthChecker
}

func New(s Services, cfg *config.Config, health HealthChecker) *Handler {
	return &Handler{
		auth:        s.Auth,
		account:     s.Account,
		records:     s.Records,
		dashboard:   s.Dashboard,
		graph:       s.Graph,
		post:        s.Post,
		comment:     s.Comment,
		globalIndex: s.GlobalIndex,
		cfg:         cfg,
		health:      health,
	}
}
