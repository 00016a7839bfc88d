package setup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/teamdash/teamdash/backend/internal/chart"
	"github.com/teamdash/teamdash/backend/internal/handler"
	"github.com/teamdash/teamdash/backend/internal/service"
	"github.com/teamdash/teamdash/backend/internal/service/utils"
	"github.com/teamdash/teamdash/backend/internal/storage/mongodb"
	"github.com/teamdash/teamdash/backend/internal/utils/email"
	"github.com/teamdash/teamdash/shared/config"
	"github.com/teamdash/teamdash/shared/jwt"
	"github.com/teamdash/teamdash/shared/logger"
	mw "github.com/teamdash/teamdash/shared/middleware"
	"github.com/teamdash/teamdash/shared/middleware/ratelimiter"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *mongodb.Storage
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	LoginLimiter   *ratelimiter.KeyedLimiter
	Directory      *service.CompanyDirectory
	Cron           *cron.Cron
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	if err := loadChartFont(cfg.Public.Charts.FontPath); err != nil {
		return nil, err
	}

	storage, err := mongodb.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	directory := service.NewCompanyDirectory(storage)
	if err := directory.Update(); err != nil {
		storage.Cleanup()
		return nil, fmt.Errorf("initial company directory load: %w", err)
	}

	sender := email.New(&cfg.Private.Email)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	renderer := utils.NewContentRenderer()
	boardCfg := service.BoardConfig{
		DefaultPageSize: cfg.Public.Board.DefaultPageSize,
		MaxContentLen:   cfg.Public.Board.MaxContentLen,
	}
	clock := service.Clock(time.Now)

	services := handler.Services{
		Auth:        service.NewAuth(storage, jwtService),
		Account:     service.NewAccount(storage, sender, directory, clock),
		Records:     service.NewRecords(storage, directory, clock),
		Dashboard:   service.NewDashboard(storage, clock),
		Graph:       service.NewGraph(storage),
		Post:        service.NewPost(storage, storage, renderer, boardCfg, clock),
		Comment:     service.NewComment(storage, storage, renderer, boardCfg, clock),
		GlobalIndex: service.NewGlobalIndex(storage, clock),
	}

	scheduler := cron.New()
	refresher := service.NewStatusRefresher(storage, clock)
	if _, err := refresher.Schedule(scheduler, cfg.Public.Jobs.StatusRefreshCron); err != nil {
		storage.Cleanup()
		return nil, fmt.Errorf("invalid status refresh schedule %q: %w", cfg.Public.Jobs.StatusRefreshCron, err)
	}

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        handler.New(services, cfg, storage),
		AuthMiddleware: mw.NewAuth(jwtService),
		LoginLimiter:   ratelimiter.New(1, 5, time.Hour),
		Directory:      directory,
		Cron:           scheduler,
	}, nil
}

// StartBackground launches the periodic jobs. They stop when ctx is done,
// except cron which is stopped by Shutdown.
func (d *Dependencies) StartBackground(ctx context.Context) {
	d.Directory.StartBackgroundUpdate(ctx, d.Config.Public.Jobs.CompanyDirectoryRefresh*time.Second)
	d.LoginLimiter.StartSweeper(ctx, 10*time.Minute)
	d.Cron.Start()
	logger.Log.Info("background jobs started")
}

func (d *Dependencies) Shutdown() {
	<-d.Cron.Stop().Done()
	if err := d.Storage.Cleanup(); err != nil {
		logger.Log.Error("failed to disconnect from mongodb", "error", err)
	}
}

func loadChartFont(path string) error {
	if path == "" {
		return nil
	}
	ttf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read chart font: %w", err)
	}
	if err := chart.UseFont(ttf); err != nil {
		return fmt.Errorf("load chart font %s: %w", path, err)
	}
	logger.Log.Info("chart font loaded", "path", path)
	return nil
}
