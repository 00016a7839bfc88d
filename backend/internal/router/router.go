package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/teamdash/teamdash/backend/internal/setup"
	mw "github.com/teamdash/teamdash/shared/middleware"
	"github.com/teamdash/teamdash/shared/middleware/metrics"
)

// New creates and configures a new chi router with all the routes.
// Static segments (posts, comments, admin, dashboard) win over the {team} parameter.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)
	r.Use(chimw.Compress(5))
	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Ready)
	r.Get("/health/live", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.With(mw.RateLimit(deps.LoginLimiter, "login", mw.GetIP)).Post("/login", h.Login)
		api.Post("/logout", h.Logout)

		// Logged-in routes
		api.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())

			r.Post("/change-password", h.ChangePassword)
			r.Post("/change-nickname", h.ChangeNickname)

			r.Get("/dashboard/summary", h.Summary)
			r.Get("/dashboard/summary-graphs", h.SummaryGraphs)

			r.Get("/posts", h.ListPosts)
			r.Post("/posts", h.CreatePost)
			r.Get("/posts/{id}", h.ViewPost)
			r.Put("/posts/{id}", h.UpdatePost)
			r.Delete("/posts/{id}", h.DeletePost)

			r.Post("/comments", h.CreateComment)
			r.Get("/comments/{id}", h.ListComments)
			r.Delete("/comments/{id}", h.DeleteComment)

			r.Get("/risky-countries/map-data", h.RiskyCountryMap)
			r.Get("/risky-countries/alerts", h.RiskyCountryAlerts)
			r.Get("/gci-rankings", h.GciRankings)

			r.Get("/{team}", h.ListRecords)
			r.Get("/{team}/columns", h.Columns)
			r.Get("/{team}/next-company-id", h.NextCompanyId)
			r.Get("/{team}/graph/{graph_type}", h.Graph)
			r.Get("/{team}/threat-types", h.ThreatTypes)
			r.Get("/{team}/top-threats", h.TopThreats)
		})

		// Staff routes
		api.Group(func(r chi.Router) {
			r.Use(authMw.AdminOnly())

			r.Post("/admin/join", h.AdminJoin)
			r.Get("/admin/list", h.ListAdmins)
			r.Post("/admin/member-invite", h.InviteMember)
			r.Get("/admin/check-duplicate", h.CheckDuplicate)
			r.Post("/admin/delete", h.DeleteAccounts)
			r.Get("/member/list", h.ListMembers)

			r.Post("/{team}", h.CreateRecord)
			r.Put("/{team}/{id}", h.UpdateRecord)
			r.Delete("/{team}", h.DeleteRecords)
		})
	})

	return r
}
