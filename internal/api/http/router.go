package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bsm-service/internal/api/http/handlers"
	"github.com/spec-kit/bsm-service/internal/auth"
	"github.com/spec-kit/bsm-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	Accounts       *handlers.AccountsHandler
	Assets         *handlers.AssetsHandler
	Workflows      *handlers.WorkflowsHandler
	Metrics        *handlers.MetricsHandler
	Articles       *handlers.ArticlesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/staff/login", cfg.Staff.Login)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	api.Get("/me", cfg.Users.Me)

	// customer portal surface
	api.Post("/tickets", cfg.Tickets.Create)
	my := api.Group("/my", auth.RequireUser())
	my.Get("/tickets", cfg.Tickets.ListMine)
	my.Get("/tickets/:id", cfg.Tickets.GetMine)

	// help center surface
	api.Get("/help/articles", cfg.Articles.ListHelp)
	api.Get("/help/articles/:slug", cfg.Articles.GetHelp)
	api.Post("/help/articles/:slug/feedback", cfg.Articles.Feedback)

	// staff surface
	staff := api.Group("", auth.RequireStaffRole(domain.StaffRoleAgent, domain.StaffRoleAdmin))
	staff.Get("/tickets", cfg.Tickets.List)
	staff.Get("/tickets/summary", cfg.Tickets.Summary)
	staff.Get("/tickets/export", cfg.Tickets.Export)
	staff.Get("/tickets/:id", cfg.Tickets.Get)
	staff.Patch("/tickets/:id", cfg.Tickets.Update)
	staff.Delete("/tickets/:id", cfg.Tickets.Delete)
	staff.Post("/tickets/:id/assign", cfg.Tickets.Assign)
	staff.Post("/tickets/:id/attachments", cfg.Tickets.AddAttachments)

	staff.Post("/accounts", cfg.Accounts.Create)
	staff.Get("/accounts", cfg.Accounts.List)
	staff.Get("/accounts/summary", cfg.Accounts.Summary)
	staff.Get("/accounts/export", cfg.Accounts.Export)
	staff.Get("/accounts/:id", cfg.Accounts.Get)
	staff.Patch("/accounts/:id", cfg.Accounts.Update)
	staff.Delete("/accounts/:id", cfg.Accounts.Delete)

	staff.Post("/assets", cfg.Assets.Create)
	staff.Get("/assets", cfg.Assets.List)
	staff.Get("/assets/summary", cfg.Assets.Summary)
	staff.Get("/assets/export", cfg.Assets.Export)
	staff.Get("/assets/:id", cfg.Assets.Get)
	staff.Patch("/assets/:id", cfg.Assets.Update)
	staff.Delete("/assets/:id", cfg.Assets.Delete)

	staff.Post("/workflows", cfg.Workflows.Create)
	staff.Get("/workflows", cfg.Workflows.List)
	staff.Get("/workflows/summary", cfg.Workflows.Summary)
	staff.Get("/workflows/export", cfg.Workflows.Export)
	staff.Get("/workflows/:id", cfg.Workflows.Get)
	staff.Patch("/workflows/:id", cfg.Workflows.Update)
	staff.Delete("/workflows/:id", cfg.Workflows.Delete)
	staff.Get("/workflows/:id/runs", cfg.Workflows.ListRuns)
	staff.Post("/workflows/:id/runs", cfg.Workflows.RecordRun)

	staff.Post("/articles", cfg.Articles.Create)
	staff.Get("/articles", cfg.Articles.List)
	staff.Get("/articles/summary", cfg.Articles.Summary)
	staff.Get("/articles/export", cfg.Articles.Export)
	staff.Get("/articles/:id", cfg.Articles.Get)
	staff.Patch("/articles/:id", cfg.Articles.Update)
	staff.Delete("/articles/:id", cfg.Articles.Delete)

	staff.Get("/metrics/response", cfg.Metrics.Response)
	staff.Get("/metrics/response/export", cfg.Metrics.Export)
	staff.Get("/metrics/targets", cfg.Metrics.ListTargets)

	// admin-only operations
	admin := api.Group("", auth.RequireStaffRole(domain.StaffRoleAdmin))
	admin.Post("/staff", cfg.Staff.Create)
	admin.Patch("/staff/:id/role", cfg.Staff.SetRole)
	admin.Patch("/staff/:id/active", cfg.Staff.SetActive)
	admin.Put("/metrics/targets", cfg.Metrics.SetTarget)
}
