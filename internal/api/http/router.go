package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/lead-distribution/internal/api/http/handlers"
	"github.com/spec-kit/lead-distribution/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Operators   *handlers.OperatorsHandler
	Sources     *handlers.SourcesHandler
	Assignments *handlers.AssignmentsHandler
	Contacts    *handlers.ContactsHandler
	Leads       *handlers.LeadsHandler
	Stats       *handlers.StatsHandler
	Metrics     *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	operators := app.Group("/operators")
	operators.Post("/", cfg.Operators.Create)
	operators.Get("/", cfg.Operators.List)
	operators.Get("/:id", cfg.Operators.Get)
	operators.Get("/:id/load", cfg.Operators.Load)
	operators.Patch("/:id", cfg.Operators.Update)
	operators.Delete("/:id", cfg.Operators.Delete)

	sources := app.Group("/sources")
	sources.Post("/", cfg.Sources.Create)
	sources.Get("/", cfg.Sources.List)
	sources.Get("/:id", cfg.Sources.Get)
	sources.Patch("/:id", cfg.Sources.Update)
	sources.Delete("/:id", cfg.Sources.Delete)

	assignments := app.Group("/assignments")
	assignments.Post("/", cfg.Assignments.Upsert)
	assignments.Get("/", cfg.Assignments.List)
	assignments.Delete("/:operator_id/:source_id", cfg.Assignments.Delete)

	contacts := app.Group("/contacts")
	contacts.Post("/", cfg.Contacts.Create)
	contacts.Get("/", cfg.Contacts.List)
	contacts.Get("/:id", cfg.Contacts.Get)
	contacts.Patch("/:id/status", cfg.Contacts.UpdateStatus)
	contacts.Post("/:id/reassign", cfg.Contacts.Reassign)

	leads := app.Group("/leads")
	leads.Get("/", cfg.Leads.List)
	leads.Get("/:id", cfg.Leads.Get)

	stats := app.Group("/stats")
	stats.Get("/", cfg.Stats.System)
	stats.Get("/sources/:id", cfg.Stats.SourceDistribution)
}
