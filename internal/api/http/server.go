package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/api/http/handlers"
	"github.com/spec-kit/lead-distribution/internal/config"
	"github.com/spec-kit/lead-distribution/internal/observability"
	"github.com/spec-kit/lead-distribution/internal/service"
)

// ServerDependencies configures NewServer.
type ServerDependencies struct {
	App          config.AppConfig
	Services     *service.Services
	Dependencies map[string]handlers.Pinger
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// NewServer builds the fiber app with middlewares and every route registered.
func NewServer(deps ServerDependencies) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               deps.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, deps.Metrics, deps.App.RequestTimeout())

	RegisterRoutes(app, RouteConfig{
		Health:      handlers.NewHealthHandler(deps.App.Name, deps.App.Version, deps.Dependencies),
		Operators:   handlers.NewOperatorsHandler(deps.Services.Operators),
		Sources:     handlers.NewSourcesHandler(deps.Services.Sources),
		Assignments: handlers.NewAssignmentsHandler(deps.Services.Assignments),
		Contacts:    handlers.NewContactsHandler(deps.Services.Contacts),
		Leads:       handlers.NewLeadsHandler(deps.Services.Leads),
		Stats:       handlers.NewStatsHandler(deps.Services.Stats),
		Metrics:     deps.Metrics,
	})
	return app
}
