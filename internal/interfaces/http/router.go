package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/buildstock-api/internal/application/analytics"
	"github.com/jhoicas/buildstock-api/internal/application/dto"
	"github.com/jhoicas/buildstock-api/internal/application/inventory"
	"github.com/jhoicas/buildstock-api/internal/application/report"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registry         *inventory.MaterialRegistry
	RegisterMovement *inventory.RegisterMovementUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	DashboardUC      *analytics.DashboardUseCase
	ExportUC         *report.ExportUseCase
	// StoreName backend activo ("postgres" o "memory"), informado en /health.
	StoreName string
	// Ping verifica el backend; nil equivale a siempre disponible.
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	api := app.Group("/api")

	// Ledger de stock
	stockHandler := NewStockHandler(deps.RegisterMovement)
	api.Post("/stock", stockHandler.RegisterMovement)
	api.Get("/records", stockHandler.ListMovements)

	// Vistas derivadas
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ExportUC)
	api.Get("/summary", dashboardHandler.GetSummary)
	api.Get("/materiais", dashboardHandler.GetSummary)
	api.Get("/summary/export", dashboardHandler.ExportSummary)
	api.Get("/dashboard-data", dashboardHandler.GetDashboardData)
	api.Get("/dashboard/stats", dashboardHandler.GetStats)

	// Materiales. /replenishment va antes de /:id.
	materials := api.Group("/materials")
	materialHandler := NewMaterialHandler(deps.Registry, deps.RegisterMovement, deps.Replenishment)
	materials.Get("/", materialHandler.List)
	materials.Post("/", materialHandler.Create)
	materials.Get("/replenishment", materialHandler.Replenishment)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Get("/:id/stock", materialHandler.GetStock)
	materials.Put("/:id", materialHandler.Update)
	materials.Patch("/:id/thresholds", materialHandler.UpdateThresholds)
	materials.Delete("/:id", materialHandler.Delete)
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				c.Locals(localsErrKey, err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "unavailable", Store: deps.StoreName})
			}
		}
		return c.JSON(dto.HealthResponse{Status: "ok", Store: deps.StoreName})
	}
}
