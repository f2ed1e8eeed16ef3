package repository

import (
	"context"
	"time"

	"github.com/jhoicas/buildstock-api/internal/domain/entity"
)

// AnalyticsRepository consultas de solo lectura para el motor de agregación.
// Cada material se calcula de forma independiente; no se exige una foto consistente entre materiales.
type AnalyticsRepository interface {
	// StockSummary una fila por material activo, incluidos los que no tienen movimientos.
	StockSummary(ctx context.Context) ([]entity.MaterialStock, error)
	MovementCounts(ctx context.Context) (entity.MovementCounts, error)
	// FlowSince magnitudes de entrada y salida registradas desde since (inclusive).
	FlowSince(ctx context.Context, since time.Time) (entity.FlowTotals, error)
}
