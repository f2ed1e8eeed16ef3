package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura que pliegan el ledger.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

type stockSummaryRow struct {
	ID             string           `db:"id"`
	Name           string           `db:"name"`
	NameKey        string           `db:"name_key"`
	Unit           string           `db:"unit"`
	MinStock       decimal.Decimal  `db:"min_stock"`
	MaxStock       *decimal.Decimal `db:"max_stock"`
	Price          decimal.Decimal  `db:"price"`
	Description    string           `db:"description"`
	Active         bool             `db:"active"`
	CreatedAt      time.Time        `db:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at"`
	CurrentStock   decimal.Decimal  `db:"current_stock"`
	LastMovementAt *time.Time       `db:"last_movement_at"`
}

// StockSummary materiales activos con su stock derivado y la fecha del último movimiento.
// Materiales sin movimientos aparecen con stock 0.
func (r *AnalyticsRepo) StockSummary(ctx context.Context) ([]entity.MaterialStock, error) {
	const query = `
	SELECT
	    m.id, m.name, m.name_key, m.unit, m.min_stock, m.max_stock, m.price,
	    m.description, m.active, m.created_at, m.updated_at,
	    COALESCE(s.total, 0) AS current_stock,
	    s.last_at            AS last_movement_at
	FROM materials m
	LEFT JOIN (
	    SELECT material_id, SUM(quantity) AS total, MAX(created_at) AS last_at
	    FROM stock_movements
	    GROUP BY material_id
	) s ON s.material_id = m.id
	WHERE m.active
	ORDER BY m.name_key, m.id`

	var rows []stockSummaryRow
	if err := pgxscan.Select(ctx, r.q, &rows, query); err != nil {
		return nil, fmt.Errorf("stock summary: %w", mapError(err))
	}
	out := make([]entity.MaterialStock, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.MaterialStock{
			Material: entity.Material{
				ID:          row.ID,
				Name:        row.Name,
				NameKey:     row.NameKey,
				Unit:        row.Unit,
				MinStock:    row.MinStock,
				MaxStock:    row.MaxStock,
				Price:       row.Price,
				Description: row.Description,
				Active:      row.Active,
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
			},
			CurrentStock:   row.CurrentStock,
			LastMovementAt: row.LastMovementAt,
		})
	}
	return out, nil
}

// MovementCounts conteos sobre todo el ledger (incluye materiales dados de baja).
func (r *AnalyticsRepo) MovementCounts(ctx context.Context) (entity.MovementCounts, error) {
	const query = `
	SELECT
	    COUNT(*)                                   AS total,
	    COUNT(*) FILTER (WHERE type = 'entrada')   AS entradas,
	    COUNT(*) FILTER (WHERE type = 'saida')     AS saidas
	FROM stock_movements`

	var c entity.MovementCounts
	if err := r.q.QueryRow(ctx, query).Scan(&c.Total, &c.Entradas, &c.Saidas); err != nil {
		return entity.MovementCounts{}, fmt.Errorf("movement counts: %w", mapError(err))
	}
	return c, nil
}

// FlowSince magnitudes de entrada y salida con created_at >= since.
func (r *AnalyticsRepo) FlowSince(ctx context.Context, since time.Time) (entity.FlowTotals, error) {
	const query = `
	SELECT
	    COALESCE(SUM(quantity) FILTER (WHERE type = 'entrada'), 0)      AS flow_in,
	    COALESCE(SUM(ABS(quantity)) FILTER (WHERE type = 'saida'), 0)   AS flow_out
	FROM stock_movements
	WHERE created_at >= $1`

	var f entity.FlowTotals
	if err := r.q.QueryRow(ctx, query, since).Scan(&f.In, &f.Out); err != nil {
		return entity.FlowTotals{}, fmt.Errorf("flow since: %w", mapError(err))
	}
	return f, nil
}
