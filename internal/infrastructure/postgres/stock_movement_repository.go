package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/domain"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger append-only sobre stock_movements (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento. La cantidad ya viene con signo. Sin CreatedAt se usa
// clock_timestamp() del servidor, común a todas las instancias de la API.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	var createdAt any = squirrel.Expr("clock_timestamp()")
	if !m.CreatedAt.IsZero() {
		createdAt = m.CreatedAt
	}
	sql, args, err := builder.Insert("stock_movements").
		Columns("id", "material_id", "attributed_user_id", "quantity", "type", "location", "message", "created_at").
		Values(m.ID, m.MaterialID, m.UserID, m.Quantity, string(m.Type), m.Location, m.Message, createdAt).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&m.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewValidationError(fkField(pgCodeConstraint(err)), "referencia inexistente")
		}
		return fmt.Errorf("insert movement: %w", mapError(err))
	}
	return nil
}

// SumByMaterial stock actual: suma con signo de todos los movimientos del material.
func (r *StockMovementRepo) SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE material_id = $1`,
		materialID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", mapError(err))
	}
	return total, nil
}

// ExistsForMaterial indica si el material tiene historial.
func (r *StockMovementRepo) ExistsForMaterial(ctx context.Context, materialID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock_movements WHERE material_id = $1)`,
		materialID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists movements: %w", mapError(err))
	}
	return exists, nil
}

type movementRow struct {
	ID           string          `db:"id"`
	MaterialID   string          `db:"material_id"`
	UserID       *string         `db:"attributed_user_id"`
	Quantity     decimal.Decimal `db:"quantity"`
	Type         string          `db:"type"`
	Location     string          `db:"location"`
	Message      string          `db:"message"`
	CreatedAt    time.Time       `db:"created_at"`
	MaterialName string          `db:"material_name"`
	Unit         string          `db:"unit"`
}

// List movimientos más recientes primero (created_at, luego orden de inserción), con datos del material.
func (r *StockMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementView, error) {
	q := builder.Select(
		"sm.id", "sm.material_id", "sm.attributed_user_id", "sm.quantity", "sm.type",
		"sm.location", "sm.message", "sm.created_at",
		"m.name AS material_name", "m.unit",
	).
		From("stock_movements sm").
		Join("materials m ON m.id = sm.material_id").
		OrderBy("sm.created_at DESC", "sm.seq DESC")

	if filter.MaterialID != "" {
		q = q.Where(squirrel.Eq{"sm.material_id": filter.MaterialID})
	}
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"sm.type": string(filter.Type)})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", mapError(err))
	}

	out := make([]*entity.MovementView, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.MovementView{
			StockMovement: entity.StockMovement{
				ID:         row.ID,
				MaterialID: row.MaterialID,
				UserID:     row.UserID,
				Quantity:   row.Quantity,
				Type:       entity.MovementType(row.Type),
				Location:   row.Location,
				Message:    row.Message,
				CreatedAt:  row.CreatedAt,
			},
			MaterialName: row.MaterialName,
			Unit:         row.Unit,
		})
	}
	return out, nil
}
