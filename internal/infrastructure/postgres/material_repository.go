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

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

var materialColumns = []string{
	"id", "name", "name_key", "unit", "min_stock", "max_stock", "price",
	"description", "active", "created_at", "updated_at",
}

// materialRow fila de materials tal como la devuelve PostgreSQL.
type materialRow struct {
	ID          string           `db:"id"`
	Name        string           `db:"name"`
	NameKey     string           `db:"name_key"`
	Unit        string           `db:"unit"`
	MinStock    decimal.Decimal  `db:"min_stock"`
	MaxStock    *decimal.Decimal `db:"max_stock"`
	Price       decimal.Decimal  `db:"price"`
	Description string           `db:"description"`
	Active      bool             `db:"active"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
}

func (r materialRow) toEntity() *entity.Material {
	return &entity.Material{
		ID:          r.ID,
		Name:        r.Name,
		NameKey:     r.NameKey,
		Unit:        r.Unit,
		MinStock:    r.MinStock,
		MaxStock:    r.MaxStock,
		Price:       r.Price,
		Description: r.Description,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de persistencia para materiales. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

func materialValues(m *entity.Material) []any {
	return []any{
		m.ID, m.Name, m.NameKey, m.Unit, m.MinStock, m.MaxStock, m.Price,
		m.Description, m.Active, m.CreatedAt, m.UpdatedAt,
	}
}

// Create persiste un nuevo material.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	sql, args, err := builder.Insert("materials").Columns(materialColumns...).Values(materialValues(m)...).ToSql()
	if err != nil {
		return fmt.Errorf("build insert material: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateNameError{Name: m.Name}
		}
		return fmt.Errorf("insert material: %w", mapError(err))
	}
	return nil
}

// CreateIfAbsent inserta salvo que name_key ya exista. false = otro escritor lo creó antes.
func (r *MaterialRepo) CreateIfAbsent(ctx context.Context, m *entity.Material) (bool, error) {
	sql, args, err := builder.Insert("materials").
		Columns(materialColumns...).
		Values(materialValues(m)...).
		Suffix("ON CONFLICT (name_key) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert material: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("insert material: %w", mapError(err))
	}
	return tag.RowsAffected() == 1, nil
}

func (r *MaterialRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, op string) (*entity.Material, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	var row materialRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return row.toEntity(), nil
}

// GetByID obtiene un material por ID (activo o no).
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	return r.getOne(ctx, builder.Select(materialColumns...).From("materials").Where(squirrel.Eq{"id": id}), "get material")
}

// GetByNameKey obtiene un material por su clave de identidad.
func (r *MaterialRepo) GetByNameKey(ctx context.Context, nameKey string) (*entity.Material, error) {
	return r.getOne(ctx, builder.Select(materialColumns...).From("materials").Where(squirrel.Eq{"name_key": nameKey}), "get material by name")
}

// LockByNameKey como GetByNameKey pero con SELECT ... FOR UPDATE: la fila queda bloqueada
// hasta el fin de la transacción. Solo tiene sentido con un Querier transaccional.
func (r *MaterialRepo) LockByNameKey(ctx context.Context, nameKey string) (*entity.Material, error) {
	return r.getOne(ctx,
		builder.Select(materialColumns...).From("materials").Where(squirrel.Eq{"name_key": nameKey}).Suffix("FOR UPDATE"),
		"lock material by name")
}

// LockByID bloquea la fila del material por ID.
func (r *MaterialRepo) LockByID(ctx context.Context, id string) (*entity.Material, error) {
	return r.getOne(ctx,
		builder.Select(materialColumns...).From("materials").Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"),
		"lock material")
}

// ExistsNameKeyExcept indica si otro material (distinto de exceptID) usa la clave.
func (r *MaterialRepo) ExistsNameKeyExcept(ctx context.Context, nameKey, exceptID string) (bool, error) {
	sql, args, err := builder.Select("1").From("materials").
		Where(squirrel.Eq{"name_key": nameKey}).
		Where(squirrel.NotEq{"id": exceptID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists material: %w", err)
	}
	var exists bool
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists material: %w", mapError(err))
	}
	return exists, nil
}

// Update reemplaza los metadatos editables. false si el ID no existe.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) (bool, error) {
	sql, args, err := builder.Update("materials").
		Set("name", m.Name).
		Set("name_key", m.NameKey).
		Set("unit", m.Unit).
		Set("min_stock", m.MinStock).
		Set("max_stock", m.MaxStock).
		Set("price", m.Price).
		Set("description", m.Description).
		Set("updated_at", m.UpdatedAt).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update material: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return false, &domain.DuplicateNameError{Name: m.Name}
		}
		return false, fmt.Errorf("update material: %w", mapError(err))
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateThresholds actualiza solo min_stock y max_stock.
func (r *MaterialRepo) UpdateThresholds(ctx context.Context, id string, minStock decimal.Decimal, maxStock *decimal.Decimal) (bool, error) {
	sql, args, err := builder.Update("materials").
		Set("min_stock", minStock).
		Set("max_stock", maxStock).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update thresholds: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("update thresholds: %w", mapError(err))
	}
	return tag.RowsAffected() == 1, nil
}

// UpdatePrice guarda el último precio conocido.
func (r *MaterialRepo) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE materials SET price = $2, updated_at = now() WHERE id = $1`, id, price)
	if err != nil {
		return fmt.Errorf("update price: %w", mapError(err))
	}
	return nil
}

// Deactivate baja lógica: conserva la fila y su historial.
func (r *MaterialRepo) Deactivate(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `UPDATE materials SET active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate material: %w", mapError(err))
	}
	return nil
}

// Delete borra la fila. La FK RESTRICT de stock_movements impide borrar materiales con historial.
func (r *MaterialRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.TransactionConflictError{Cause: err}
		}
		return fmt.Errorf("delete material: %w", mapError(err))
	}
	return nil
}

// List materiales ordenados por nombre; includeInactive incluye las bajas lógicas.
func (r *MaterialRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Material, error) {
	q := builder.Select(materialColumns...).From("materials").OrderBy("name_key", "id")
	if !includeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list materials: %w", err)
	}
	var rows []materialRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list materials: %w", mapError(err))
	}
	out := make([]*entity.Material, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
