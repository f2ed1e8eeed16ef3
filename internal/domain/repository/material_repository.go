package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/domain/entity"
)

// MaterialRepository puerto de persistencia para Material.
// Los métodos devuelven (nil, nil) cuando no encuentran la fila, como el resto de repositorios.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	// CreateIfAbsent inserta salvo que la clave ya exista; false indica que otro escritor la creó antes.
	CreateIfAbsent(ctx context.Context, material *entity.Material) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	// GetByNameKey busca por clave normalizada (activos e inactivos).
	GetByNameKey(ctx context.Context, nameKey string) (*entity.Material, error)
	// LockByNameKey igual que GetByNameKey pero bloquea la fila hasta el fin de la transacción.
	LockByNameKey(ctx context.Context, nameKey string) (*entity.Material, error)
	// LockByID bloquea la fila del material hasta el fin de la transacción.
	LockByID(ctx context.Context, id string) (*entity.Material, error)
	// ExistsNameKeyExcept indica si otro material (id distinto) ya usa la clave.
	ExistsNameKeyExcept(ctx context.Context, nameKey, exceptID string) (bool, error)
	Update(ctx context.Context, material *entity.Material) (bool, error)
	UpdateThresholds(ctx context.Context, id string, minStock decimal.Decimal, maxStock *decimal.Decimal) (bool, error)
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, includeInactive bool) ([]*entity.Material, error)
}
