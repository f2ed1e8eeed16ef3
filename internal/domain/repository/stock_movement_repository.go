package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/domain/entity"
)

// MovementFilter criterios para listar el ledger (más recientes primero).
type MovementFilter struct {
	Limit      int
	MaterialID string
	Type       entity.MovementType
}

// StockMovementRepository puerto del ledger: solo inserción y lectura.
type StockMovementRepository interface {
	// Create inserta el movimiento. Con CreatedAt en cero el almacén lo fija con su propio reloj,
	// no decreciente respecto al orden de inserción, y lo devuelve en movement.CreatedAt.
	Create(ctx context.Context, movement *entity.StockMovement) error
	// SumByMaterial suma con signo de todos los movimientos del material (0 si no hay).
	SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error)
	ExistsForMaterial(ctx context.Context, materialID string) (bool, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementView, error)
}
