package inventory

import (
	"context"

	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error, o el contexto se cancela, se hace Rollback: no queda ningún efecto parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		materialRepo repository.MaterialRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
