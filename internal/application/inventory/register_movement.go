package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/application/dto"
	"github.com/jhoicas/buildstock-api/internal/domain"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
// Un type vacío se registra como entrada.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, in dto.RegisterMovementRequest) (*entity.StockMovement, error) {
	movType := entity.MovementType(strings.ToLower(strings.TrimSpace(in.Type)))
	if movType == "" {
		movType = entity.MovementEntrada
	}
	if in.Quantity == nil {
		return nil, domain.NewValidationError("quantity", "es obligatorio")
	}
	price := decimal.Zero
	if in.Price != nil {
		price = *in.Price
	}
	var userID *string
	if id := strings.TrimSpace(in.UserID); id != "" {
		userID = &id
	}
	input := MovementInputDTO{
		MaterialName: in.Material,
		Quantity:     *in.Quantity,
		Type:         movType,
		Unit:         in.Unit,
		Price:        price,
		UserID:       userID,
		Location:     strings.TrimSpace(in.Location),
		Message:      strings.TrimSpace(in.Message),
	}
	return uc.RegisterMovement(ctx, input)
}

// isBusinessError errores esperables de negocio (no fallos de infraestructura).
func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrDuplicate)
}
