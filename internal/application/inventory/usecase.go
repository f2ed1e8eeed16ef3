package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/domain"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

const (
	DefaultMovementLimit = 1000
	MaxMovementLimit     = 5000
)

// RegisterMovementUseCase es el ledger de stock: registra movimientos con signo de forma transaccional.
//
// Para una salida, la secuencia leer stock → validar → insertar corre con la fila del material
// bloqueada (SELECT FOR UPDATE, tomado en ResolveOrCreate), de modo que dos salidas concurrentes
// sobre el mismo material se serializan y el stock nunca queda negativo.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	registry     *MaterialRegistry
	materialRepo repository.MaterialRepository
	movRepo      repository.StockMovementRepository
	log          zerolog.Logger
}

// NewRegisterMovementUseCase construye el caso de uso. Los repositorios se usan para lecturas fuera de transacción.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	registry *MaterialRegistry,
	materialRepo repository.MaterialRepository,
	movRepo repository.StockMovementRepository,
	log zerolog.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		registry:     registry,
		materialRepo: materialRepo,
		movRepo:      movRepo,
		log:          log.With().Str("component", "stock_ledger").Logger(),
	}
}

// MovementInputDTO entrada para registrar un movimiento.
// Quantity es siempre una magnitud sin signo; el signo lo decide Type.
type MovementInputDTO struct {
	MaterialName string
	Quantity     decimal.Decimal
	Type         entity.MovementType
	Unit         string
	Price        decimal.Decimal
	UserID       *string
	Location     string
	Message      string
}

func (in MovementInputDTO) validate() error {
	if entity.NameKey(in.MaterialName) == "" {
		return domain.NewValidationError("material", "es obligatorio")
	}
	if !in.Type.Valid() {
		return domain.NewValidationError("type", "debe ser entrada o saida")
	}
	if in.Quantity.IsNegative() {
		return domain.NewValidationError("quantity", "debe ser un número no negativo")
	}
	if in.Price.IsNegative() {
		return domain.NewValidationError("price", "no puede ser negativo")
	}
	return nil
}

// RegisterMovement valida, resuelve o crea el material y agrega el movimiento en una sola transacción.
// Errores: ValidationError, InsufficientStockError (solo salidas) y TransactionConflictError si el
// backend abortó la transacción por concurrencia. Ante cualquier error no queda nada escrito.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.StockMovement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var movement *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		materialRepo repository.MaterialRepository,
		movRepo repository.StockMovementRepository,
	) error {
		material, err := uc.registry.ResolveOrCreate(ctx, materialRepo, input.MaterialName, input.Unit, input.Price)
		if err != nil {
			return err
		}

		if input.Type == entity.MovementSaida {
			available, err := movRepo.SumByMaterial(ctx, material.ID)
			if err != nil {
				return err
			}
			if available.LessThan(input.Quantity) {
				return &domain.InsufficientStockError{
					MaterialID: material.ID,
					Requested:  input.Quantity,
					Available:  available,
				}
			}
		}

		mov := &entity.StockMovement{
			ID:         uuid.New().String(),
			MaterialID: material.ID,
			UserID:     input.UserID,
			Quantity:   input.Type.Signed(input.Quantity),
			Type:       input.Type,
			Location:   input.Location,
			Message:    input.Message,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		movement = mov
		return nil
	})
	if err != nil {
		uc.logRejection(input, err)
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", movement.ID).
		Str("material_id", movement.MaterialID).
		Str("type", string(movement.Type)).
		Str("quantity", movement.Quantity.String()).
		Msg("movimiento registrado")
	return movement, nil
}

func (uc *RegisterMovementUseCase) logRejection(input MovementInputDTO, err error) {
	ev := uc.log.Warn()
	if !domain.IsRetryable(err) && !isBusinessError(err) {
		ev = uc.log.Error()
	}
	ev.Err(err).
		Str("material", input.MaterialName).
		Str("type", string(input.Type)).
		Str("quantity", input.Quantity.String()).
		Msg("movimiento rechazado")
}

// CurrentStock devuelve la suma con signo de los movimientos del material (0 si no tiene).
func (uc *RegisterMovementUseCase) CurrentStock(ctx context.Context, materialID string) (decimal.Decimal, error) {
	material, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return decimal.Zero, err
	}
	if material == nil {
		return decimal.Zero, &domain.NotFoundError{Entity: "material", ID: materialID}
	}
	return uc.movRepo.SumByMaterial(ctx, materialID)
}

// ListMovements lista el ledger, más recientes primero. Incluye movimientos de materiales dados de baja.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementView, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.NewValidationError("type", "debe ser entrada o saida")
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultMovementLimit
	case filter.Limit > MaxMovementLimit:
		filter.Limit = MaxMovementLimit
	}
	return uc.movRepo.List(ctx, filter)
}
