package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/domain"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

// RegistryOptions comportamiento configurable del registro de materiales.
type RegistryOptions struct {
	// RefreshPriceOnMovement: si es true, un movimiento con precio > 0 sobrescribe el precio
	// guardado del material ("último precio conocido").
	RefreshPriceOnMovement bool
}

// MaterialRegistry resuelve materiales por nombre (sin distinguir mayúsculas) y gestiona sus metadatos.
type MaterialRegistry struct {
	txRunner     TxRunner
	materialRepo repository.MaterialRepository
	opts         RegistryOptions
	log          zerolog.Logger
	now          func() time.Time
}

// NewMaterialRegistry construye el registro. materialRepo se usa para lecturas fuera de transacción.
func NewMaterialRegistry(
	txRunner TxRunner,
	materialRepo repository.MaterialRepository,
	opts RegistryOptions,
	log zerolog.Logger,
) *MaterialRegistry {
	return &MaterialRegistry{
		txRunner:     txRunner,
		materialRepo: materialRepo,
		opts:         opts,
		log:          log.With().Str("component", "material_registry").Logger(),
		now:          time.Now,
	}
}

// MaterialInput datos de alta o edición completa de un material.
type MaterialInput struct {
	Name        string
	Unit        string
	MinStock    decimal.Decimal
	MaxStock    *decimal.Decimal
	Price       decimal.Decimal
	Description string
}

func (in *MaterialInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	if in.Name == "" {
		return domain.NewValidationError("name", "es obligatorio")
	}
	if in.Unit == "" {
		in.Unit = entity.DefaultUnit
	}
	if err := validateThresholds(in.MinStock, in.MaxStock); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return domain.NewValidationError("price", "no puede ser negativo")
	}
	return nil
}

func validateThresholds(minStock decimal.Decimal, maxStock *decimal.Decimal) error {
	if minStock.IsNegative() {
		return domain.NewValidationError("min_stock", "no puede ser negativo")
	}
	if maxStock != nil && maxStock.IsNegative() {
		return domain.NewValidationError("max_stock", "no puede ser negativo")
	}
	return nil
}

// ResolveOrCreate busca el material por nombre entre activos e inactivos y bloquea su fila
// hasta el fin de la transacción del llamador; si no existe lo crea con umbrales por defecto.
//
// Efecto secundario: con RefreshPriceOnMovement activo y price > 0, el precio guardado se
// sobrescribe con el del movimiento. Como corre en la transacción del llamador, un rollback
// posterior deshace también ese cambio.
func (r *MaterialRegistry) ResolveOrCreate(
	ctx context.Context,
	repo repository.MaterialRepository,
	name, unit string,
	price decimal.Decimal,
) (*entity.Material, error) {
	key := entity.NameKey(name)
	if key == "" {
		return nil, domain.NewValidationError("material", "es obligatorio")
	}
	if price.IsNegative() {
		return nil, domain.NewValidationError("price", "no puede ser negativo")
	}

	material, err := repo.LockByNameKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if material == nil {
		material, err = r.createLocked(ctx, repo, name, unit, price)
		if err != nil {
			return nil, err
		}
		return material, nil
	}

	if r.opts.RefreshPriceOnMovement && price.IsPositive() && !price.Equal(material.Price) {
		if err := repo.UpdatePrice(ctx, material.ID, price); err != nil {
			return nil, err
		}
		r.log.Debug().
			Str("material_id", material.ID).
			Str("old_price", material.Price.String()).
			Str("new_price", price.String()).
			Msg("precio actualizado por movimiento")
		material.Price = price
	}
	return material, nil
}

// createLocked inserta el material; si otro escritor lo creó en paralelo, relee y bloquea esa fila.
func (r *MaterialRegistry) createLocked(
	ctx context.Context,
	repo repository.MaterialRepository,
	name, unit string,
	price decimal.Decimal,
) (*entity.Material, error) {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = entity.DefaultUnit
	}
	now := r.now()
	material := &entity.Material{
		ID:        uuid.New().String(),
		Unit:      unit,
		MinStock:  decimal.Zero,
		Price:     price,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	material.SetName(name)

	created, err := repo.CreateIfAbsent(ctx, material)
	if err != nil {
		return nil, err
	}
	if created {
		r.log.Info().Str("material_id", material.ID).Str("name", material.Name).Msg("material creado desde movimiento")
		return material, nil
	}
	existing, err := repo.LockByNameKey(ctx, material.NameKey)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &domain.TransactionConflictError{Cause: errors.New("material creado y eliminado concurrentemente")}
	}
	return existing, nil
}

// Create da de alta un material. Falla con DuplicateNameError si el nombre ya existe (activo o no).
func (r *MaterialRegistry) Create(ctx context.Context, in MaterialInput) (*entity.Material, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	now := r.now()
	material := &entity.Material{
		ID:          uuid.New().String(),
		Unit:        in.Unit,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		Price:       in.Price,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	material.SetName(in.Name)

	err := r.txRunner.Run(ctx, func(materialRepo repository.MaterialRepository, _ repository.StockMovementRepository) error {
		existing, err := materialRepo.GetByNameKey(ctx, material.NameKey)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.DuplicateNameError{Name: material.Name}
		}
		return materialRepo.Create(ctx, material)
	})
	if err != nil {
		return nil, duplicateName(err, material.Name)
	}
	r.log.Info().Str("material_id", material.ID).Str("name", material.Name).Msg("material creado")
	return material, nil
}

// MaterialPatch edición parcial: los campos nil conservan el valor actual.
type MaterialPatch struct {
	Name        *string
	Unit        *string
	MinStock    *decimal.Decimal
	MaxStock    *decimal.Decimal
	Price       *decimal.Decimal
	Description *string
}

func (p MaterialPatch) merge(current *entity.Material) MaterialInput {
	in := MaterialInput{
		Name:        current.Name,
		Unit:        current.Unit,
		MinStock:    current.MinStock,
		MaxStock:    current.MaxStock,
		Price:       current.Price,
		Description: current.Description,
	}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Unit != nil {
		in.Unit = *p.Unit
	}
	if p.MinStock != nil {
		in.MinStock = *p.MinStock
	}
	if p.MaxStock != nil {
		mx := *p.MaxStock
		in.MaxStock = &mx
	}
	if p.Price != nil {
		in.Price = *p.Price
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	return in
}

// Update reemplaza los metadatos del material. El renombrado vuelve a validar unicidad excluyendo al propio registro.
func (r *MaterialRegistry) Update(ctx context.Context, id string, in MaterialInput) (*entity.Material, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	return r.update(ctx, id, func(*entity.Material) MaterialInput { return in })
}

// Patch aplica los campos presentes sobre el material leído con la fila ya bloqueada,
// así dos ediciones parciales concurrentes no se pisan.
func (r *MaterialRegistry) Patch(ctx context.Context, id string, patch MaterialPatch) (*entity.Material, error) {
	return r.update(ctx, id, patch.merge)
}

func (r *MaterialRegistry) update(ctx context.Context, id string, build func(current *entity.Material) MaterialInput) (*entity.Material, error) {
	var (
		updated *entity.Material
		name    string
	)
	err := r.txRunner.Run(ctx, func(materialRepo repository.MaterialRepository, _ repository.StockMovementRepository) error {
		material, err := materialRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if material == nil {
			return &domain.NotFoundError{Entity: "material", ID: id}
		}
		in := build(material)
		if err := in.normalize(); err != nil {
			return err
		}
		name = in.Name
		key := entity.NameKey(in.Name)
		taken, err := materialRepo.ExistsNameKeyExcept(ctx, key, material.ID)
		if err != nil {
			return err
		}
		if taken {
			return &domain.DuplicateNameError{Name: in.Name}
		}

		material.SetName(in.Name)
		material.Unit = in.Unit
		material.MinStock = in.MinStock
		material.MaxStock = in.MaxStock
		material.Price = in.Price
		material.Description = in.Description
		material.UpdatedAt = r.now()
		ok, err := materialRepo.Update(ctx, material)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.NotFoundError{Entity: "material", ID: id}
		}
		updated = material
		return nil
	})
	if err != nil {
		return nil, duplicateName(err, name)
	}
	return updated, nil
}

// UpdateThresholds actualización parcial: solo min_stock y max_stock.
func (r *MaterialRegistry) UpdateThresholds(ctx context.Context, id string, minStock decimal.Decimal, maxStock *decimal.Decimal) error {
	if err := validateThresholds(minStock, maxStock); err != nil {
		return err
	}
	ok, err := r.materialRepo.UpdateThresholds(ctx, id, minStock, maxStock)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.NotFoundError{Entity: "material", ID: id}
	}
	return nil
}

// Delete elimina el material. Con movimientos se hace baja lógica (active=false) para conservar
// el historial; sin movimientos se borra la fila. Ambos casos son éxito para el llamador.
func (r *MaterialRegistry) Delete(ctx context.Context, id string) error {
	soft := false
	err := r.txRunner.Run(ctx, func(materialRepo repository.MaterialRepository, movRepo repository.StockMovementRepository) error {
		material, err := materialRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if material == nil {
			return &domain.NotFoundError{Entity: "material", ID: id}
		}
		hasHistory, err := movRepo.ExistsForMaterial(ctx, id)
		if err != nil {
			return err
		}
		if hasHistory {
			soft = true
			return materialRepo.Deactivate(ctx, id)
		}
		return materialRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	r.log.Info().Str("material_id", id).Bool("soft_delete", soft).Msg("material eliminado")
	return nil
}

// Get obtiene un material por ID (incluye inactivos, para consultas históricas).
func (r *MaterialRegistry) Get(ctx context.Context, id string) (*entity.Material, error) {
	material, err := r.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, &domain.NotFoundError{Entity: "material", ID: id}
	}
	return material, nil
}

// List lista materiales ordenados por nombre.
func (r *MaterialRegistry) List(ctx context.Context, includeInactive bool) ([]*entity.Material, error) {
	return r.materialRepo.List(ctx, includeInactive)
}

// duplicateName convierte la violación de unicidad del backend (carrera entre dos altas) en DuplicateNameError.
func duplicateName(err error, name string) error {
	var dup *domain.DuplicateNameError
	if errors.As(err, &dup) {
		return err
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return &domain.DuplicateNameError{Name: strings.TrimSpace(name)}
	}
	return err
}
