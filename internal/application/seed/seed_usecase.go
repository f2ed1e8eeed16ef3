// Package seed carga el catálogo de demostración a través de los mismos casos de uso
// que usa la API, de modo que los datos sembrados respetan todas las reglas del ledger.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/application/inventory"
	"github.com/jhoicas/buildstock-api/internal/domain"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

// ErrStoreNotEmpty el almacén ya tiene materiales y no se pidió forzar.
var ErrStoreNotEmpty = errors.New("el almacén ya tiene materiales; use --force para sembrar de todos modos")

type materialSeed struct {
	name, unit, description string
	min, max, price         string
}

type movementSeed struct {
	material string
	quantity int64
	typ      entity.MovementType
	location string
	message  string
}

var demoUsers = []entity.User{
	{Name: "João Silva", Email: "joao@buildstock.com", Role: entity.RoleAdmin},
	{Name: "Maria Santos", Email: "maria@buildstock.com", Role: entity.RoleOperador},
	{Name: "Pedro Costa", Email: "pedro@buildstock.com", Role: entity.RoleVisualizador},
}

var demoMaterials = []materialSeed{
	{"Cimento", "saco", "Cimento Portland CP-II", "20", "100", "35.00"},
	{"Areia", "m³", "Areia média lavada", "10", "50", "80.00"},
	{"Brita", "m³", "Brita 1", "10", "50", "90.00"},
	{"Tijolo", "un", "Tijolo cerâmico 6 furos", "2000", "10000", "0.80"},
	{"Telha", "un", "Telha cerâmica colonial", "500", "3000", "3.50"},
	{"Ferro", "kg", "Ferro CA-50 8mm", "50", "500", "8.50"},
	{"Madeira", "m", "Madeira pinus 3x3", "100", "500", "12.00"},
	{"Tinta", "lata", "Tinta acrílica branca 18L", "10", "100", "180.00"},
	{"Cal", "saco", "Cal hidratada", "15", "80", "18.00"},
	{"Prego", "kg", "Prego 18x30", "5", "50", "15.00"},
}

var demoMovements = []movementSeed{
	{"Cimento", 50, entity.MovementEntrada, "Depósito A", "Estoque inicial"},
	{"Areia", 25, entity.MovementEntrada, "Pátio", "Estoque inicial"},
	{"Brita", 20, entity.MovementEntrada, "Pátio", "Estoque inicial"},
	{"Tijolo", 5000, entity.MovementEntrada, "Depósito B", "Estoque inicial"},
	{"Telha", 1500, entity.MovementEntrada, "Depósito B", "Estoque inicial"},
	{"Ferro", 200, entity.MovementEntrada, "Depósito C", "Estoque inicial"},
	{"Madeira", 300, entity.MovementEntrada, "Depósito C", "Estoque inicial"},
	{"Tinta", 30, entity.MovementEntrada, "Almoxarifado", "Estoque inicial"},
	{"Cal", 40, entity.MovementEntrada, "Depósito A", "Estoque inicial"},
	{"Prego", 25, entity.MovementEntrada, "Almoxarifado", "Estoque inicial"},

	{"Cimento", 10, entity.MovementSaida, "Obra Residencial", "Fundação"},
	{"Areia", 5, entity.MovementSaida, "Obra Residencial", "Contrapiso"},
	{"Tijolo", 1000, entity.MovementSaida, "Obra Comercial", "Alvenaria"},
	{"Ferro", 50, entity.MovementSaida, "Obra Residencial", "Estrutura"},
	{"Tinta", 5, entity.MovementSaida, "Obra Comercial", "Pintura externa"},
}

// Result conteos de lo sembrado.
type Result struct {
	UsersCreated     int
	MaterialsCreated int
	MaterialsSkipped int
	Movements        int
}

// UseCase siembra usuarios, materiales y movimientos de demostración.
type UseCase struct {
	registry    *inventory.MaterialRegistry
	ledger      *inventory.RegisterMovementUseCase
	userRepo    repository.UserRepository
	maintenance repository.MaintenanceRepository
	log         zerolog.Logger
}

// NewUseCase construye el sembrador.
func NewUseCase(
	registry *inventory.MaterialRegistry,
	ledger *inventory.RegisterMovementUseCase,
	userRepo repository.UserRepository,
	maintenance repository.MaintenanceRepository,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		registry:    registry,
		ledger:      ledger,
		userRepo:    userRepo,
		maintenance: maintenance,
		log:         log.With().Str("component", "seed").Logger(),
	}
}

// Run carga el catálogo. Sin force, falla con ErrStoreNotEmpty si ya hay materiales.
// Los materiales existentes se omiten; los movimientos se atribuyen al usuario del sistema.
func (uc *UseCase) Run(ctx context.Context, force bool) (*Result, error) {
	count, err := uc.maintenance.CountMaterials(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 && !force {
		return nil, ErrStoreNotEmpty
	}

	res := &Result{}
	for _, u := range demoUsers {
		u.ID = uuid.New().String()
		u.CreatedAt = time.Now()
		created, err := uc.userRepo.CreateIfAbsent(ctx, &u)
		if err != nil {
			return nil, fmt.Errorf("seed: usuario %s: %w", u.Email, err)
		}
		if created {
			res.UsersCreated++
			uc.log.Info().Str("email", u.Email).Str("role", u.Role).Msg("usuario creado")
		}
	}

	for _, m := range demoMaterials {
		maxStock := decimal.RequireFromString(m.max)
		_, err := uc.registry.Create(ctx, inventory.MaterialInput{
			Name:        m.name,
			Unit:        m.unit,
			MinStock:    decimal.RequireFromString(m.min),
			MaxStock:    &maxStock,
			Price:       decimal.RequireFromString(m.price),
			Description: m.description,
		})
		if err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				res.MaterialsSkipped++
				uc.log.Info().Str("material", m.name).Msg("material ya existe")
				continue
			}
			return nil, fmt.Errorf("seed: material %s: %w", m.name, err)
		}
		res.MaterialsCreated++
	}

	var systemID *string
	if sys, err := uc.userRepo.GetByEmail(ctx, entity.SystemUserEmail); err != nil {
		return nil, err
	} else if sys != nil {
		systemID = &sys.ID
	}

	for _, mv := range demoMovements {
		_, err := uc.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{
			MaterialName: mv.material,
			Quantity:     decimal.NewFromInt(mv.quantity),
			Type:         mv.typ,
			UserID:       systemID,
			Location:     mv.location,
			Message:      mv.message,
		})
		if err != nil {
			return nil, fmt.Errorf("seed: movimiento %s %s: %w", mv.typ, mv.material, err)
		}
		res.Movements++
	}

	uc.log.Info().
		Int("users", res.UsersCreated).
		Int("materials", res.MaterialsCreated).
		Int("movements", res.Movements).
		Msg("seed concluido")
	return res, nil
}

// Reset borra movimientos, materiales y usuarios salvo el del sistema.
func (uc *UseCase) Reset(ctx context.Context) (repository.ResetResult, error) {
	res, err := uc.maintenance.Reset(ctx)
	if err != nil {
		return res, fmt.Errorf("reset: %w", err)
	}
	uc.log.Warn().
		Int64("movements", res.Movements).
		Int64("materials", res.Materials).
		Int64("users", res.Users).
		Msg("almacén reiniciado")
	return res, nil
}
