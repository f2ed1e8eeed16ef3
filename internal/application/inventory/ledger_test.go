package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/buildstock-api/internal/application/dto"
	"github.com/jhoicas/buildstock-api/internal/application/inventory"
	"github.com/jhoicas/buildstock-api/internal/domain"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
	"github.com/jhoicas/buildstock-api/internal/infrastructure/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type ledgerFixture struct {
	store    *memstore.Store
	registry *inventory.MaterialRegistry
	ledger   *inventory.RegisterMovementUseCase
}

func newLedger(t *testing.T, opts inventory.RegistryOptions) *ledgerFixture {
	t.Helper()
	store := memstore.New()
	registry := inventory.NewMaterialRegistry(store, store.Materials(), opts, zerolog.Nop())
	ledger := inventory.NewRegisterMovementUseCase(store, registry, store.Materials(), store.Movements(), zerolog.Nop())
	return &ledgerFixture{store: store, registry: registry, ledger: ledger}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *ledgerFixture) append(t *testing.T, name, qty string, typ entity.MovementType) (*entity.StockMovement, error) {
	t.Helper()
	return f.ledger.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		MaterialName: name,
		Quantity:     dec(qty),
		Type:         typ,
	})
}

func (f *ledgerFixture) mustAppend(t *testing.T, name, qty string, typ entity.MovementType) *entity.StockMovement {
	t.Helper()
	mov, err := f.append(t, name, qty, typ)
	require.NoError(t, err)
	return mov
}

func (f *ledgerFixture) stockOf(t *testing.T, materialID string) decimal.Decimal {
	t.Helper()
	s, err := f.ledger.CurrentStock(context.Background(), materialID)
	require.NoError(t, err)
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Signo y stock
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_SignoLoDecideElTipo(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	in := f.mustAppend(t, "Cimento", "25", entity.MovementEntrada)
	out := f.mustAppend(t, "Cimento", "10", entity.MovementSaida)

	assert.True(t, in.Quantity.Equal(dec("25")))
	assert.True(t, out.Quantity.Equal(dec("-10")), "una salida se guarda negativa")
	assert.Equal(t, in.MaterialID, out.MaterialID)
	assert.True(t, f.stockOf(t, in.MaterialID).Equal(dec("15")))
	require.False(t, in.CreatedAt.IsZero(), "la fecha la fija el almacén")
	assert.False(t, out.CreatedAt.Before(in.CreatedAt))
}

func TestRegisterMovement_SalidaSinStockSuficiente(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	in := f.mustAppend(t, "Areia", "25", entity.MovementEntrada)

	_, err := f.append(t, "Areia", "30", entity.MovementSaida)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, stockErr.Available.Equal(dec("25")), "debe informar el disponible real")
	assert.True(t, stockErr.Requested.Equal(dec("30")))
	assert.Equal(t, in.MaterialID, stockErr.MaterialID)

	assert.True(t, f.stockOf(t, in.MaterialID).Equal(dec("25")), "el rechazo no escribe nada")
	counts, err := f.store.MovementCounts(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.Total)
}

func TestRegisterMovement_SalidaExactaDejaCero(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	in := f.mustAppend(t, "Brita", "7.5", entity.MovementEntrada)
	f.mustAppend(t, "Brita", "7.5", entity.MovementSaida)

	assert.True(t, f.stockOf(t, in.MaterialID).IsZero())
}

func TestRegisterMovement_SalidaSobreMaterialNuevoNoLoCrea(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})

	_, err := f.append(t, "Telha", "5", entity.MovementSaida)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	list, err := f.registry.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, list, "el alta implícita se revierte con la transacción")
}

func TestRegisterMovement_CantidadCeroPermitida(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	mov := f.mustAppend(t, "Prego", "0", entity.MovementEntrada)
	assert.True(t, mov.Quantity.IsZero())

	// Una salida de cero sobre stock cero tampoco viola el invariante.
	f.mustAppend(t, "Prego", "0", entity.MovementSaida)
	assert.True(t, f.stockOf(t, mov.MaterialID).IsZero())
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	cases := []struct {
		name  string
		input inventory.MovementInputDTO
		field string
	}{
		{"cantidad negativa", inventory.MovementInputDTO{MaterialName: "Cal", Quantity: dec("-5"), Type: entity.MovementEntrada}, "quantity"},
		{"nombre vacío", inventory.MovementInputDTO{MaterialName: "   ", Quantity: dec("5"), Type: entity.MovementEntrada}, "material"},
		{"tipo desconocido", inventory.MovementInputDTO{MaterialName: "Cal", Quantity: dec("5"), Type: "ajuste"}, "type"},
		{"precio negativo", inventory.MovementInputDTO{MaterialName: "Cal", Quantity: dec("5"), Type: entity.MovementEntrada, Price: dec("-1")}, "price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.RegisterMovement(context.Background(), tc.input)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	counts, err := f.store.MovementCounts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts.Total)
}

func TestRegisterMovement_UsuarioInexistente(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	unknown := uuid.New().String()

	_, err := f.ledger.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		MaterialName: "Madeira",
		Quantity:     dec("3"),
		Type:         entity.MovementEntrada,
		UserID:       &unknown,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovementFromRequest_TipoPorDefectoEntrada(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	qty := dec("12")

	mov, err := f.ledger.RegisterMovementFromRequest(context.Background(), dto.RegisterMovementRequest{
		Material: "Tinta",
		Quantity: &qty,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementEntrada, mov.Type)
	assert.True(t, mov.Quantity.Equal(qty))
}

func TestRegisterMovementFromRequest_SinCantidad(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	_, err := f.ledger.RegisterMovementFromRequest(context.Background(), dto.RegisterMovementRequest{Material: "Tinta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Identidad del material
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_NombreSinDistinguirMayusculas(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	a := f.mustAppend(t, "Cimento", "10", entity.MovementEntrada)
	b := f.mustAppend(t, "CIMENTO", "5", entity.MovementEntrada)
	c := f.mustAppend(t, "  cimento ", "3", entity.MovementSaida)

	assert.Equal(t, a.MaterialID, b.MaterialID)
	assert.Equal(t, a.MaterialID, c.MaterialID)
	assert.True(t, f.stockOf(t, a.MaterialID).Equal(dec("12")))

	m, err := f.registry.Get(context.Background(), a.MaterialID)
	require.NoError(t, err)
	assert.Equal(t, "Cimento", m.Name, "se conserva el nombre del primer alta")
	assert.Equal(t, entity.DefaultUnit, m.Unit)
	assert.True(t, m.MinStock.IsZero())
}

func TestRegisterMovement_MaterialDadoDeBajaNoSeReactiva(t *testing.T) {
	ctx := context.Background()
	f := newLedger(t, inventory.RegistryOptions{})
	first := f.mustAppend(t, "Ferro", "10", entity.MovementEntrada)
	require.NoError(t, f.registry.Delete(ctx, first.MaterialID))

	again := f.mustAppend(t, "ferro", "5", entity.MovementEntrada)
	assert.Equal(t, first.MaterialID, again.MaterialID)

	m, err := f.registry.Get(ctx, first.MaterialID)
	require.NoError(t, err)
	assert.False(t, m.Active)
	assert.True(t, f.stockOf(t, first.MaterialID).Equal(dec("15")))

	summary, err := f.store.StockSummary(ctx)
	require.NoError(t, err)
	assert.Empty(t, summary, "un material inactivo no aparece en el resumen")
}

// ──────────────────────────────────────────────────────────────────────────────
// Precio
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_PrecioSeActualizaConOpcion(t *testing.T) {
	ctx := context.Background()
	f := newLedger(t, inventory.RegistryOptions{RefreshPriceOnMovement: true})
	mov, err := f.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{
		MaterialName: "Cimento", Quantity: dec("10"), Type: entity.MovementEntrada, Price: dec("35"),
	})
	require.NoError(t, err)
	_, err = f.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{
		MaterialName: "Cimento", Quantity: dec("5"), Type: entity.MovementEntrada, Price: dec("38.50"),
	})
	require.NoError(t, err)

	m, err := f.registry.Get(ctx, mov.MaterialID)
	require.NoError(t, err)
	assert.True(t, m.Price.Equal(dec("38.50")))

	// Precio cero no sobrescribe.
	_, err = f.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{
		MaterialName: "Cimento", Quantity: dec("1"), Type: entity.MovementSaida,
	})
	require.NoError(t, err)
	m, err = f.registry.Get(ctx, mov.MaterialID)
	require.NoError(t, err)
	assert.True(t, m.Price.Equal(dec("38.50")))
}

func TestRegisterMovement_PrecioSinOpcionNoCambia(t *testing.T) {
	ctx := context.Background()
	f := newLedger(t, inventory.RegistryOptions{RefreshPriceOnMovement: false})
	mov, err := f.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{
		MaterialName: "Cal", Quantity: dec("10"), Type: entity.MovementEntrada, Price: dec("18"),
	})
	require.NoError(t, err)
	_, err = f.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{
		MaterialName: "Cal", Quantity: dec("10"), Type: entity.MovementEntrada, Price: dec("20"),
	})
	require.NoError(t, err)

	m, err := f.registry.Get(ctx, mov.MaterialID)
	require.NoError(t, err)
	assert.True(t, m.Price.Equal(dec("18")), "el alta implícita toma el precio; luego no cambia")
}

func TestRegisterMovement_SalidaRechazadaNoCambiaPrecio(t *testing.T) {
	ctx := context.Background()
	f := newLedger(t, inventory.RegistryOptions{RefreshPriceOnMovement: true})
	mov, err := f.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{
		MaterialName: "Tijolo", Quantity: dec("100"), Type: entity.MovementEntrada, Price: dec("0.80"),
	})
	require.NoError(t, err)

	_, err = f.ledger.RegisterMovement(ctx, inventory.MovementInputDTO{
		MaterialName: "Tijolo", Quantity: dec("500"), Type: entity.MovementSaida, Price: dec("1.20"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	m, err := f.registry.Get(ctx, mov.MaterialID)
	require.NoError(t, err)
	assert.True(t, m.Price.Equal(dec("0.80")), "el rollback deshace también el precio")
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_SalidasConcurrentes(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	in := f.mustAppend(t, "Tijolo", "150", entity.MovementEntrada)

	const workers = 2
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		errs    []error
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.ledger.RegisterMovement(context.Background(), inventory.MovementInputDTO{
				MaterialName: "Tijolo", Quantity: dec("100"), Type: entity.MovementSaida,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			success++
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, success, "exactamente una salida debe confirmarse")
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], domain.ErrInsufficientStock) || errors.Is(errs[0], domain.ErrConflict), "error inesperado: %v", errs[0])
	assert.True(t, f.stockOf(t, in.MaterialID).Equal(dec("50")))
}

func TestRegisterMovement_ConcurrenciaNuncaNegativa(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	in := f.mustAppend(t, "Areia", "10", entity.MovementEntrada)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.append(t, "Areia", "3", entity.MovementSaida)
		}()
		go func() {
			defer wg.Done()
			_, _ = f.append(t, "AREIA", "1", entity.MovementEntrada)
		}()
	}
	wg.Wait()

	stock := f.stockOf(t, in.MaterialID)
	assert.False(t, stock.IsNegative(), "stock negativo: %s", stock)

	// El stock final coincide con la suma del ledger.
	views, err := f.ledger.ListMovements(context.Background(), repository.MovementFilter{MaterialID: in.MaterialID})
	require.NoError(t, err)
	sum := decimal.Zero
	for _, v := range views {
		sum = sum.Add(v.Quantity)
	}
	assert.True(t, sum.Equal(stock))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentStock_MaterialInexistente(t *testing.T) {
	f := newLedger(t, inventory.RegistryOptions{})
	_, err := f.ledger.CurrentStock(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCurrentStock_SinMovimientosEsCero(t *testing.T) {
	ctx := context.Background()
	f := newLedger(t, inventory.RegistryOptions{})
	m, err := f.registry.Create(ctx, inventory.MaterialInput{Name: "Cal"})
	require.NoError(t, err)
	assert.True(t, f.stockOf(t, m.ID).IsZero())
}

func TestListMovements_FiltrosYLimite(t *testing.T) {
	ctx := context.Background()
	f := newLedger(t, inventory.RegistryOptions{})
	f.mustAppend(t, "Cimento", "10", entity.MovementEntrada)
	f.mustAppend(t, "Areia", "10", entity.MovementEntrada)
	last := f.mustAppend(t, "Cimento", "4", entity.MovementSaida)

	all, err := f.ledger.ListMovements(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, last.ID, all[0].ID, "más recientes primero")
	assert.Equal(t, "Cimento", all[0].MaterialName)

	saidas, err := f.ledger.ListMovements(ctx, repository.MovementFilter{Type: entity.MovementSaida})
	require.NoError(t, err)
	require.Len(t, saidas, 1)

	limited, err := f.ledger.ListMovements(ctx, repository.MovementFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = f.ledger.ListMovements(ctx, repository.MovementFilter{Type: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
