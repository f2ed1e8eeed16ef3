package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/buildstock-api/internal/domain"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
	"github.com/jhoicas/buildstock-api/internal/infrastructure/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newMaterial(name string) *entity.Material {
	m := &entity.Material{ID: uuid.New().String(), Unit: "un", Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.SetName(name)
	return m
}

func movement(materialID string, qty int64, typ entity.MovementType, at time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:         uuid.New().String(),
		MaterialID: materialID,
		Quantity:   typ.Signed(decimal.NewFromInt(qty)),
		Type:       typ,
		CreatedAt:  at,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_RollbackDescartaTodo(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	boom := errors.New("boom")

	err := store.Run(ctx, func(mr repository.MaterialRepository, mv repository.StockMovementRepository) error {
		m := newMaterial("Cimento")
		require.NoError(t, mr.Create(ctx, m))
		require.NoError(t, mv.Create(ctx, movement(m.ID, 10, entity.MovementEntrada, time.Now())))
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := store.CountMaterials(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "el material creado en la tx abortada no debe persistir")

	counts, err := store.MovementCounts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Total)
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	m := newMaterial("Areia")

	err := store.Run(ctx, func(mr repository.MaterialRepository, mv repository.StockMovementRepository) error {
		if err := mr.Create(ctx, m); err != nil {
			return err
		}
		return mv.Create(ctx, movement(m.ID, 25, entity.MovementEntrada, time.Now()))
	})
	require.NoError(t, err)

	stock, err := store.Movements().SumByMaterial(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(25)))
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := memstore.New()

	called := false
	err := store.Run(ctx, func(repository.MaterialRepository, repository.StockMovementRepository) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Materiales
// ──────────────────────────────────────────────────────────────────────────────

func TestMaterials_IdentidadSinMayusculas(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New().Materials()

	require.NoError(t, repo.Create(ctx, newMaterial("Cimento")))

	err := repo.Create(ctx, newMaterial("  CIMENTO "))
	var dup *domain.DuplicateNameError
	require.ErrorAs(t, err, &dup)

	created, err := repo.CreateIfAbsent(ctx, newMaterial("cimento"))
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetByNameKey(ctx, entity.NameKey("CiMeNtO"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Cimento", got.Name)
}

func TestMaterials_DeleteConHistorialFalla(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	m := newMaterial("Brita")
	require.NoError(t, store.Materials().Create(ctx, m))
	require.NoError(t, store.Movements().Create(ctx, movement(m.ID, 1, entity.MovementEntrada, time.Now())))

	err := store.Materials().Delete(ctx, m.ID)
	assert.True(t, domain.IsRetryable(err))

	got, err := store.Materials().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestMaterials_ListOcultaInactivos(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New().Materials()
	tijolo, telha := newMaterial("Tijolo"), newMaterial("Telha")
	require.NoError(t, repo.Create(ctx, tijolo))
	require.NoError(t, repo.Create(ctx, telha))
	require.NoError(t, repo.Deactivate(ctx, tijolo.ID))

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Telha", active[0].Name)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Telha", all[0].Name, "orden por nombre")
}

func TestMaterials_IDConBufferReutilizado(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	areia, brita := newMaterial("Areia"), newMaterial("Brita")
	require.NoError(t, store.Materials().Create(ctx, areia))
	require.NoError(t, store.Materials().Create(ctx, brita))

	// El id llega apuntando a un buffer que luego se reescribe con otra petición.
	buf := []byte(areia.ID)
	id := unsafe.String(&buf[0], len(buf))
	ok, err := store.Materials().UpdateThresholds(ctx, id, decimal.NewFromInt(5), nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.Materials().UpdatePrice(ctx, id, decimal.NewFromInt(9)))
	require.NoError(t, store.Materials().Deactivate(ctx, id))
	copy(buf, brita.ID)

	got, err := store.Materials().GetByID(ctx, areia.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Areia", got.Name)
	assert.False(t, got.Active)

	all, err := store.Materials().List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestMovements_ReferenciasInexistentes(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	err := store.Movements().Create(ctx, movement(uuid.New().String(), 1, entity.MovementEntrada, time.Now()))
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "material_id", vErr.Field)

	m := newMaterial("Ferro")
	require.NoError(t, store.Materials().Create(ctx, m))
	mv := movement(m.ID, 1, entity.MovementEntrada, time.Now())
	ghost := uuid.New().String()
	mv.UserID = &ghost
	err = store.Movements().Create(ctx, mv)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "user_id", vErr.Field)
}

func TestMovements_ListOrdenYFiltros(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	m := newMaterial("Madeira")
	require.NoError(t, store.Materials().Create(ctx, m))

	t0 := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	first := movement(m.ID, 300, entity.MovementEntrada, t0)
	second := movement(m.ID, 20, entity.MovementSaida, t0) // mismo instante: desempata el orden de inserción
	third := movement(m.ID, 5, entity.MovementSaida, t0.Add(time.Hour))
	for _, mv := range []*entity.StockMovement{first, second, third} {
		require.NoError(t, store.Movements().Create(ctx, mv))
	}

	list, err := store.Movements().List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, first.ID, list[2].ID)
	assert.Equal(t, "Madeira", list[0].MaterialName)

	saidas, err := store.Movements().List(ctx, repository.MovementFilter{Type: entity.MovementSaida, Limit: 1})
	require.NoError(t, err)
	require.Len(t, saidas, 1)
	assert.Equal(t, third.ID, saidas[0].ID)
}

func TestMovements_FechaAsignadaPorElAlmacen(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	m := newMaterial("Argamassa")
	require.NoError(t, store.Materials().Create(ctx, m))

	// Un movimiento con fecha futura no permite que los siguientes retrocedan.
	future := time.Now().Add(time.Hour)
	require.NoError(t, store.Movements().Create(ctx, movement(m.ID, 10, entity.MovementEntrada, future)))

	prev := future
	for i := 0; i < 3; i++ {
		mv := movement(m.ID, 1, entity.MovementEntrada, time.Time{})
		require.NoError(t, store.Movements().Create(ctx, mv))
		require.False(t, mv.CreatedAt.IsZero(), "la fecha se devuelve al llamador")
		assert.False(t, mv.CreatedAt.Before(prev))
		prev = mv.CreatedAt
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Mantenimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestReset_ConservaUsuarioDelSistema(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	m := newMaterial("Cal")
	require.NoError(t, store.Materials().Create(ctx, m))
	require.NoError(t, store.Movements().Create(ctx, movement(m.ID, 40, entity.MovementEntrada, time.Now())))
	_, err := store.Users().CreateIfAbsent(ctx, &entity.User{ID: uuid.New().String(), Name: "Maria", Email: "maria@buildstock.com", Role: entity.RoleOperador})
	require.NoError(t, err)

	res, err := store.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.ResetResult{Movements: 1, Materials: 1, Users: 1}, res)

	users, err := store.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, entity.SystemUserEmail, users[0].Email)
}
