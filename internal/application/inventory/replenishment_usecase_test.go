package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/buildstock-api/internal/application/inventory"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/infrastructure/memstore"
)

func seedMaterial(t *testing.T, store *memstore.Store, name, minStock, price string, maxStock *decimal.Decimal, stock string) {
	t.Helper()
	ctx := context.Background()
	m := &entity.Material{
		ID:        uuid.New().String(),
		Unit:      "un",
		MinStock:  dec(minStock),
		MaxStock:  maxStock,
		Price:     dec(price),
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.SetName(name)
	require.NoError(t, store.Materials().Create(ctx, m))
	if q := dec(stock); q.IsPositive() {
		require.NoError(t, store.Movements().Create(ctx, &entity.StockMovement{
			ID:         uuid.New().String(),
			MaterialID: m.ID,
			Quantity:   q,
			Type:       entity.MovementEntrada,
			CreatedAt:  time.Now(),
		}))
	}
}

func TestGenerateReplenishmentList(t *testing.T) {
	store := memstore.New()
	maxAreia := dec("50")
	maxCimento := dec("100")
	seedMaterial(t, store, "Tijolo", "2000", "0.80", nil, "1500")       // cobertura 0.75
	seedMaterial(t, store, "Areia", "10", "80.00", &maxAreia, "5")      // cobertura 0.5
	seedMaterial(t, store, "Brita", "10", "90.00", nil, "0")            // zerado
	seedMaterial(t, store, "Cimento", "20", "35.00", &maxCimento, "60") // normal, fuera de la lista

	uc := inventory.NewReplenishmentUseCase(store)
	list, err := uc.GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	brita, areia, tijolo := list[0], list[1], list[2]

	assert.Equal(t, "Brita", brita.MaterialName, "los zerados van primero")
	assert.Equal(t, 1, brita.Priority)
	assert.True(t, brita.IdealStock.Equal(dec("15")), "sin máximo: min * 1.5")
	assert.True(t, brita.SuggestedOrderQty.Equal(dec("15")))
	assert.True(t, brita.EstimatedOrderCost.Equal(dec("1350")))

	assert.Equal(t, "Areia", areia.MaterialName)
	assert.Equal(t, 2, areia.Priority)
	assert.True(t, areia.IdealStock.Equal(dec("50")), "con máximo: max_stock")
	assert.True(t, areia.SuggestedOrderQty.Equal(dec("45")))
	assert.True(t, areia.EstimatedOrderCost.Equal(dec("3600")))

	assert.Equal(t, "Tijolo", tijolo.MaterialName)
	assert.Equal(t, 3, tijolo.Priority)
	assert.True(t, tijolo.SuggestedOrderQty.Equal(dec("1500")))
	assert.True(t, tijolo.EstimatedOrderCost.Equal(dec("1200")))
}

func TestGenerateReplenishmentList_SinFaltantes(t *testing.T) {
	store := memstore.New()
	seedMaterial(t, store, "Cimento", "20", "35.00", nil, "60")

	list, err := inventory.NewReplenishmentUseCase(store).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
