package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/inventory"
)

func row(name, stock, minStock, price string) entity.MaterialStock {
	return entity.MaterialStock{
		Material:     entity.Material{Name: name, MinStock: d(minStock), Price: d(price)},
		CurrentStock: d(stock),
	}
}

func TestFoldStock(t *testing.T) {
	rows := []entity.MaterialStock{
		row("Cimento", "50", "20", "35.00"), // normal
		row("Areia", "5", "10", "80.00"),    // bajo
		row("Brita", "0", "10", "90.00"),    // zerado, no bajo
		row("Cal", "15", "15", "18.00"),     // bajo (igual al mínimo)
	}

	f := inventory.FoldStock(rows)

	assert.Equal(t, 4, f.TotalMaterials)
	assert.Equal(t, 2, f.LowStockCount)
	assert.Equal(t, 1, f.ZeroedCount)
	assert.True(t, d("2420").Equal(f.TotalValue), "got %s", f.TotalValue)
}

func TestFoldStock_Vacio(t *testing.T) {
	f := inventory.FoldStock(nil)
	assert.Zero(t, f.TotalMaterials)
	assert.True(t, f.TotalValue.IsZero())
}

func TestTurnoverRate(t *testing.T) {
	cases := []struct {
		name    string
		in, out string
		want    int64
	}{
		{"sin entradas", "0", "40", 0},
		{"mitad", "100", "50", 50},
		{"redondeo hacia arriba", "3", "2", 67},
		{"redondeo hacia abajo", "3", "1", 33},
		{"puede superar 100", "10", "25", 250},
		{"sin salidas", "10", "0", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.TurnoverRate(entity.FlowTotals{In: d(tc.in), Out: d(tc.out)})
			assert.Equal(t, tc.want, got)
		})
	}
}
