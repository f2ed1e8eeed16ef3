package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// StockFigures agregados derivados de las filas del resumen (solo materiales activos).
type StockFigures struct {
	TotalMaterials int
	LowStockCount  int             // 0 < stock <= min_stock
	ZeroedCount    int             // stock <= 0
	TotalValue     decimal.Decimal // Σ stock * price
}

// FoldStock recorre el resumen y calcula los agregados de stock.
// Un material en cero cuenta como zerado, nunca como bajo.
func FoldStock(rows []entity.MaterialStock) StockFigures {
	f := StockFigures{TotalValue: decimal.Zero}
	for _, r := range rows {
		f.TotalMaterials++
		switch {
		case r.CurrentStock.LessThanOrEqual(decimal.Zero):
			f.ZeroedCount++
		case r.CurrentStock.LessThanOrEqual(r.Material.MinStock):
			f.LowStockCount++
		}
		f.TotalValue = f.TotalValue.Add(r.CurrentStock.Mul(r.Material.Price))
	}
	return f
}

// TurnoverRate razón de flujo salida/entrada en porcentaje, redondeada al entero más cercano.
// Devuelve 0 si no hubo entradas. Puede superar 100.
func TurnoverRate(flow entity.FlowTotals) int64 {
	if flow.In.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return flow.Out.Div(flow.In).Mul(hundred).Round(0).IntPart()
}
