package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialStock fila del resumen: un material activo con su stock derivado del ledger.
type MaterialStock struct {
	Material       Material
	CurrentStock   decimal.Decimal
	LastMovementAt *time.Time // nil si el material no tiene movimientos
}

// MovementCounts conteos globales del ledger.
type MovementCounts struct {
	Total    int64
	Entradas int64
	Saidas   int64
}

// FlowTotals magnitudes acumuladas de entrada y salida en una ventana de tiempo.
type FlowTotals struct {
	In  decimal.Decimal
	Out decimal.Decimal
}
