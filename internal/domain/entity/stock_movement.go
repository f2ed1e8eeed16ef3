package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del ledger; es la única fuente del signo de la cantidad.
type MovementType string

// Tipos de movimiento.
const (
	MovementEntrada MovementType = "entrada" // aumenta stock
	MovementSaida   MovementType = "saida"   // disminuye stock
)

// Valid indica si el tipo es uno de los soportados.
func (t MovementType) Valid() bool {
	return t == MovementEntrada || t == MovementSaida
}

// Signed aplica el signo del tipo a una magnitud: +|m| para entrada, -|m| para salida.
func (t MovementType) Signed(magnitude decimal.Decimal) decimal.Decimal {
	if t == MovementSaida {
		return magnitude.Abs().Neg()
	}
	return magnitude.Abs()
}

// StockMovement movimiento del ledger. Es un hecho histórico: nunca se actualiza ni se borra.
type StockMovement struct {
	ID         string
	MaterialID string
	UserID     *string         // nil = actor del sistema
	Quantity   decimal.Decimal // con signo: positivo entrada, negativo salida
	Type       MovementType
	Location   string
	Message    string
	CreatedAt  time.Time
}

// Magnitude devuelve la cantidad sin signo.
func (m *StockMovement) Magnitude() decimal.Decimal {
	return m.Quantity.Abs()
}

// MovementView movimiento enriquecido con los datos del material para listados históricos.
type MovementView struct {
	StockMovement
	MaterialName string
	Unit         string
}
