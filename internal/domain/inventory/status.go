package inventory

import "github.com/shopspring/decimal"

// Status clasificación del stock actual frente a los umbrales del material.
type Status string

const (
	StatusBaixo  Status = "baixo"
	StatusNormal Status = "normal"
	StatusAlto   Status = "alto"
)

// Classify devuelve el estado del stock. baixo se evalúa antes que alto, de modo que
// un material con min = max = 0 y stock 0 queda en baixo.
func Classify(current, minStock decimal.Decimal, maxStock *decimal.Decimal) Status {
	if current.LessThanOrEqual(minStock) {
		return StatusBaixo
	}
	if maxStock != nil && current.GreaterThanOrEqual(*maxStock) {
		return StatusAlto
	}
	return StatusNormal
}
