package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// DefaultUnit unidad usada cuando el llamador no informa ninguna.
const DefaultUnit = "un"

// Material representa un insumo del inventario.
// El stock no se guarda aquí: se deriva sumando los movimientos del ledger.
type Material struct {
	ID          string
	Name        string
	NameKey     string // clave de identidad sin mayúsculas (ver NameKey)
	Unit        string
	MinStock    decimal.Decimal  // umbral de stock bajo, >= 0
	MaxStock    *decimal.Decimal // nil = sin tope; solo afecta la clasificación
	Price       decimal.Decimal  // último precio conocido, >= 0
	Description string
	Active      bool // false = baja lógica
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var folder = cases.Fold()

// NameKey normaliza un nombre para comparaciones sin distinguir mayúsculas:
// recorta espacios y aplica case folding Unicode ("Cimento", "CIMENTO" y " cimento " comparten clave).
func NameKey(name string) string {
	return folder.String(strings.TrimSpace(name))
}

// SetName actualiza el nombre visible y su clave de identidad.
func (m *Material) SetName(name string) {
	m.Name = strings.TrimSpace(name)
	m.NameKey = NameKey(name)
}
