package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest entrada para dar de alta un material.
type CreateMaterialRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Unit        string           `json:"unit" validate:"max=20"`
	MinStock    decimal.Decimal  `json:"min_stock" validate:"min=0"`
	MaxStock    *decimal.Decimal `json:"max_stock" validate:"omitempty,min=0"`
	Price       decimal.Decimal  `json:"price" validate:"min=0"`
	Description string           `json:"description" validate:"max=1000"`
}

// UpdateMaterialRequest body de PUT /api/materials/:id.
// Los campos ausentes conservan el valor actual del material.
type UpdateMaterialRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Unit        *string          `json:"unit" validate:"omitempty,max=20"`
	MinStock    *decimal.Decimal `json:"min_stock" validate:"omitempty,min=0"`
	MaxStock    *decimal.Decimal `json:"max_stock" validate:"omitempty,min=0"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,min=0"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
}

// UpdateThresholdsRequest body de PATCH /api/materials/:id/thresholds.
type UpdateThresholdsRequest struct {
	MinStock decimal.Decimal  `json:"min_stock" validate:"min=0"`
	MaxStock *decimal.Decimal `json:"max_stock" validate:"omitempty,min=0"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Unit        string           `json:"unit"`
	MinStock    decimal.Decimal  `json:"min_stock"`
	MaxStock    *decimal.Decimal `json:"max_stock"`
	Price       decimal.Decimal  `json:"price"`
	Description string           `json:"description"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// MaterialStockResponse respuesta de GET /api/materials/:id/stock.
type MaterialStockResponse struct {
	MaterialID   string          `json:"material_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}
