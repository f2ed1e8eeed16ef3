package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/stock.
// Quantity es la magnitud; el signo lo decide Type (entrada por defecto).
type RegisterMovementRequest struct {
	Material string           `json:"material" validate:"required,max=200"`
	Quantity *decimal.Decimal `json:"quantity" validate:"required,min=0"`
	Type     string           `json:"type,omitempty" validate:"max=20"`
	Unit     string           `json:"unit,omitempty" validate:"max=20"`
	Price    *decimal.Decimal `json:"price,omitempty" validate:"omitempty,min=0"`
	UserID   string           `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Location string           `json:"location,omitempty" validate:"max=200"`
	Message  string           `json:"message,omitempty" validate:"max=1000"`
}

// RegisterMovementResponse respuesta 201 de POST /api/stock.
type RegisterMovementResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// MovementFilterQuery query string de GET /api/records.
type MovementFilterQuery struct {
	Limit      int    `query:"limit" validate:"omitempty,min=0"`
	MaterialID string `query:"material_id" validate:"omitempty,uuid"`
	Type       string `query:"type" validate:"omitempty,oneof=entrada saida"`
}

// MovementResponse movimiento del ledger con datos del material.
type MovementResponse struct {
	ID         string          `json:"id"`
	MaterialID string          `json:"material_id"`
	Material   string          `json:"material"`
	Unit       string          `json:"unit"`
	Quantity   decimal.Decimal `json:"quantity"` // con signo
	Type       string          `json:"type"`
	UserID     *string         `json:"user_id,omitempty"`
	Location   string          `json:"location,omitempty"`
	Message    string          `json:"message,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ReplenishmentSuggestionDTO sugerencia de compra para un material en estado baixo.
type ReplenishmentSuggestionDTO struct {
	MaterialID         string          `json:"material_id"`
	MaterialName       string          `json:"material"`
	Unit               string          `json:"unit"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinStock           decimal.Decimal `json:"min_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`         // max_stock o min_stock * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"` // IdealStock - CurrentStock, nunca negativo
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitPrice
	Priority           int             `json:"priority"`             // 1 = más urgente
}
