package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryRowDTO fila de GET /api/summary: un material activo con su stock derivado.
type SummaryRowDTO struct {
	MaterialID     string           `json:"material_id"`
	Material       string           `json:"material"`
	CurrentStock   decimal.Decimal  `json:"current_stock"`
	Unit           string           `json:"unit"`
	MinStock       decimal.Decimal  `json:"min_stock"`
	MaxStock       *decimal.Decimal `json:"max_stock"`
	Price          decimal.Decimal  `json:"price"`
	Description    string           `json:"description"`
	LastMovementAt *time.Time       `json:"last_movement_at"`
	Status         string           `json:"status"` // baixo | normal | alto
}

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalMaterials      int             `json:"total_materials"`
	TotalMovements      int64           `json:"total_movements"`
	TotalEntradas       int64           `json:"total_entradas"`
	TotalSaidas         int64           `json:"total_saidas"`
	LowStockCount       int             `json:"low_stock_count"`
	ZeroedCount         int             `json:"zeroed_count"`
	TotalValue          decimal.Decimal `json:"total_value"`
	TurnoverRatePercent int64           `json:"turnover_rate_percent"`
}

// DashboardDataDTO respuesta de GET /api/dashboard-data (gráfico + últimos movimientos).
type DashboardDataDTO struct {
	Labels []string           `json:"labels"`
	Values []decimal.Decimal  `json:"values"`
	Latest []MovementResponse `json:"latest"`
	Stats  DashboardStatsDTO  `json:"stats"`
}

// SummaryReport datos de entrada para la exportación del resumen (PDF/XLSX).
type SummaryReport struct {
	Title       string
	GeneratedAt time.Time
	Rows        []SummaryRowDTO
	Stats       DashboardStatsDTO
}
