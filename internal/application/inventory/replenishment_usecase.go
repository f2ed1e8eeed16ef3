package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/application/dto"
	domaininv "github.com/jhoicas/buildstock-api/internal/domain/inventory"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

var idealFactor = decimal.NewFromFloat(1.5)

// ReplenishmentUseCase genera la lista de reposición: materiales activos en estado baixo
// con la cantidad sugerida para volver al stock ideal.
type ReplenishmentUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(analyticsRepo repository.AnalyticsRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{analyticsRepo: analyticsRepo}
}

// GenerateReplenishmentList devuelve los materiales en baixo ordenados por urgencia.
// Stock ideal = max_stock si está definido; si no, min_stock * 1.5.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	rows, err := uc.analyticsRepo.StockSummary(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, r := range rows {
		m := r.Material
		if domaininv.Classify(r.CurrentStock, m.MinStock, m.MaxStock) != domaininv.StatusBaixo {
			continue
		}
		ideal := m.MinStock.Mul(idealFactor)
		if m.MaxStock != nil {
			ideal = *m.MaxStock
		}
		suggested := ideal.Sub(r.CurrentStock)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			MaterialID:         m.ID,
			MaterialName:       m.Name,
			Unit:               m.Unit,
			CurrentStock:       r.CurrentStock,
			MinStock:           m.MinStock,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitPrice:          m.Price,
			EstimatedOrderCost: suggested.Mul(m.Price).Round(2),
		})
	}

	// Primero los zerados, luego el mayor déficit relativo al mínimo, luego por nombre.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		za, zb := !a.CurrentStock.IsPositive(), !b.CurrentStock.IsPositive()
		if za != zb {
			return za
		}
		ra, rb := coverage(a), coverage(b)
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.MaterialName < b.MaterialName
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// coverage fracción del mínimo cubierta por el stock actual.
func coverage(s dto.ReplenishmentSuggestionDTO) decimal.Decimal {
	if !s.MinStock.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return s.CurrentStock.Div(s.MinStock)
}
