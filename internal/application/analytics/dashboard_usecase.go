// Package analytics deriva las vistas de lectura del inventario (resumen, estadísticas
// y datos del dashboard) plegando el ledger de movimientos. Nada se guarda: todo se
// recalcula en cada consulta.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/application/dto"
	"github.com/jhoicas/buildstock-api/internal/application/inventory"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/buildstock-api/internal/domain/inventory"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

const (
	dashboardLatest           = 20 // movimientos recientes en el widget
	DefaultTurnoverWindowDays = 30
)

// DashboardUseCase motor de agregación: resumen por material, estadísticas y dashboard.
//
// Fuente de datos: AnalyticsRepository y StockMovementRepository (solo lectura).
// No toma locks entre materiales; una fila puede reflejar una escritura recién confirmada y otra no.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	movRepo       repository.StockMovementRepository
	window        time.Duration
	log           zerolog.Logger
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso. windowDays <= 0 usa la ventana de 30 días.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	movRepo repository.StockMovementRepository,
	windowDays int,
	log zerolog.Logger,
) *DashboardUseCase {
	if windowDays <= 0 {
		windowDays = DefaultTurnoverWindowDays
	}
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		movRepo:       movRepo,
		window:        time.Duration(windowDays) * 24 * time.Hour,
		log:           log.With().Str("component", "aggregation").Logger(),
		now:           time.Now,
	}
}

// GetSummary una fila por material activo con stock, umbrales y estado. Ordenado por nombre.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) ([]dto.SummaryRowDTO, error) {
	rows, err := uc.analyticsRepo.StockSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("resumen: %w", err)
	}
	return toSummaryRows(rows), nil
}

func toSummaryRows(rows []entity.MaterialStock) []dto.SummaryRowDTO {
	out := make([]dto.SummaryRowDTO, 0, len(rows))
	for _, r := range rows {
		m := r.Material
		out = append(out, dto.SummaryRowDTO{
			MaterialID:     m.ID,
			Material:       m.Name,
			CurrentStock:   r.CurrentStock,
			Unit:           m.Unit,
			MinStock:       m.MinStock,
			MaxStock:       m.MaxStock,
			Price:          m.Price,
			Description:    m.Description,
			LastMovementAt: r.LastMovementAt,
			Status:         string(domaininv.Classify(r.CurrentStock, m.MinStock, m.MaxStock)),
		})
	}
	return out
}

// GetStats estadísticas globales del dashboard.
//
// Tres consultas en paralelo:
//  1. StockSummary       → materiales, bajos, zerados, valor total
//  2. MovementCounts     → total, entradas, salidas (todo el ledger)
//  3. FlowSince(ventana) → tasa de rotación
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	summaryCh, countsCh, flowCh := uc.startStatsQueries(ctx)

	summary := <-summaryCh
	counts := <-countsCh
	flow := <-flowCh

	if summary.err != nil {
		return nil, fmt.Errorf("estadísticas: resumen: %w", summary.err)
	}
	if counts.err != nil {
		return nil, fmt.Errorf("estadísticas: conteos: %w", counts.err)
	}
	if flow.err != nil {
		return nil, fmt.Errorf("estadísticas: flujo: %w", flow.err)
	}
	stats := buildStats(summary.rows, counts.counts, flow.flow)
	return &stats, nil
}

// GetDashboardData etiquetas y valores para el gráfico, últimos movimientos y estadísticas.
func (uc *DashboardUseCase) GetDashboardData(ctx context.Context) (*dto.DashboardDataDTO, error) {
	type latestResult struct {
		views []*entity.MovementView
		err   error
	}
	summaryCh, countsCh, flowCh := uc.startStatsQueries(ctx)
	latestCh := make(chan latestResult, 1)
	go func() {
		views, err := uc.movRepo.List(ctx, repository.MovementFilter{Limit: dashboardLatest})
		latestCh <- latestResult{views, err}
	}()

	summary := <-summaryCh
	counts := <-countsCh
	flow := <-flowCh
	latest := <-latestCh

	for _, err := range []error{summary.err, counts.err, flow.err, latest.err} {
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
	}

	data := &dto.DashboardDataDTO{
		Labels: make([]string, 0, len(summary.rows)),
		Values: make([]decimal.Decimal, 0, len(summary.rows)),
		Latest: inventory.ToMovementResponses(latest.views),
		Stats:  buildStats(summary.rows, counts.counts, flow.flow),
	}
	for _, r := range summary.rows {
		data.Labels = append(data.Labels, r.Material.Name)
		data.Values = append(data.Values, r.CurrentStock)
	}
	return data, nil
}

type summaryResult struct {
	rows []entity.MaterialStock
	err  error
}

type countsResult struct {
	counts entity.MovementCounts
	err    error
}

type flowResult struct {
	flow entity.FlowTotals
	err  error
}

// startStatsQueries lanza las consultas de estadísticas; cada canal recibe exactamente un valor.
func (uc *DashboardUseCase) startStatsQueries(ctx context.Context) (<-chan summaryResult, <-chan countsResult, <-chan flowResult) {
	since := uc.now().Add(-uc.window)

	summaryCh := make(chan summaryResult, 1)
	countsCh := make(chan countsResult, 1)
	flowCh := make(chan flowResult, 1)

	go func() {
		rows, err := uc.analyticsRepo.StockSummary(ctx)
		summaryCh <- summaryResult{rows, err}
	}()
	go func() {
		counts, err := uc.analyticsRepo.MovementCounts(ctx)
		countsCh <- countsResult{counts, err}
	}()
	go func() {
		flow, err := uc.analyticsRepo.FlowSince(ctx, since)
		flowCh <- flowResult{flow, err}
	}()

	uc.log.Debug().Time("turnover_since", since).Msg("consultas de estadísticas lanzadas")
	return summaryCh, countsCh, flowCh
}

func buildStats(rows []entity.MaterialStock, counts entity.MovementCounts, flow entity.FlowTotals) dto.DashboardStatsDTO {
	figures := domaininv.FoldStock(rows)
	return dto.DashboardStatsDTO{
		TotalMaterials:      figures.TotalMaterials,
		TotalMovements:      counts.Total,
		TotalEntradas:       counts.Entradas,
		TotalSaidas:         counts.Saidas,
		LowStockCount:       figures.LowStockCount,
		ZeroedCount:         figures.ZeroedCount,
		TotalValue:          figures.TotalValue.Round(2),
		TurnoverRatePercent: domaininv.TurnoverRate(flow),
	}
}
