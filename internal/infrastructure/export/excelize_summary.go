package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/buildstock-api/internal/application/dto"
)

const (
	summarySheet = "Resumo"
	statsSheet   = "Indicadores"
)

// ExcelSummaryRenderer implementa report.SummaryRenderer con excelize.
type ExcelSummaryRenderer struct{}

// NewExcelSummaryRenderer construye el renderer XLSX.
func NewExcelSummaryRenderer() *ExcelSummaryRenderer { return &ExcelSummaryRenderer{} }

// ContentType tipo MIME del libro.
func (g *ExcelSummaryRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// RenderSummary genera un libro con dos hojas: filas del resumen e indicadores.
func (g *ExcelSummaryRenderer) RenderSummary(_ context.Context, report *dto.SummaryReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	header := []any{"Material", "Estoque", "Unidade", "Mínimo", "Máximo", "Preço", "Status", "Último movimento"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A1", "H1", bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	for i, r := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		stock, _ := r.CurrentStock.Float64()
		minStock, _ := r.MinStock.Float64()
		price, _ := r.Price.Float64()
		var maxStock any = ""
		if r.MaxStock != nil {
			maxStock, _ = r.MaxStock.Float64()
		}
		var last any = ""
		if r.LastMovementAt != nil {
			last = r.LastMovementAt.Format("2006-01-02 15:04:05")
		}
		values := []any{r.Material, stock, r.Unit, minStock, maxStock, price, r.Status, last}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "H", "H", 20); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(statsSheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja indicadores: %w", err)
	}
	totalValue, _ := report.Stats.TotalValue.Float64()
	stats := [][]any{
		{"Gerado em", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Materiais", report.Stats.TotalMaterials},
		{"Movimentos", report.Stats.TotalMovements},
		{"Entradas", report.Stats.TotalEntradas},
		{"Saídas", report.Stats.TotalSaidas},
		{"Estoque baixo", report.Stats.LowStockCount},
		{"Zerados", report.Stats.ZeroedCount},
		{"Valor total", totalValue},
		{"Rotatividade (%)", report.Stats.TurnoverRatePercent},
	}
	for i, kv := range stats {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(statsSheet, cell, &kv); err != nil {
			return nil, fmt.Errorf("xlsx: indicador %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(statsSheet, "A1", fmt.Sprintf("A%d", len(stats)), bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(statsSheet, "A", "A", 22); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
