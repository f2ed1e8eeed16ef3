// Package export implementa los renderers del resumen de inventario.
//
// Layout PDF (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                    │  Fecha de generación   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: materiales / bajos / zerados / valor / rotación      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Material | Stock | Un | Mín | Máx | Precio | Estado │
//	└─────────────────────────────────────────────────────────────┘
package export

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLow     = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorHigh    = &props.Color{Red: 200, Green: 120, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSummaryRenderer implementa report.SummaryRenderer usando Maroto v2.
type MarotoSummaryRenderer struct{}

// NewMarotoSummaryRenderer construye el renderer PDF.
func NewMarotoSummaryRenderer() *MarotoSummaryRenderer { return &MarotoSummaryRenderer{} }

// ContentType tipo MIME del documento.
func (g *MarotoSummaryRenderer) ContentType() string { return "application/pdf" }

// RenderSummary genera el PDF y devuelve sus bytes.
func (g *MarotoSummaryRenderer) RenderSummary(_ context.Context, report *dto.SummaryReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(statsRow(report.Stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(report.Rows)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.SummaryReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Resumo de estoque", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Gerado em", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func statsRow(s dto.DashboardStatsDTO) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center}),
		)
	}
	return row.New(14).Add(
		kpi("Materiais", fmt.Sprint(s.TotalMaterials)),
		kpi("Movimentos", fmt.Sprint(s.TotalMovements)),
		kpi("Estoque baixo", fmt.Sprint(s.LowStockCount)),
		kpi("Zerados", fmt.Sprint(s.ZeroedCount)),
		kpi("Valor total", "R$ "+formatAmount(s.TotalValue)),
		kpi("Rotatividade", fmt.Sprintf("%d%%", s.TurnoverRatePercent)),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Material", 4, align.Left),
		h("Estoque", 2, align.Right),
		h("Un.", 1, align.Center),
		h("Mín.", 1, align.Right),
		h("Máx.", 1, align.Right),
		h("Preço", 2, align.Right),
		h("Status", 1, align.Center),
	)
}

// tableRows una fila por material activo.
func tableRows(rows []dto.SummaryRowDTO) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		maxStock := "—"
		if r.MaxStock != nil {
			maxStock = r.MaxStock.String()
		}
		statusProps := props.Text{Size: 8, Align: align.Center, Top: 1, Style: fontstyle.Bold}
		switch r.Status {
		case "baixo":
			statusProps.Color = colorLow
		case "alto":
			statusProps.Color = colorHigh
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(r.Material, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(r.CurrentStock.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(r.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(r.MinStock.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(maxStock, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("R$ "+formatAmount(r.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(strings.ToUpper(r.Status), statusProps)),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatAmount dos decimales con puntos de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50"
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
