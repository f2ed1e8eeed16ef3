// Package report exporta el resumen de inventario en formatos descargables.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/buildstock-api/internal/application/dto"
	"github.com/jhoicas/buildstock-api/internal/domain"
)

// Format formato de exportación soportado.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// SummaryRenderer convierte el resumen en un documento binario.
type SummaryRenderer interface {
	RenderSummary(ctx context.Context, report *dto.SummaryReport) ([]byte, error)
	ContentType() string
}

// SummarySource provee las filas y estadísticas a exportar.
type SummarySource interface {
	GetSummary(ctx context.Context) ([]dto.SummaryRowDTO, error)
	GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
}

// File documento generado listo para descargar.
type File struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ExportUseCase genera el resumen en el formato pedido.
type ExportUseCase struct {
	source    SummarySource
	renderers map[Format]SummaryRenderer
	title     string
	now       func() time.Time
}

// NewExportUseCase construye el caso de uso con los renderers disponibles.
func NewExportUseCase(source SummarySource, title string, renderers map[Format]SummaryRenderer) *ExportUseCase {
	return &ExportUseCase{
		source:    source,
		renderers: renderers,
		title:     title,
		now:       time.Now,
	}
}

// ParseFormat normaliza el formato; vacío equivale a pdf.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatXLSX:
		return f, nil
	default:
		return "", domain.NewValidationError("format", "debe ser pdf o xlsx")
	}
}

// ExportSummary genera el documento con el resumen actual y las estadísticas.
func (uc *ExportUseCase) ExportSummary(ctx context.Context, format Format) (*File, error) {
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, domain.NewValidationError("format", fmt.Sprintf("formato %q no disponible", format))
	}

	rows, err := uc.source.GetSummary(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := uc.source.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	data, err := renderer.RenderSummary(ctx, &dto.SummaryReport{
		Title:       uc.title,
		GeneratedAt: now,
		Rows:        rows,
		Stats:       *stats,
	})
	if err != nil {
		return nil, fmt.Errorf("exportar resumen: %w", err)
	}
	return &File{
		Data:        data,
		Filename:    fmt.Sprintf("resumen-estoque-%s.%s", now.Format("20060102-1504"), format),
		ContentType: renderer.ContentType(),
	}, nil
}
