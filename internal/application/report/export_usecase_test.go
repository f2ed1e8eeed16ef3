package report_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/buildstock-api/internal/application/dto"
	"github.com/jhoicas/buildstock-api/internal/application/report"
	"github.com/jhoicas/buildstock-api/internal/domain"
)

type stubSource struct {
	rows []dto.SummaryRowDTO
	err  error
}

func (s *stubSource) GetSummary(context.Context) ([]dto.SummaryRowDTO, error) { return s.rows, s.err }

func (s *stubSource) GetStats(context.Context) (*dto.DashboardStatsDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DashboardStatsDTO{TotalMaterials: len(s.rows)}, nil
}

type recordingRenderer struct {
	got *dto.SummaryReport
}

func (r *recordingRenderer) RenderSummary(_ context.Context, rep *dto.SummaryReport) ([]byte, error) {
	r.got = rep
	return []byte("doc"), nil
}

func (r *recordingRenderer) ContentType() string { return "application/test" }

func TestParseFormat(t *testing.T) {
	f, err := report.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, report.FormatPDF, f)

	f, err = report.ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, report.FormatXLSX, f)

	_, err = report.ParseFormat("csv")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportSummary(t *testing.T) {
	source := &stubSource{rows: []dto.SummaryRowDTO{{Material: "Cimento"}, {Material: "Areia"}}}
	renderer := &recordingRenderer{}
	uc := report.NewExportUseCase(source, "Resumo", map[report.Format]report.SummaryRenderer{
		report.FormatXLSX: renderer,
	})

	file, err := uc.ExportSummary(context.Background(), report.FormatXLSX)
	require.NoError(t, err)

	assert.Equal(t, []byte("doc"), file.Data)
	assert.Equal(t, "application/test", file.ContentType)
	assert.Regexp(t, regexp.MustCompile(`^resumen-estoque-\d{8}-\d{4}\.xlsx$`), file.Filename)
	require.NotNil(t, renderer.got)
	assert.Equal(t, "Resumo", renderer.got.Title)
	assert.Len(t, renderer.got.Rows, 2)
	assert.Equal(t, 2, renderer.got.Stats.TotalMaterials)
}

func TestExportSummary_FormatoSinRenderer(t *testing.T) {
	uc := report.NewExportUseCase(&stubSource{}, "Resumo", map[report.Format]report.SummaryRenderer{})

	_, err := uc.ExportSummary(context.Background(), report.FormatPDF)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportSummary_ErrorDeFuente(t *testing.T) {
	boom := errors.New("db caída")
	uc := report.NewExportUseCase(&stubSource{err: boom}, "Resumo", map[report.Format]report.SummaryRenderer{
		report.FormatPDF: &recordingRenderer{},
	})

	_, err := uc.ExportSummary(context.Background(), report.FormatPDF)
	assert.ErrorIs(t, err, boom)
}
