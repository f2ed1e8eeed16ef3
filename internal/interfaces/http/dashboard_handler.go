package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/buildstock-api/internal/application/analytics"
	"github.com/jhoicas/buildstock-api/internal/application/report"
)

// DashboardHandler vistas derivadas del ledger: resumen, estadísticas, dashboard y exportación.
type DashboardHandler struct {
	uc     *analytics.DashboardUseCase
	export *report.ExportUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase, export *report.ExportUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, export: export}
}

// GetSummary godoc
// @Summary      Resumen de stock por material
// @Description  Una fila por material activo (incluidos los que no tienen movimientos) con
//
//	stock actual, umbrales y estado (baixo | normal | alto).
//
// @Tags         dashboard
// @Produce      json
// @Success      200  {array}   dto.SummaryRowDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	rows, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// GetStats godoc
// @Summary      Estadísticas del dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}

// GetDashboardData godoc
// @Summary      Datos del dashboard
// @Description  Etiquetas y valores para el gráfico de stock, últimos 20 movimientos y estadísticas.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardDataDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard-data [get]
func (h *DashboardHandler) GetDashboardData(c *fiber.Ctx) error {
	data, err := h.uc.GetDashboardData(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(data)
}

// ExportSummary godoc
// @Summary      Exportar resumen
// @Tags         dashboard
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query     string  false  "pdf (por defecto) | xlsx"
// @Success      200     {file}    file
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/summary/export [get]
func (h *DashboardHandler) ExportSummary(c *fiber.Ctx) error {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		return writeError(c, err)
	}
	file, err := h.export.ExportSummary(c.Context(), format)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(file.Filename)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Data)
}
