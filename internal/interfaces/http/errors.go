package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/buildstock-api/internal/application/dto"
	"github.com/jhoicas/buildstock-api/internal/domain"
)

// writeError traduce errores de dominio a la respuesta HTTP. Los errores no reconocidos son 500.
func writeError(c *fiber.Ctx, err error) error {
	var (
		verr  *domain.ValidationError
		stock *domain.InsufficientStockError
		dup   *domain.DuplicateNameError
		nf    *domain.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		resp := dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error()}
		if verr.Field != "" {
			resp.Details = map[string]any{"field": verr.Field, "reason": verr.Reason}
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case errors.As(err, &stock):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente",
			Details: map[string]any{
				"material_id": stock.MaterialID,
				"requested":   stock.Requested,
				"available":   stock.Available,
			},
		})
	case errors.As(err, &dup):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "DUPLICATE",
			Message: "ya existe un material con ese nombre",
			Details: map[string]any{"name": dup.Name},
		})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: nf.Entity + " no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	case errors.Is(err, domain.ErrConflict):
		c.Set("Retry-After", "1")
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "TRANSACTION_CONFLICT",
			Message: "conflicto con otra operación concurrente; reintente",
		})
	default:
		c.Locals(localsErrKey, err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

// notFoundID responde 404 para ids de ruta que no son UUID (nunca pueden existir).
func notFoundID(c *fiber.Ctx, entity string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: entity + " no encontrado"})
}
