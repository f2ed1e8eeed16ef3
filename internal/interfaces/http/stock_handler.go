package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/buildstock-api/internal/application/dto"
	"github.com/jhoicas/buildstock-api/internal/application/inventory"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

// StockHandler maneja el registro y la consulta de movimientos del ledger.
type StockHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.RegisterMovementUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Resuelve o crea el material por nombre (sin distinguir mayúsculas) y agrega
//
//	el movimiento con signo. type vacío equivale a entrada.
//
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterMovementRequest  true  "material, quantity, type (entrada|saida), unit, price"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	mov, err := h.uc.RegisterMovementFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterMovementResponse{OK: true, ID: mov.ID})
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Description  Movimientos más recientes primero, con nombre y unidad del material.
// @Tags         stock
// @Produce      json
// @Param        limit        query     int     false  "Máximo de filas (por defecto 1000, tope 5000)"
// @Param        material_id  query     string  false  "Filtrar por material (UUID)"
// @Param        type         query     string  false  "entrada | saida"
// @Success      200          {array}   dto.MovementResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/records [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementFilterQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	views, err := h.uc.ListMovements(c.Context(), repository.MovementFilter{
		Limit:      q.Limit,
		MaterialID: q.MaterialID,
		Type:       entity.MovementType(q.Type),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToMovementResponses(views))
}
