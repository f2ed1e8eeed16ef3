package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/jhoicas/buildstock-api/internal/application/dto"
	"github.com/jhoicas/buildstock-api/internal/application/inventory"
	"github.com/jhoicas/buildstock-api/internal/domain"
)

// MaterialHandler CRUD del catálogo de materiales y consultas por material.
type MaterialHandler struct {
	registry      *inventory.MaterialRegistry
	ledger        *inventory.RegisterMovementUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(
	registry *inventory.MaterialRegistry,
	ledger *inventory.RegisterMovementUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *MaterialHandler {
	return &MaterialHandler{registry: registry, ledger: ledger, replenishment: replenishment}
}

// List godoc
// @Summary      Listar materiales
// @Tags         materials
// @Produce      json
// @Param        include_inactive  query     bool  false  "Incluir materiales dados de baja"
// @Success      200               {array}   dto.MaterialResponse
// @Failure      400               {object}  dto.ErrorResponse
// @Router       /api/materials [get]
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	includeInactive := false
	if raw := c.Query("include_inactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return writeError(c, domain.NewValidationError("include_inactive", "debe ser true o false"))
		}
		includeInactive = v
	}
	list, err := h.registry.List(c.Context(), includeInactive)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, inventory.ToMaterialResponse(m))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear material
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateMaterialRequest  true  "name, unit, min_stock, max_stock, price, description"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	m, err := h.registry.Create(c.Context(), inventory.MaterialInput{
		Name:        in.Name,
		Unit:        in.Unit,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		Price:       in.Price,
		Description: in.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMaterialResponse(m))
}

// GetByID godoc
// @Summary      Obtener material
// @Description  Incluye materiales dados de baja (consultas históricas).
// @Tags         materials
// @Produce      json
// @Param        id   path      string  true  "ID del material (UUID)"
// @Success      200  {object}  dto.MaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [get]
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	id, ok := materialID(c)
	if !ok {
		return notFoundID(c, "material")
	}
	m, err := h.registry.Get(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToMaterialResponse(m))
}

// GetStock godoc
// @Summary      Stock actual del material
// @Tags         materials
// @Produce      json
// @Param        id   path      string  true  "ID del material (UUID)"
// @Success      200  {object}  dto.MaterialStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/stock [get]
func (h *MaterialHandler) GetStock(c *fiber.Ctx) error {
	id, ok := materialID(c)
	if !ok {
		return notFoundID(c, "material")
	}
	stock, err := h.ledger.CurrentStock(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MaterialStockResponse{MaterialID: id, CurrentStock: stock})
}

// Update godoc
// @Summary      Actualizar material
// @Description  Los campos ausentes conservan su valor. Un body con solo min_stock/max_stock
//
//	actualiza únicamente los umbrales.
//
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "ID del material (UUID)"
// @Param        body  body      dto.UpdateMaterialRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [put]
func (h *MaterialHandler) Update(c *fiber.Ctx) error {
	id, ok := materialID(c)
	if !ok {
		return notFoundID(c, "material")
	}
	var in dto.UpdateMaterialRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	m, err := h.registry.Patch(c.Context(), id, inventory.MaterialPatch{
		Name:        in.Name,
		Unit:        in.Unit,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		Price:       in.Price,
		Description: in.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToMaterialResponse(m))
}

// UpdateThresholds godoc
// @Summary      Actualizar umbrales
// @Description  max_stock ausente o null elimina el máximo.
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "ID del material (UUID)"
// @Param        body  body      dto.UpdateThresholdsRequest  true  "min_stock, max_stock"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/thresholds [patch]
func (h *MaterialHandler) UpdateThresholds(c *fiber.Ctx) error {
	id, ok := materialID(c)
	if !ok {
		return notFoundID(c, "material")
	}
	var in dto.UpdateThresholdsRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.registry.UpdateThresholds(c.Context(), id, in.MinStock, in.MaxStock); err != nil {
		return writeError(c, err)
	}
	return h.respondMaterial(c, id)
}

// Delete godoc
// @Summary      Eliminar material
// @Description  Con movimientos se da de baja (sigue visible en el histórico); sin movimientos se borra.
// @Tags         materials
// @Param        id   path  string  true  "ID del material (UUID)"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [delete]
func (h *MaterialHandler) Delete(c *fiber.Ctx) error {
	id, ok := materialID(c)
	if !ok {
		return notFoundID(c, "material")
	}
	if err := h.registry.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Materiales en estado baixo con la cantidad sugerida para volver al stock ideal,
//
//	ordenados por urgencia (zerados primero).
//
// @Tags         materials
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/materials/replenishment [get]
func (h *MaterialHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

func (h *MaterialHandler) respondMaterial(c *fiber.Ctx, id string) error {
	m, err := h.registry.Get(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToMaterialResponse(m))
}

// materialID copia el parámetro de ruta: fiber lo devuelve apuntando a un buffer que reutiliza
// entre peticiones, y el id puede terminar guardado más allá de la petición.
func materialID(c *fiber.Ctx) (string, bool) {
	id := utils.CopyString(c.Params("id"))
	return id, uuid.Validate(id) == nil
}
