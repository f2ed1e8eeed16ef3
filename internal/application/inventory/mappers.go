package inventory

import (
	"github.com/jhoicas/buildstock-api/internal/application/dto"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
)

// ToMaterialResponse mapea la entidad a su DTO de salida.
func ToMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:          m.ID,
		Name:        m.Name,
		Unit:        m.Unit,
		MinStock:    m.MinStock,
		MaxStock:    m.MaxStock,
		Price:       m.Price,
		Description: m.Description,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToMovementResponse mapea un movimiento del listado histórico.
func ToMovementResponse(v *entity.MovementView) dto.MovementResponse {
	return dto.MovementResponse{
		ID:         v.ID,
		MaterialID: v.MaterialID,
		Material:   v.MaterialName,
		Unit:       v.Unit,
		Quantity:   v.Quantity,
		Type:       string(v.Type),
		UserID:     v.UserID,
		Location:   v.Location,
		Message:    v.Message,
		CreatedAt:  v.CreatedAt,
	}
}

// ToMovementResponses mapea una página del ledger; nunca devuelve nil.
func ToMovementResponses(views []*entity.MovementView) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(views))
	for _, v := range views {
		out = append(out, ToMovementResponse(v))
	}
	return out
}
