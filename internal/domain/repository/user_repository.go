package repository

import (
	"context"

	"github.com/jhoicas/buildstock-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// CreateIfAbsent inserta el usuario salvo que el email ya exista; devuelve si lo creó.
	CreateIfAbsent(ctx context.Context, user *entity.User) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}

// ResetResult filas eliminadas por MaintenanceRepository.Reset.
type ResetResult struct {
	Movements int64
	Materials int64
	Users     int64
}

// MaintenanceRepository operaciones administrativas sobre el almacén (CLI).
type MaintenanceRepository interface {
	CountMaterials(ctx context.Context) (int64, error)
	// Reset borra movimientos, materiales y usuarios salvo el del sistema, en una transacción.
	Reset(ctx context.Context) (ResetResult, error)
}
