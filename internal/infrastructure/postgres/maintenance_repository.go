package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

var _ repository.MaintenanceRepository = (*MaintenanceRepo)(nil)

// MaintenanceRepo operaciones administrativas del CLI.
type MaintenanceRepo struct {
	pool *pgxpool.Pool
}

// NewMaintenanceRepository construye el adaptador.
func NewMaintenanceRepository(pool *pgxpool.Pool) *MaintenanceRepo {
	return &MaintenanceRepo{pool: pool}
}

// CountMaterials cuenta materiales, activos o no.
func (r *MaintenanceRepo) CountMaterials(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM materials`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count materials: %w", err)
	}
	return n, nil
}

// Reset borra movimientos, materiales y usuarios (salvo el del sistema). El orden respeta las FKs.
func (r *MaintenanceRepo) Reset(ctx context.Context) (repository.ResetResult, error) {
	var res repository.ResetResult
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM stock_movements`)
		if err != nil {
			return fmt.Errorf("delete movements: %w", err)
		}
		res.Movements = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM materials`)
		if err != nil {
			return fmt.Errorf("delete materials: %w", err)
		}
		res.Materials = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM users WHERE email <> $1`, entity.SystemUserEmail)
		if err != nil {
			return fmt.Errorf("delete users: %w", err)
		}
		res.Users = tag.RowsAffected()

		if _, err := tx.Exec(ctx, `ALTER SEQUENCE stock_movements_seq_seq RESTART WITH 1`); err != nil {
			return fmt.Errorf("restart sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return repository.ResetResult{}, err
	}
	return res, nil
}
