package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type userRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

func (r userRow) toEntity() *entity.User {
	return &entity.User{ID: r.ID, Name: r.Name, Email: r.Email, Role: r.Role, CreatedAt: r.CreatedAt}
}

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// CreateIfAbsent inserta el usuario salvo que el email ya exista.
func (r *UserRepo) CreateIfAbsent(ctx context.Context, u *entity.User) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO users (id, name, email, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING`,
		u.ID, u.Name, u.Email, u.Role, u.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert user: %w", mapError(err))
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepo) findOne(ctx context.Context, where squirrel.Eq) (*entity.User, error) {
	sql, args, err := builder.Select("id", "name", "email", "role", "created_at").From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user: %w", err)
	}
	var row userRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", mapError(err))
	}
	return row.toEntity(), nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

// List usuarios ordenados por nombre.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	var rows []userRow
	if err := pgxscan.Select(ctx, r.q, &rows, `SELECT id, name, email, role, created_at FROM users ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list users: %w", mapError(err))
	}
	out := make([]*entity.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
