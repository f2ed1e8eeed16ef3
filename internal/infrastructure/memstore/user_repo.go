package memstore

import (
	"context"
	"sort"

	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria; el email es único.
type UserRepo struct {
	store *Store
}

func (r *UserRepo) CreateIfAbsent(_ context.Context, u *entity.User) (bool, error) {
	created := false
	err := r.store.write(func(st *state) error {
		for _, existing := range st.users {
			if existing.Email == u.Email {
				return nil
			}
		}
		st.users[u.ID] = *u
		created = true
		return nil
	})
	return created, err
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.store.read(func(st *state) {
		if u, ok := st.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.store.read(func(st *state) {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	r.store.read(func(st *state) {
		for _, u := range st.users {
			u := u
			out = append(out, &u)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
