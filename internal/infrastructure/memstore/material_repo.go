package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/domain"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo materiales en memoria. Con tx != nil opera sobre la copia de una transacción;
// si no, cada llamada es atómica sobre el estado publicado.
type MaterialRepo struct {
	store *Store
	tx    *state
}

func (r *MaterialRepo) view(fn func(st *state)) {
	if r.tx != nil {
		fn(r.tx)
		return
	}
	r.store.read(fn)
}

func (r *MaterialRepo) update(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.write(fn)
}

// copyMaterial copia profunda. ID y NameKey se clonan porque son claves de mapa y el llamador
// puede pasar strings que apuntan a buffers ajenos.
func copyMaterial(m entity.Material) *entity.Material {
	m.ID = strings.Clone(m.ID)
	m.NameKey = strings.Clone(m.NameKey)
	if m.MaxStock != nil {
		mx := *m.MaxStock
		m.MaxStock = &mx
	}
	return &m
}

func (r *MaterialRepo) Create(_ context.Context, m *entity.Material) error {
	return r.update(func(st *state) error {
		if _, taken := st.byKey[m.NameKey]; taken {
			return &domain.DuplicateNameError{Name: m.Name}
		}
		own := *copyMaterial(*m)
		st.materials[own.ID] = own
		st.byKey[own.NameKey] = own.ID
		return nil
	})
}

func (r *MaterialRepo) CreateIfAbsent(_ context.Context, m *entity.Material) (bool, error) {
	created := false
	err := r.update(func(st *state) error {
		if _, taken := st.byKey[m.NameKey]; taken {
			return nil
		}
		own := *copyMaterial(*m)
		st.materials[own.ID] = own
		st.byKey[own.NameKey] = own.ID
		created = true
		return nil
	})
	return created, err
}

func (r *MaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	var out *entity.Material
	r.view(func(st *state) {
		if m, ok := st.materials[id]; ok {
			out = copyMaterial(m)
		}
	})
	return out, nil
}

func (r *MaterialRepo) GetByNameKey(_ context.Context, nameKey string) (*entity.Material, error) {
	var out *entity.Material
	r.view(func(st *state) {
		if id, ok := st.byKey[nameKey]; ok {
			out = copyMaterial(st.materials[id])
		}
	})
	return out, nil
}

// LockByNameKey equivale a GetByNameKey: las transacciones ya están serializadas.
func (r *MaterialRepo) LockByNameKey(ctx context.Context, nameKey string) (*entity.Material, error) {
	return r.GetByNameKey(ctx, nameKey)
}

func (r *MaterialRepo) LockByID(ctx context.Context, id string) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r *MaterialRepo) ExistsNameKeyExcept(_ context.Context, nameKey, exceptID string) (bool, error) {
	exists := false
	r.view(func(st *state) {
		id, ok := st.byKey[nameKey]
		exists = ok && id != exceptID
	})
	return exists, nil
}

func (r *MaterialRepo) Update(_ context.Context, m *entity.Material) (bool, error) {
	found := false
	err := r.update(func(st *state) error {
		cur, ok := st.materials[m.ID]
		if !ok {
			return nil
		}
		if id, taken := st.byKey[m.NameKey]; taken && id != m.ID {
			return &domain.DuplicateNameError{Name: m.Name}
		}
		delete(st.byKey, cur.NameKey)
		next := *copyMaterial(*m)
		next.ID = cur.ID
		next.Active = cur.Active
		next.CreatedAt = cur.CreatedAt
		st.materials[cur.ID] = next
		st.byKey[next.NameKey] = cur.ID
		found = true
		return nil
	})
	return found, err
}

func (r *MaterialRepo) UpdateThresholds(_ context.Context, id string, minStock decimal.Decimal, maxStock *decimal.Decimal) (bool, error) {
	found := false
	err := r.update(func(st *state) error {
		m, ok := st.materials[id]
		if !ok {
			return nil
		}
		m.MinStock = minStock
		m.MaxStock = nil
		if maxStock != nil {
			mx := *maxStock
			m.MaxStock = &mx
		}
		m.UpdatedAt = time.Now()
		st.materials[m.ID] = m
		found = true
		return nil
	})
	return found, err
}

func (r *MaterialRepo) UpdatePrice(_ context.Context, id string, price decimal.Decimal) error {
	return r.update(func(st *state) error {
		m, ok := st.materials[id]
		if !ok {
			return nil
		}
		m.Price = price
		m.UpdatedAt = time.Now()
		st.materials[m.ID] = m
		return nil
	})
}

func (r *MaterialRepo) Deactivate(_ context.Context, id string) error {
	return r.update(func(st *state) error {
		m, ok := st.materials[id]
		if !ok {
			return nil
		}
		m.Active = false
		m.UpdatedAt = time.Now()
		st.materials[m.ID] = m
		return nil
	})
}

// Delete rechaza materiales con historial, igual que la FK RESTRICT del esquema SQL.
func (r *MaterialRepo) Delete(_ context.Context, id string) error {
	return r.update(func(st *state) error {
		m, ok := st.materials[id]
		if !ok {
			return nil
		}
		for _, rec := range st.movements {
			if rec.mov.MaterialID == id {
				return &domain.TransactionConflictError{}
			}
		}
		delete(st.materials, id)
		delete(st.byKey, m.NameKey)
		return nil
	})
}

func (r *MaterialRepo) List(_ context.Context, includeInactive bool) ([]*entity.Material, error) {
	var out []*entity.Material
	r.view(func(st *state) {
		out = make([]*entity.Material, 0, len(st.materials))
		for _, m := range st.materials {
			if !includeInactive && !m.Active {
				continue
			}
			out = append(out, copyMaterial(m))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].NameKey != out[j].NameKey {
			return out[i].NameKey < out[j].NameKey
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
