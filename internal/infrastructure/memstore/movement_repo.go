package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/domain"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger en memoria (append-only).
type StockMovementRepo struct {
	store *Store
	tx    *state
}

func (r *StockMovementRepo) view(fn func(st *state)) {
	if r.tx != nil {
		fn(r.tx)
		return
	}
	r.store.read(fn)
}

func (r *StockMovementRepo) update(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.write(fn)
}

// Create valida las mismas referencias que las FKs del esquema SQL. Sin CreatedAt usa el
// reloj local, sin retroceder respecto al último movimiento insertado.
func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.update(func(st *state) error {
		if _, ok := st.materials[m.MaterialID]; !ok {
			return domain.NewValidationError("material_id", "referencia inexistente")
		}
		if m.UserID != nil {
			if _, ok := st.users[*m.UserID]; !ok {
				return domain.NewValidationError("user_id", "referencia inexistente")
			}
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
			if n := len(st.movements); n > 0 && m.CreatedAt.Before(st.movements[n-1].mov.CreatedAt) {
				m.CreatedAt = st.movements[n-1].mov.CreatedAt
			}
		}
		st.seq++
		mov := *m
		if m.UserID != nil {
			uid := *m.UserID
			mov.UserID = &uid
		}
		st.movements = append(st.movements, movementRecord{seq: st.seq, mov: mov})
		return nil
	})
}

func (r *StockMovementRepo) SumByMaterial(_ context.Context, materialID string) (decimal.Decimal, error) {
	total := decimal.Zero
	r.view(func(st *state) {
		for _, rec := range st.movements {
			if rec.mov.MaterialID == materialID {
				total = total.Add(rec.mov.Quantity)
			}
		}
	})
	return total, nil
}

func (r *StockMovementRepo) ExistsForMaterial(_ context.Context, materialID string) (bool, error) {
	exists := false
	r.view(func(st *state) {
		for _, rec := range st.movements {
			if rec.mov.MaterialID == materialID {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

// List más recientes primero: CreatedAt descendente y, a igualdad, orden de inserción descendente.
func (r *StockMovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.MovementView, error) {
	var recs []movementRecord
	names := map[string]entity.Material{}
	r.view(func(st *state) {
		for _, rec := range st.movements {
			if filter.MaterialID != "" && rec.mov.MaterialID != filter.MaterialID {
				continue
			}
			if filter.Type != "" && rec.mov.Type != filter.Type {
				continue
			}
			recs = append(recs, rec)
			names[rec.mov.MaterialID] = st.materials[rec.mov.MaterialID]
		}
	})
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.mov.CreatedAt.Equal(b.mov.CreatedAt) {
			return a.mov.CreatedAt.After(b.mov.CreatedAt)
		}
		return a.seq > b.seq
	})
	if filter.Limit > 0 && len(recs) > filter.Limit {
		recs = recs[:filter.Limit]
	}

	out := make([]*entity.MovementView, 0, len(recs))
	for _, rec := range recs {
		m := names[rec.mov.MaterialID]
		out = append(out, &entity.MovementView{StockMovement: rec.mov, MaterialName: m.Name, Unit: m.Unit})
	}
	return out, nil
}
