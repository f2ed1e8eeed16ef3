// Package memstore almacén en memoria con semántica transaccional: cada transacción
// trabaja sobre una copia del estado que solo se publica en el commit. Las transacciones
// se serializan entre sí, así que el bloqueo por material queda implícito.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/buildstock-api/internal/application/inventory"
	"github.com/jhoicas/buildstock-api/internal/domain/entity"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner               = (*Store)(nil)
	_ repository.AnalyticsRepository   = (*Store)(nil)
	_ repository.MaintenanceRepository = (*Store)(nil)
)

type movementRecord struct {
	seq int64
	mov entity.StockMovement
}

type state struct {
	materials map[string]entity.Material // por id
	byKey     map[string]string          // name_key -> id
	movements []movementRecord           // orden de inserción
	users     map[string]entity.User     // por id
	seq       int64
}

func (st *state) clone() *state {
	c := &state{
		materials: make(map[string]entity.Material, len(st.materials)),
		byKey:     make(map[string]string, len(st.byKey)),
		movements: make([]movementRecord, len(st.movements), len(st.movements)+1),
		users:     make(map[string]entity.User, len(st.users)),
		seq:       st.seq,
	}
	for k, v := range st.materials {
		c.materials[k] = v
	}
	for k, v := range st.byKey {
		c.byKey[k] = v
	}
	copy(c.movements, st.movements)
	for k, v := range st.users {
		c.users[k] = v
	}
	return c
}

// Store almacén en memoria. El valor cero no es usable: construir con New.
type Store struct {
	txMu sync.Mutex   // serializa transacciones y escrituras sueltas
	mu   sync.RWMutex // protege el puntero a state publicado
	st   *state
}

// New crea un almacén vacío con el usuario del sistema.
func New() *Store {
	st := &state{
		materials: map[string]entity.Material{},
		byKey:     map[string]string{},
		users:     map[string]entity.User{},
	}
	sys := entity.User{
		ID:        uuid.New().String(),
		Name:      "Sistema",
		Email:     entity.SystemUserEmail,
		Role:      entity.RoleSistema,
		CreatedAt: time.Now(),
	}
	st.users[sys.ID] = sys
	return &Store{st: st}
}

// Run ejecuta fn sobre una copia del estado; si fn no falla, la copia pasa a ser el estado publicado.
func (s *Store) Run(ctx context.Context, fn func(
	materialRepo repository.MaterialRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(&MaterialRepo{tx: work}, &StockMovementRepo{tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// read ejecuta fn sobre el estado publicado.
func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

// write aplica fn como una transacción de una sola operación.
func (s *Store) write(fn func(st *state) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}
	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// Materials repositorio de materiales fuera de transacción.
func (s *Store) Materials() *MaterialRepo { return &MaterialRepo{store: s} }

// Movements repositorio del ledger fuera de transacción.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{store: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{store: s} }

// ── Analítica ─────────────────────────────────────────────────────────────────

// StockSummary materiales activos con su stock derivado, ordenados por nombre.
func (s *Store) StockSummary(_ context.Context) ([]entity.MaterialStock, error) {
	var out []entity.MaterialStock
	s.read(func(st *state) {
		totals := map[string]decimal.Decimal{}
		last := map[string]time.Time{}
		for _, r := range st.movements {
			id := r.mov.MaterialID
			totals[id] = totals[id].Add(r.mov.Quantity)
			if r.mov.CreatedAt.After(last[id]) {
				last[id] = r.mov.CreatedAt
			}
		}
		out = make([]entity.MaterialStock, 0, len(st.materials))
		for _, m := range st.materials {
			if !m.Active {
				continue
			}
			row := entity.MaterialStock{Material: m, CurrentStock: totals[m.ID]}
			if t, ok := last[m.ID]; ok {
				t := t
				row.LastMovementAt = &t
			}
			out = append(out, row)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Material.NameKey != out[j].Material.NameKey {
			return out[i].Material.NameKey < out[j].Material.NameKey
		}
		return out[i].Material.ID < out[j].Material.ID
	})
	return out, nil
}

// MovementCounts conteos sobre todo el ledger.
func (s *Store) MovementCounts(_ context.Context) (entity.MovementCounts, error) {
	var c entity.MovementCounts
	s.read(func(st *state) {
		for _, r := range st.movements {
			c.Total++
			switch r.mov.Type {
			case entity.MovementEntrada:
				c.Entradas++
			case entity.MovementSaida:
				c.Saidas++
			}
		}
	})
	return c, nil
}

// FlowSince magnitudes de entrada y salida con CreatedAt >= since.
func (s *Store) FlowSince(_ context.Context, since time.Time) (entity.FlowTotals, error) {
	f := entity.FlowTotals{In: decimal.Zero, Out: decimal.Zero}
	s.read(func(st *state) {
		for _, r := range st.movements {
			if r.mov.CreatedAt.Before(since) {
				continue
			}
			switch r.mov.Type {
			case entity.MovementEntrada:
				f.In = f.In.Add(r.mov.Quantity.Abs())
			case entity.MovementSaida:
				f.Out = f.Out.Add(r.mov.Quantity.Abs())
			}
		}
	})
	return f, nil
}

// ── Mantenimiento ─────────────────────────────────────────────────────────────

// CountMaterials cuenta materiales, activos o no.
func (s *Store) CountMaterials(_ context.Context) (int64, error) {
	var n int64
	s.read(func(st *state) { n = int64(len(st.materials)) })
	return n, nil
}

// Reset borra movimientos, materiales y usuarios salvo el del sistema.
func (s *Store) Reset(_ context.Context) (repository.ResetResult, error) {
	var res repository.ResetResult
	err := s.write(func(st *state) error {
		res.Movements = int64(len(st.movements))
		res.Materials = int64(len(st.materials))
		st.movements = nil
		st.materials = map[string]entity.Material{}
		st.byKey = map[string]string{}
		st.seq = 0
		for id, u := range st.users {
			if u.Email != entity.SystemUserEmail {
				delete(st.users, id)
				res.Users++
			}
		}
		return nil
	})
	return res, err
}

// Ping siempre disponible; existe para que el health check trate ambos backends igual.
func (s *Store) Ping(_ context.Context) error { return nil }
