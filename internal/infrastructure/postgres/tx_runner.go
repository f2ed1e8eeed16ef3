package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/buildstock-api/internal/application/inventory"
	"github.com/jhoicas/buildstock-api/internal/domain"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
)

var tracer = otel.Tracer("buildstock/postgres/tx")

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxOptions configura las transacciones del ledger.
type TxOptions struct {
	// IsolationLevel: READ COMMITTED alcanza porque la serialización por material la da el lock de fila.
	IsolationLevel pgx.TxIsoLevel
	// LockTimeout espera máxima por el lock de fila; al vencer, el error se reporta como conflicto reintentable.
	LockTimeout time.Duration
	// StatementTimeout protege contra consultas desbocadas.
	StatementTimeout time.Duration
}

// DefaultTxOptions valores por defecto de producción.
func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel:   pgx.ReadCommitted,
		LockTimeout:      5 * time.Second,
		StatementTimeout: 30 * time.Second,
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	opts TxOptions
	log  zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts TxOptions, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, opts: opts, log: log.With().Str("component", "tx_runner").Logger()}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los abortos por concurrencia (40001, 40P01, 55P03) se devuelven como domain.TransactionConflictError.
func (r *TxRunner) Run(ctx context.Context, fn func(
	materialRepo repository.MaterialRepository,
	movRepo repository.StockMovementRepository,
) error) (err error) {
	ctx, span := tracer.Start(ctx, "ledger.transaction",
		trace.WithAttributes(
			attribute.String("tx.isolation", string(r.opts.IsolationLevel)),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.opts.IsolationLevel, AccessMode: pgx.ReadWrite})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			// Contexto independiente: el rollback debe completarse aunque ctx esté cancelado.
			if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.log.Error().Err(rbErr).AnErr("original_error", err).Msg("rollback falló")
			}
		}
	}()

	if err = r.applyTimeouts(ctx, tx); err != nil {
		return err
	}

	if err = fn(NewMaterialRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return asConflict(err)
	}
	if err = tx.Commit(ctx); err != nil {
		return asConflict(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

func (r *TxRunner) applyTimeouts(ctx context.Context, tx pgx.Tx) error {
	if r.opts.LockTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.opts.LockTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}
	if r.opts.StatementTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", r.opts.StatementTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}
	return nil
}

// asConflict envuelve errores de concurrencia que no pasaron por mapError (p. ej. en el commit).
func asConflict(err error) error {
	if domain.IsRetryable(err) {
		return err
	}
	if isConflict(err) {
		return &domain.TransactionConflictError{Cause: err}
	}
	return err
}
