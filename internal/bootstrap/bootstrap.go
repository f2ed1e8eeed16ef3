// Package bootstrap ensambla backend y casos de uso a partir de la configuración.
// Lo comparten el servidor HTTP y la CLI de mantenimiento.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/buildstock-api/internal/application/analytics"
	"github.com/jhoicas/buildstock-api/internal/application/inventory"
	"github.com/jhoicas/buildstock-api/internal/application/report"
	"github.com/jhoicas/buildstock-api/internal/application/seed"
	"github.com/jhoicas/buildstock-api/internal/domain/repository"
	"github.com/jhoicas/buildstock-api/internal/infrastructure/export"
	"github.com/jhoicas/buildstock-api/internal/infrastructure/memstore"
	"github.com/jhoicas/buildstock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/buildstock-api/pkg/config"
)

// Backend repositorios y runner transaccional de un almacén concreto.
type Backend struct {
	Name        string
	TxRunner    inventory.TxRunner
	Materials   repository.MaterialRepository
	Movements   repository.StockMovementRepository
	Analytics   repository.AnalyticsRepository
	Users       repository.UserRepository
	Maintenance repository.MaintenanceRepository
	Ping        func(ctx context.Context) error
	Close       func()
}

// OpenBackend abre el backend indicado por STORE_DRIVER. Con postgres y DB_AUTO_MIGRATE
// aplica las migraciones antes de abrir el pool.
func OpenBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("usando almacén en memoria: los datos se pierden al reiniciar")
		return MemoryBackend(memstore.New()), nil
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		return nil, err
	}
	opts := postgres.DefaultTxOptions()
	if cfg.Ledger.LockTimeout > 0 {
		opts.LockTimeout = cfg.Ledger.LockTimeout
	}
	if cfg.Ledger.StatementTimeout > 0 {
		opts.StatementTimeout = cfg.Ledger.StatementTimeout
	}
	return &Backend{
		Name:        config.StoreDriverPostgres,
		TxRunner:    postgres.NewTxRunner(pool, opts, log),
		Materials:   postgres.NewMaterialRepository(pool),
		Movements:   postgres.NewStockMovementRepository(pool),
		Analytics:   postgres.NewAnalyticsRepository(pool),
		Users:       postgres.NewUserRepository(pool),
		Maintenance: postgres.NewMaintenanceRepository(pool),
		Ping:        pool.Ping,
		Close:       pool.Close,
	}, nil
}

// MemoryBackend envuelve un memstore.Store.
func MemoryBackend(store *memstore.Store) *Backend {
	return &Backend{
		Name:        config.StoreDriverMemory,
		TxRunner:    store,
		Materials:   store.Materials(),
		Movements:   store.Movements(),
		Analytics:   store,
		Users:       store.Users(),
		Maintenance: store,
		Ping:        store.Ping,
		Close:       func() {},
	}
}

// Services casos de uso listos para usar.
type Services struct {
	Registry      *inventory.MaterialRegistry
	Ledger        *inventory.RegisterMovementUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Dashboard     *analytics.DashboardUseCase
	Export        *report.ExportUseCase
	Seed          *seed.UseCase
}

// NewServices construye los casos de uso sobre el backend.
func NewServices(b *Backend, ledger config.LedgerConfig, appName string, log zerolog.Logger) *Services {
	registry := inventory.NewMaterialRegistry(b.TxRunner, b.Materials, inventory.RegistryOptions{
		RefreshPriceOnMovement: ledger.RefreshPriceOnMovement,
	}, log)
	movements := inventory.NewRegisterMovementUseCase(b.TxRunner, registry, b.Materials, b.Movements, log)
	dashboard := analytics.NewDashboardUseCase(b.Analytics, b.Movements, ledger.TurnoverWindowDays, log)
	exportUC := report.NewExportUseCase(dashboard, appName+" - resumo de estoque", map[report.Format]report.SummaryRenderer{
		report.FormatPDF:  export.NewMarotoSummaryRenderer(),
		report.FormatXLSX: export.NewExcelSummaryRenderer(),
	})
	return &Services{
		Registry:      registry,
		Ledger:        movements,
		Replenishment: inventory.NewReplenishmentUseCase(b.Analytics),
		Dashboard:     dashboard,
		Export:        exportUC,
		Seed:          seed.NewUseCase(registry, movements, b.Users, b.Maintenance, log),
	}
}
