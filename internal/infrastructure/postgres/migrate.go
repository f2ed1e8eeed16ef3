package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // registra el driver postgres://
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateLogger adapta zerolog a migrate.Logger.
type migrateLogger struct {
	log     zerolog.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.log.Debug().Msgf("migración: "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return l.verbose }

func newMigrator(dbURL string, log zerolog.Logger) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("abrir migraciones embebidas: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, fmt.Errorf("inicializar migrate: %w", err)
	}
	m.Log = &migrateLogger{log: log, verbose: log.GetLevel() <= zerolog.DebugLevel}
	return m, nil
}

// Migrate aplica todas las migraciones pendientes. Sin cambios no es error.
func Migrate(dbURL string, log zerolog.Logger) error {
	log.Info().Msg("aplicando migraciones")
	m, err := newMigrator(dbURL, log)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("migraciones: sin cambios")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
	return nil
}

// MigrateDown revierte todas las migraciones (borra el esquema).
func MigrateDown(dbURL string, log zerolog.Logger) error {
	m, err := newMigrator(dbURL, log)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	log.Info().Msg("migraciones revertidas")
	return nil
}
