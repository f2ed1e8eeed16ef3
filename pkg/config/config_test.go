package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Vacío equivale a no definido: Viper ignora env vars vacías.
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("APP_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.App.StoreDriver)
	assert.Equal(t, "test", cfg.App.Env)
	assert.True(t, cfg.Ledger.RefreshPriceOnMovement)
	assert.Equal(t, 5*time.Second, cfg.Ledger.LockTimeout)
	assert.Equal(t, 30, cfg.Ledger.TurnoverWindowDays)
	assert.Equal(t, 25, cfg.DB.MaxConns)
}

func TestLoad_LedgerOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LEDGER_REFRESH_PRICE", "false")
	t.Setenv("LEDGER_LOCK_TIMEOUT", "250ms")
	t.Setenv("LEDGER_STATEMENT_TIMEOUT", "10")
	t.Setenv("TURNOVER_WINDOW_DAYS", "7")
	t.Setenv("HTTP_PORT", "8081")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.App.StoreDriver)
	assert.False(t, cfg.Ledger.RefreshPriceOnMovement)
	assert.Equal(t, 250*time.Millisecond, cfg.Ledger.LockTimeout)
	assert.Equal(t, 10*time.Second, cfg.Ledger.StatementTimeout)
	assert.Equal(t, 7, cfg.Ledger.TurnoverWindowDays)
	assert.Equal(t, "0.0.0.0:8081", cfg.HTTP.Addr())
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "buildstock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/buildstock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://other"
	assert.Equal(t, "postgres://other", c.ConnectionString())
}
