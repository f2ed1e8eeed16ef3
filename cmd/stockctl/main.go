// Command stockctl tareas de mantenimiento del almacén: migraciones, datos de demostración,
// reinicio y resumen por consola.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhoicas/buildstock-api/internal/bootstrap"
	"github.com/jhoicas/buildstock-api/pkg/config"
	"github.com/jhoicas/buildstock-api/pkg/logger"
)

// env configuración y logger compartidos por los subcomandos.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "stockctl",
		Short:         "Herramientas de mantenimiento de BuildStock",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{
				Env:     cfg.App.Env,
				Level:   cfg.App.LogLevel,
				AppName: "stockctl",
				Output:  os.Stderr,
			})
			return nil
		},
	}
	root.AddCommand(
		newMigrateCmd(e),
		newSeedCmd(e),
		newResetCmd(e),
		newSummaryCmd(e),
	)
	return root
}

// services abre el backend configurado y construye los casos de uso.
func (e *env) services(ctx context.Context) (*bootstrap.Services, func(), error) {
	backend, err := bootstrap.OpenBackend(ctx, e.cfg, e.log.Zerolog())
	if err != nil {
		return nil, nil, err
	}
	return bootstrap.NewServices(backend, e.cfg.Ledger, e.cfg.App.Name, e.log.Zerolog()), backend.Close, nil
}
