package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/buildstock-api/internal/application/seed"
	"github.com/jhoicas/buildstock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/buildstock-api/pkg/config"
)

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.cfg.App.StoreDriver != config.StoreDriverPostgres {
				return fmt.Errorf("migrate requiere STORE_DRIVER=postgres")
			}
			down, _ := cmd.Flags().GetBool("down")
			dbURL := e.cfg.DB.ConnectionString()
			if down {
				if err := postgres.MigrateDown(dbURL, e.log.Zerolog()); err != nil {
					return fmt.Errorf("revertir migraciones: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migraciones revertidas")
				return nil
			}
			if err := postgres.Migrate(dbURL, e.log.Zerolog()); err != nil {
				return fmt.Errorf("migrar base de datos: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migraciones aplicadas")
			return nil
		},
	}
	cmd.Flags().Bool("down", false, "Revierte todas las migraciones (borra el esquema)")
	return cmd
}

func newSeedCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga usuarios, materiales y movimientos de demostración",
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			svc, closeFn, err := e.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Seed.Run(cmd.Context(), force)
			if errors.Is(err, seed.ErrStoreNotEmpty) {
				return err
			}
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "usuarios: %d, materiales: %d (omitidos %d), movimientos: %d\n",
				res.UsersCreated, res.MaterialsCreated, res.MaterialsSkipped, res.Movements)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Siembra aunque ya existan materiales")
	return cmd
}

func newResetCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Borra movimientos, materiales y usuarios (salvo el del sistema)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("reset es destructivo; confirme con --yes")
			}
			svc, closeFn, err := e.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Seed.Reset(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "borrados: %d movimientos, %d materiales, %d usuarios\n",
				res.Movements, res.Materials, res.Users)
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "Confirma el borrado")
	return cmd
}

func newSummaryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Imprime el resumen de stock por material",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := e.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rows, err := svc.Dashboard.GetSummary(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MATERIAL\tESTOQUE\tUNIDADE\tMIN\tMAX\tSTATUS")
			for _, r := range rows {
				maxStock := "-"
				if r.MaxStock != nil {
					maxStock = r.MaxStock.String()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Material, r.CurrentStock.String(), r.Unit, r.MinStock.String(), maxStock, r.Status)
			}
			return tw.Flush()
		},
	}
}
