package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stockpilot/internal/infrastructure/postgres"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Administra el esquema de PostgreSQL",
		Long: `Aplica o revierte las migraciones SQL embebidas en el binario.

  up      aplica todas las migraciones pendientes
  down    revierte la última migración aplicada
  status  lista las migraciones y cuándo se aplicaron`,
	}
	migrateCmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Aplica las migraciones pendientes", RunE: migrateUp},
		&cobra.Command{Use: "down", Short: "Revierte la última migración", RunE: migrateDown},
		&cobra.Command{Use: "status", Short: "Estado de las migraciones", RunE: migrateStatus},
	)
	return migrateCmd
}

func openMigrator(cmd *cobra.Command) (*postgres.Migrator, func(), error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	pool, err := openPostgres(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	m, err := postgres.NewMigrator(pool, log)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return m, pool.Close, nil
}

func migrateUp(cmd *cobra.Command, _ []string) error {
	m, closeFn, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	n, err := m.Up(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d migraciones aplicadas\n", n)
	return nil
}

func migrateDown(cmd *cobra.Command, _ []string) error {
	m, closeFn, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	reverted, err := m.Down(cmd.Context())
	if err != nil {
		return err
	}
	if !reverted {
		fmt.Fprintln(cmd.OutOrStdout(), "no hay migraciones aplicadas")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "última migración revertida")
	return nil
}

func migrateStatus(cmd *cobra.Command, _ []string) error {
	m, closeFn, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	list, err := m.Status(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNOMBRE\tAPLICADA")
	for _, s := range list {
		applied := "pendiente"
		if s.AppliedAt != nil {
			applied = s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%04d\t%s\t%s\n", s.Version, s.Name, applied)
	}
	return w.Flush()
}
