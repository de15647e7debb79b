// Command stockpilot expone la API de inventario y las tareas de operación (migraciones,
// alertas de stock bajo, emisión de tokens).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "stockpilot",
		Short:         "Inventario multi-bodega con alertas de stock bajo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newAlertsCommand())
	root.AddCommand(newTokenCommand())
	return root
}
