package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/jhoicas/stockpilot/internal/application/dto"
)

const (
	companyFlag = "company"
	asOfFlag    = "as-of"
	formatFlag  = "format"
	outFlag     = "out"
)

// alertsFlags se construye por comando: cobraflags enlaza cada flag a viper una sola vez.
func alertsFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		companyFlag: &cobraflags.StringFlag{
			Name:  companyFlag,
			Value: "",
			Usage: "ID de la empresa (requerido)",
		},
		asOfFlag: &cobraflags.StringFlag{
			Name:  asOfFlag,
			Value: "",
			Usage: "Fecha de corte RFC3339; vacío = ahora",
		},
		formatFlag: &cobraflags.StringFlag{
			Name:  formatFlag,
			Value: "json",
			Usage: "Formato de salida: json | pdf",
		},
		outFlag: &cobraflags.StringFlag{
			Name:  outFlag,
			Value: "",
			Usage: "Archivo de salida; vacío = stdout",
		},
	}
}

func newAlertsCommand() *cobra.Command {
	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Calcula las alertas de stock bajo de una empresa",
		Long: `Calcula las alertas de stock bajo a la fecha de corte indicada y las imprime en JSON
o genera el reporte PDF de reposición.

Ejemplos:
  stockpilot alerts --company <id>
  stockpilot alerts --company <id> --as-of 2026-04-01T00:00:00Z --format pdf --out reposicion.pdf`,
	}
	flags := alertsFlags()
	alertsCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return alertsCommand(cmd, flags)
	}
	cobraflags.RegisterMap(alertsCmd, flags)
	return alertsCmd
}

func alertsCommand(cmd *cobra.Command, flags map[string]cobraflags.Flag) error {
	companyID := flags[companyFlag].GetString()
	if companyID == "" {
		return errors.New("--company es requerido")
	}
	asOf := time.Now().UTC()
	if raw := flags[asOfFlag].GetString(); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("--as-of debe ser RFC3339: %w", err)
		}
		asOf = t
	}
	format := flags[formatFlag].GetString()
	if format != "json" && format != "pdf" {
		return fmt.Errorf("--format inválido: %s", format)
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	rt, err := buildRuntime(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer rt.close()

	var out io.Writer = cmd.OutOrStdout()
	if path := flags[outFlag].GetString(); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("crear %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	if format == "pdf" {
		doc, err := rt.deps.Report.LowStockPDF(cmd.Context(), companyID, &asOf)
		if err != nil {
			return err
		}
		_, err = out.Write(doc)
		return err
	}

	report, err := rt.deps.LowStock.ComputeAlerts(cmd.Context(), companyID, asOf)
	if err != nil {
		return err
	}
	return writeJSON(out, report)
}

func writeJSON(w io.Writer, report *dto.LowStockReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
