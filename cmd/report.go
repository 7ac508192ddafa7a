package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/refinelab/feedplan/config"
	"github.com/refinelab/feedplan/connectors/simulator"
	"github.com/refinelab/feedplan/core/report"
	"github.com/refinelab/feedplan/infra/logger"
	"github.com/refinelab/feedplan/pkg/export"
)

var (
	reportOut    string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the configured plan once and export the reconciled reports",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "output", "o", "", "output file (default stdout)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "json", "output format: json, csv or xlsx")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("report-command")

	plan := cfg.Plan.Inputs
	if plan == nil {
		plan = map[string]any{}
	}
	client := simulator.NewClient(cfg.Simulator)
	res, err := client.Simulate(ctx, plan)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	reports := report.NewEngine(nil).Reconcile(*res)
	summary := report.Summarize(reports, cfg.Plan.ProcessingRateBblPerDay)
	logg.Infof("reconciled %d days, certified stock peaks at %.0f bbl", summary.Days, summary.MaxCertifiedStock)

	out := os.Stdout
	if reportOut != "" {
		f, err := os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	switch reportFormat {
	case "json":
		return export.WriteJSON(out, reports)
	case "csv":
		return export.WriteCSV(out, reports)
	case "xlsx":
		if reportOut == "" {
			return fmt.Errorf("xlsx requires --output")
		}
		return export.WriteExcel(out, reports, res.CargoReport, res.SimulationLog)
	default:
		return fmt.Errorf("unknown format %s", reportFormat)
	}
}
