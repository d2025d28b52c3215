package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/computesales/config"
	"github.com/mohammad-safakhou/computesales/internal/document"
	"github.com/mohammad-safakhou/computesales/internal/pipeline"
	"github.com/mohammad-safakhou/computesales/internal/report"
	"github.com/mohammad-safakhou/computesales/internal/telemetry"
)

func computeCMD() *cobra.Command {
	var cfgPath string

	var compute = &cobra.Command{
		Use:   "computesales <price_catalog> <sales_records>",
		Short: "Compute total sales from price catalog and sales records.",
		Long: "Compute total sales from a price catalog and sales records, both in JSON format.\n" +
			"Documents are local paths, s3://<bucket>/<key> objects or redis:<key> values.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := config.LoadConfig(cfgPath, cmd.Flags())
			if err != nil {
				return err
			}
			return runCompute(cmd, cfg, args[0], args[1])
		},
	}
	compute.Flags().String("log-file", config.DefaultLogFile, "file receiving a copy of all output (empty disables)")
	compute.Flags().String("report", "", "write a JSON run report to this file")
	compute.Flags().String("metrics-file", "", "write run metrics in Prometheus text format to this file")
	compute.Flags().String("log-level", "warn", "operational log level on stderr")
	compute.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./computesales.json)")

	return compute
}

func runCompute(cmd *cobra.Command, cfg *config.Config, catalogDoc, salesDoc string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := telemetry.NewLogger(cmd.ErrOrStderr(), cfg.General.LogLevel)

	tel, tracer, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown")
		}
	}()

	sink, err := report.NewSink(cmd.OutOrStdout(), cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warn().Err(err).Str("path", cfg.Output.LogFile).Msg("close log file")
		}
	}()

	loader, closeLoader, err := document.NewLoaderForConfig(ctx, cfg.Storage, sink, log, catalogDoc, salesDoc)
	if err != nil {
		return err
	}
	defer func() { _ = closeLoader() }()

	metrics := telemetry.NewMetrics()
	run := pipeline.New(loader, sink,
		pipeline.WithTracer(tracer),
		pipeline.WithMetrics(metrics),
		pipeline.WithLogger(log),
	).Run(ctx, catalogDoc, salesDoc)
	run.Output = sink.Lines()

	if err := sink.Err(); err != nil {
		log.Warn().Err(err).Msg("output write failed")
	}
	if cfg.Output.ReportFile != "" {
		if err := run.WriteFile(cfg.Output.ReportFile); err != nil {
			return err
		}
		log.Debug().Str("path", cfg.Output.ReportFile).Str("run_id", run.ID).Msg("run report written")
	}
	if cfg.Telemetry.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.Telemetry.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
