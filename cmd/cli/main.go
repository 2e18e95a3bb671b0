package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"windratio/adapters/api"
	"windratio/adapters/csvtable"
	"windratio/adapters/excel"
	"windratio/adapters/exec"
	"windratio/adapters/natsexec"
	"windratio/adapters/postgres"
	"windratio/app"
	"windratio/domain/core"
	"windratio/domain/scada"
	"windratio/internal/config"
	"windratio/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:   "windratio",
		Short: "Energy-ratio analysis for wind-farm SCADA data",
	}

	rootCmd.AddCommand(
		newComputeCmd(),
		newWorkerCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newComputeCmd() *cobra.Command {
	var csvPath string
	var relation string
	var paramsPath string
	var outPath string
	var seed int64

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute energy ratios from a SCADA table",
		Long: `Compute energy ratios from a CSV file or a Postgres relation.

Parameters are read from a JSON file matching the service parameter
schema. The result is written as xlsx or json depending on the output
file extension, or printed as json when no output is given.

Example: windratio compute --csv scada.csv --params run.json --out ratios.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd.Context(), csvPath, relation, paramsPath, outPath, seed)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to a SCADA CSV file")
	cmd.Flags().StringVar(&relation, "table", "", "Postgres relation holding SCADA rows (uses DATABASE_URL)")
	cmd.Flags().StringVar(&paramsPath, "params", "", "Path to a JSON parameter file")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (.xlsx or .json)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for bootstrap resampling")

	return cmd
}

func runCompute(ctx context.Context, csvPath, relation, paramsPath, outPath string, seed int64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	table, err := loadTable(ctx, cfg, csvPath, relation)
	if err != nil {
		return err
	}

	params := app.DefaultParams()
	if paramsPath != "" {
		data, err := os.ReadFile(paramsPath)
		if err != nil {
			return fmt.Errorf("read params: %w", err)
		}
		if err := json.Unmarshal(data, &params); err != nil {
			return fmt.Errorf("parse params: %w", err)
		}
	}

	service, cleanup, err := buildService(cfg, params)
	if err != nil {
		return err
	}
	defer cleanup()

	holder := scada.NewEnergyTable(table, seed)
	result, err := service.Compute(ctx, holder, params)
	if err != nil {
		return err
	}
	log.Printf("run %s: %d direction bins", result.ID, result.Table.NumRows())

	return writeResult(ctx, outPath, result)
}

func loadTable(ctx context.Context, cfg *config.Config, csvPath, relation string) (*scada.Table, error) {
	switch {
	case csvPath != "" && relation != "":
		return nil, core.NewConfigurationError("input", "use either --csv or --table, not both")
	case csvPath != "":
		return csvtable.ReadFile(csvPath)
	case relation != "":
		if cfg.Database.URL == "" {
			return nil, core.NewConfigurationError("DATABASE_URL", "required for --table")
		}
		db, err := postgres.Open(cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return postgres.NewScadaRepository(db).LoadTable(ctx, relation)
	default:
		return nil, core.NewConfigurationError("input", "either --csv or --table is required")
	}
}

// buildService registers the serial and in-process pool strategies, and
// the NATS cluster strategy only when the run asks for it.
func buildService(cfg *config.Config, params app.Params) (*app.EnergyRatioService, func(), error) {
	strategies := []ports.ExecutionStrategy{
		exec.NewSerial(),
		exec.NewPool(params.MaxWorkers),
	}
	cleanup := func() {}

	if params.ExecutionStrategy == app.StrategyCluster {
		conn, err := nats.Connect(cfg.NATS.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to NATS: %w", err)
		}
		cleanup = conn.Close
		strategies = append(strategies, natsexec.NewCluster(conn,
			natsexec.WithSubject(cfg.NATS.Subject),
			natsexec.WithMaxInFlight(cfg.NATS.MaxInFlight),
			natsexec.WithTimeout(cfg.NATS.Timeout),
		))
	}

	return app.NewEnergyRatioService(strategies...), cleanup, nil
}

func writeResult(ctx context.Context, outPath string, result *app.Result) error {
	if outPath == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".xlsx":
		if err := excel.NewWriter(outPath).WriteResult(ctx, result.Table); err != nil {
			return err
		}
	case ".json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return err
		}
	default:
		return core.NewConfigurationError("out", "unsupported output extension, use .xlsx or .json")
	}
	log.Printf("wrote %s", outPath)
	return nil
}

func newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run a cluster worker consuming resample jobs from NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			conn, err := nats.Connect(cfg.NATS.URL)
			if err != nil {
				return fmt.Errorf("connect to NATS: %w", err)
			}
			defer conn.Close()

			worker := natsexec.NewWorkerOn(conn, cfg.NATS.Subject, cfg.NATS.Queue)
			sub, err := worker.Start()
			if err != nil {
				return err
			}
			log.Printf("worker listening on %s (queue %s)", cfg.NATS.Subject, cfg.NATS.Queue)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			log.Printf("shutting down")
			if err := sub.Drain(); err != nil {
				return err
			}
			return conn.Drain()
		},
	}
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the energy-ratio HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			service := app.NewEnergyRatioService(
				exec.NewSerial(),
				exec.NewPool(0),
			)
			server := api.NewServer(service)

			addr := ":" + cfg.Server.Port
			log.Printf("api listening on %s", addr)
			return http.ListenAndServe(addr, server)
		},
	}
	return cmd
}
