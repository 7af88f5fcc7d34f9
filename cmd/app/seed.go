package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"FinSight/internal/di"
	"FinSight/internal/repository"
	"FinSight/internal/services/dataset"
	"FinSight/pkg/logger"
)

func seedCmd(load configLoader) *cobra.Command {
	var (
		target string
		out    string
		size   int
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate the synthetic reference dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			l, err := cliLogger(cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("size") {
				size = cfg.Dataset.Size
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Dataset.Seed
			}
			if size <= 0 {
				return fmt.Errorf("size must be positive, got %d", size)
			}
			rows := dataset.Generate(size, seed)

			switch target {
			case "csv":
				if out == "" {
					out = cfg.Dataset.Path
				}
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					return err
				}
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				if err := dataset.WriteCSV(f, rows); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				l.Info("dataset written", logger.String("path", out), logger.Int("rows", len(rows)))
			case "clickhouse":
				client, err := di.ProvideClickHouseClient(cfg)
				if err != nil {
					return err
				}
				defer client.Close()
				src := repository.NewCHAssetSource(client.DB(), cfg.Dataset.Table, l)
				if err := src.InsertAssets(cmd.Context(), rows); err != nil {
					return err
				}
				l.Info("dataset inserted",
					logger.String("table", cfg.ClickHouse.Database+"."+cfg.Dataset.Table),
					logger.Int("rows", len(rows)),
				)
			default:
				return fmt.Errorf("unknown target %q, want csv or clickhouse", target)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&target, "target", "csv", "csv or clickhouse")
	f.StringVar(&out, "out", "", "CSV path (defaults to dataset.path)")
	f.IntVar(&size, "size", dataset.DefaultSize, "number of rows")
	f.Int64Var(&seed, "seed", dataset.DefaultSeed, "generator seed")
	return cmd
}
