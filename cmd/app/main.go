package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"FinSight/pkg/config"
	"FinSight/pkg/logger"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "finsight",
		Short:         "Explainable buy/hold/sell recommendations",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "config file path")

	load := func(cmd *cobra.Command) (*config.Config, error) {
		path := configPath
		if !cmd.Flags().Changed("config") {
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				path = ""
			}
		}
		return config.LoadWithEnv(path)
	}

	root.AddCommand(
		serveCmd(load),
		decideCmd(load),
		sampleCmd(load),
		seedCmd(load),
	)
	return root
}

type configLoader func(cmd *cobra.Command) (*config.Config, error)

// cliLogger writes human-readable logs to stderr so stdout stays JSON.
func cliLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logger.Level,
		Format: "console",
		Output: "stderr",
	})
}
