package main

import (
	"github.com/spf13/cobra"

	"FinSight/internal/di"
)

func serveCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}

			app, cleanup, err := di.InitializeApp(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return app.Run(cmd.Context())
		},
	}
}
