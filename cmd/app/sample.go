package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"FinSight/internal/di"
)

func sampleCmd(load configLoader) *cobra.Command {
	var ticker string
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a reference asset row",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			l, err := cliLogger(cfg)
			if err != nil {
				return err
			}
			svc, cleanup, err := di.InitializeDecisionService(cfg, l)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := svc.Sample(cmd.Context(), ticker)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		},
	}
	cmd.Flags().StringVar(&ticker, "ticker", "", "look up this ticker instead of drawing at random")
	return cmd
}
