package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"FinSight/internal/di"
	"FinSight/internal/domain/models"
)

func decideCmd(load configLoader) *cobra.Command {
	var (
		req       models.DecideRequest
		momentum  float64
		vol       float64
		pe        float64
		sector    int
		liquidity float64
		exposure  float64
		sentiment float64
		simple    bool
		full      bool
		out       string
	)
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Produce one recommendation and print its export JSON",
		Example: `  finsight decide --sample --risk high --horizon long
  finsight decide --ticker ACME --momentum 0.1 --pe-ratio 12 --simple
  finsight decide --sample --prices 100,101,99.5,102,103,101,104 --out export.json`,
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

			flags := cmd.Flags()
			if flags.Changed("momentum") {
				req.Features.Momentum = &momentum
			}
			if flags.Changed("volatility") {
				req.Features.Volatility = &vol
			}
			if flags.Changed("pe-ratio") {
				req.Features.PERatio = &pe
			}
			if flags.Changed("sector") {
				req.Features.SectorSignal = &sector
			}
			if flags.Changed("liquidity") {
				req.Features.Liquidity = &liquidity
			}
			if flags.Changed("exposure") {
				req.Context.PositionExposure = &exposure
			}
			if flags.Changed("sentiment") {
				req.Context.MarketSentiment = &sentiment
			}

			var outcome *models.Outcome
			if simple {
				outcome, err = svc.DecideSimple(cmd.Context(), &models.SimpleDecideRequest{
					Ticker:   req.Ticker,
					Features: req.Features,
					Context:  req.Context,
					Sample:   req.Sample,
				})
			} else {
				outcome, err = svc.Decide(cmd.Context(), &req)
			}
			if err != nil {
				return err
			}

			var doc interface{} = outcome.Export
			if full {
				doc = outcome
			}
			w := io.Writer(cmd.OutOrStdout())
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Ticker, "ticker", "", "ticker to label the decision, or to look up with --sample")
	f.BoolVar(&req.Sample, "sample", false, "start from a reference dataset row (random unless --ticker is set)")
	f.Float64Var(&momentum, "momentum", models.DefaultMomentum, "momentum feature")
	f.Float64Var(&vol, "volatility", models.DefaultVolatility, "volatility feature")
	f.Float64Var(&pe, "pe-ratio", models.DefaultPERatio, "price/earnings ratio")
	f.IntVar(&sector, "sector", models.DefaultSectorSignal, "sector signal (-1, 0 or 1)")
	f.Float64Var(&liquidity, "liquidity", models.DefaultLiquidity, "liquidity in [0,1]")
	f.StringVar(&req.Context.RiskTolerance, "risk", string(models.RiskMedium), "risk tolerance: low, medium or high")
	f.Float64Var(&exposure, "exposure", 0.2, "current position exposure in [0,1]")
	f.Float64Var(&sentiment, "sentiment", 0, "market sentiment in [-1,1]")
	f.StringVar(&req.Context.TimeHorizon, "horizon", string(models.HorizonMedium), "time horizon: short, medium or long")
	f.Float64SliceVar(&req.Returns, "returns", nil, "return window, oldest first")
	f.Float64SliceVar(&req.Prices, "prices", nil, "price series; log returns are derived")
	f.BoolVar(&simple, "simple", false, "use the single-stage decision mode")
	f.BoolVar(&full, "full", false, "print the full pipeline result instead of the export")
	f.StringVar(&out, "out", "", "write the JSON to a file instead of stdout")
	return cmd
}
