package main

import (
	"errors"
	"fmt"

	"github.com/iwvelando/savings-forecast/internal/analysis"
	"github.com/iwvelando/savings-forecast/internal/marketdata"
	"github.com/iwvelando/savings-forecast/internal/store"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/output"
	"github.com/spf13/cobra"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	var (
		period  string
		window  int
		horizon int
	)

	cmd := &cobra.Command{
		Use:   "analyze [asset...]",
		Short: "Fit trends and compute CAGR and moving averages for catalog assets",
		Long:  "Analyze the named assets (display name or symbol), or every catalog asset when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("period") {
				period = a.conf.Analysis.Period
			}
			p, err := marketdata.ParsePeriod(period)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("window") {
				window = a.conf.Analysis.MovingAverageWindow
			}
			if !cmd.Flags().Changed("horizon") {
				horizon = a.conf.Analysis.ForecastHorizon
			}
			if horizon < 0 {
				return fmt.Errorf("horizon %d must not be negative", horizon)
			}

			var assets []analysis.Asset
			if len(args) == 0 {
				for _, asset := range a.conf.Assets {
					assets = append(assets, analysis.Asset{Name: asset.Name, Symbol: asset.Symbol})
				}
			}
			for _, key := range args {
				asset, ok := a.conf.FindAsset(key)
				if !ok {
					return fmt.Errorf("unknown asset %q", key)
				}
				assets = append(assets, analysis.Asset{Name: asset.Name, Symbol: asset.Symbol})
			}

			var st *store.Store
			if !a.conf.MarketData.DisableCache {
				if st = a.optionalStore("main.analyze"); st != nil {
					defer func() { _ = st.Close() }()
				}
			}
			provider, err := a.provider(st)
			if err != nil {
				return err
			}

			results := analysis.NewAnalyzer(provider, a.logger).AnalyzeAll(cmd.Context(), assets, p, window, horizon)

			out := cmd.OutOrStdout()
			switch a.outputFormat {
			case constants.OutputFormatCSV:
				output.CsvAnalysis(out, results)
			default:
				output.PrettyAnalysis(out, results)
			}

			for _, r := range results {
				if r.Err == nil {
					return nil
				}
			}
			return errors.New("no asset could be analysed")
		},
	}

	cmd.Flags().StringVar(&period, "period", constants.DefaultPeriod, "lookback period: 6mo, 1y, 2y, 5y")
	cmd.Flags().IntVar(&window, "window", constants.DefaultMovingAverageWindow, "moving average window in trading days")
	cmd.Flags().IntVar(&horizon, "horizon", constants.DefaultForecastHorizon, "trading days to extend the trend past the data")
	return cmd
}
