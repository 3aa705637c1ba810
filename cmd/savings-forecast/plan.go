package main

import (
	"fmt"

	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/internal/optimizer"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/output"
	"github.com/iwvelando/savings-forecast/pkg/savings"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPlanCommand(a *app) *cobra.Command {
	var (
		rate  float64
		solve bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compare the savings plan with recorded contributions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := *a.conf
			if cmd.Flags().Changed("rate") {
				conf.Plan.AnnualRatePercent = rate
			}

			actuals := savings.Actuals{}
			if st, err := a.openStore(); err == nil {
				defer func() { _ = st.Close() }()
				if actuals, err = st.LoadActuals(); err != nil {
					return err
				}
			} else {
				a.logger.Debug("no contribution store, showing the plan alone",
					zap.String("op", "main.plan"),
					zap.Error(err),
				)
			}

			now := a.now()
			result, err := forecast.GetForecast(a.logger, conf, actuals, now)
			if err != nil {
				return err
			}
			if solve {
				if err := optimizer.Attach(a.logger, conf, actuals, now, &result); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			switch a.outputFormat {
			case constants.OutputFormatCSV:
				output.CsvPlan(out, result)
				if len(result.Optimizations) > 0 {
					_, _ = fmt.Fprintln(out)
					output.CsvOptimizations(out, result.Optimizations)
				}
			default:
				output.PrettyPlan(out, result)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&rate, "rate", constants.DefaultAnnualRatePercent, "assumed annual return in percent")
	cmd.Flags().BoolVar(&solve, "solve", false, "solve for the rate and the monthly contribution that reach the target")
	return cmd
}
