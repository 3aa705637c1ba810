package main

import (
	"fmt"
	"strconv"

	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/pkg/datetime"
	"github.com/iwvelando/savings-forecast/pkg/format"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newActualsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actuals",
		Short: "Record, list and clear actual monthly contributions",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <month> <amount>",
			Short: "Record the contribution for a plan month (index or YYYY-MM)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				month, err := a.parseMonth(args[0])
				if err != nil {
					return err
				}
				amount, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("amount %q: %w", args[1], err)
				}
				if err := forecast.Editable(a.conf.Plan, month, a.now()); err != nil {
					return err
				}

				st, err := a.openStore()
				if err != nil {
					return err
				}
				defer func() { _ = st.Close() }()

				if err := st.SaveActual(month, amount, a.conf.Plan.ContributionCap); err != nil {
					return err
				}
				a.logger.Info("actual contribution recorded",
					zap.String("op", "main.actuals.set"),
					zap.Int("month", month),
					zap.Float64("amount", amount),
				)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List recorded contributions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				st, err := a.openStore()
				if err != nil {
					return err
				}
				defer func() { _ = st.Close() }()

				actuals, err := st.LoadActuals()
				if err != nil {
					return err
				}
				for _, month := range actuals.Months() {
					label, err := datetime.OffsetDate(a.conf.Plan.StartDate, datetime.DateTimeLayout, month)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%3d %s %s\n", month, label, format.Currency(actuals[month]))
				}
				return nil
			},
		},
		newActualsClearCommand(a),
	)
	return cmd
}

func newActualsClearCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear [month]",
		Short: "Remove the contribution recorded for a plan month, or every month with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return fmt.Errorf("a month or --all is required")
			}
			if len(args) == 1 && all {
				return fmt.Errorf("a month and --all are mutually exclusive")
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if all {
				if err := st.ClearActuals(); err != nil {
					return err
				}
				a.logger.Info("all actual contributions cleared", zap.String("op", "main.actuals.clear"))
				return nil
			}

			month, err := a.parseMonth(args[0])
			if err != nil {
				return err
			}
			return st.DeleteActual(month)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "clear every recorded month")
	return cmd
}
