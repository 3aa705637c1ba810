// Package optimizer solves for the plan values at which the savings target is
// reached: the annual rate the planned schedule needs, and the uniform monthly
// contribution the remaining months need on top of what was already saved.
package optimizer

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/format"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/iwvelando/savings-forecast/pkg/optimization"
	"github.com/iwvelando/savings-forecast/pkg/savings"
	"go.uber.org/zap"
)

type Runner struct {
	logger  *zap.Logger
	conf    *config.Configuration
	actuals savings.Actuals
	now     time.Time
}

type evaluation struct {
	value  float64
	final  float64
	target float64
}

func (e evaluation) feasible() bool {
	return e.final >= e.target
}

func (e evaluation) headroom() float64 {
	return e.final - e.target
}

// Result holds one summary per solved field in configuration order.
type Result struct {
	Summaries []optimization.Summary
}

// Empty indicates whether any field was solved.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches the summaries to a forecast.
func (r Result) Apply(f *forecast.Forecast) {
	if f == nil || len(r.Summaries) == 0 {
		return
	}
	f.Optimizations = append(f.Optimizations, r.Summaries...)
}

// NewRunner constructs a Runner for the plan in conf. actuals are read as of now.
func NewRunner(logger *zap.Logger, conf *config.Configuration, actuals savings.Actuals, now time.Time) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now.IsZero() {
		now = time.Now()
	}
	if err := conf.Optimizer.Validate(); err != nil {
		return nil, err
	}
	if conf.Plan.TargetCapital <= 0 {
		return nil, calcerr.InvalidParameter("target capital %v must be positive", conf.Plan.TargetCapital)
	}
	return &Runner{logger: logger, conf: conf, actuals: actuals, now: now}, nil
}

// Run solves every configured field.
func (r *Runner) Run() (*Result, error) {
	result := &Result{}
	for _, field := range r.conf.Optimizer.Fields {
		var (
			summary optimization.Summary
			err     error
		)
		switch field {
		case config.OptimizerFieldRate:
			summary, err = r.solveRate()
		case config.OptimizerFieldCatchUp:
			summary, err = r.solveCatchUp()
		default:
			err = fmt.Errorf("optimizer field %q is not supported", field)
		}
		if err != nil {
			return nil, fmt.Errorf("optimizer %s: %w", field, err)
		}
		result.Summaries = append(result.Summaries, summary)

		r.logger.Info("optimizer solved plan field",
			zap.String("op", "optimizer.Run"),
			zap.String("field", summary.Field),
			zap.Float64("original", summary.Original),
			zap.Float64("value", summary.Value),
			zap.Float64("final", summary.Final),
			zap.Float64("headroom", summary.Headroom),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}
	return result, nil
}

// solveRate finds the lowest annual rate at which the planned schedule ends
// at or above the target.
func (r *Runner) solveRate() (optimization.Summary, error) {
	plan := r.conf.Plan
	planned, err := savings.ExpandPlan(plan.YearlyContributions)
	if err != nil {
		return optimization.Summary{}, err
	}

	evaluate := func(ratePercent float64) evaluation {
		balances := savings.Simulate(mathutil.PercentToDecimal(ratePercent)/constants.MonthsPerYear, planned)
		return evaluation{value: ratePercent, final: balances[len(balances)-1], target: plan.TargetCapital}
	}

	eval, iterations := r.seek(config.OptimizerFieldRate, 0, plan.MaxAnnualRatePercent, evaluate)
	summary := optimization.Summary{
		Field:      config.OptimizerFieldRate,
		Original:   plan.AnnualRatePercent,
		Value:      eval.value,
		Target:     plan.TargetCapital,
		Final:      eval.final,
		Headroom:   eval.headroom(),
		Months:     len(planned),
		Iterations: iterations,
		Converged:  eval.feasible(),
	}
	switch {
	case !eval.feasible():
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"unable to reach %s within rates 0.00%% to %.2f%%", format.Currency(plan.TargetCapital), plan.MaxAnnualRatePercent))
	case iterations == 0:
		summary.Notes = append(summary.Notes, "the planned contributions reach the target without any return")
	}
	return summary, nil
}

// solveCatchUp finds the lowest uniform contribution for every month after
// the current one so that the actual balance ends at or above the target.
func (r *Runner) solveCatchUp() (optimization.Summary, error) {
	plan := r.conf.Plan
	start, err := plan.Start()
	if err != nil {
		return optimization.Summary{}, fmt.Errorf("parsing plan start %q: %w", plan.StartDate, err)
	}
	rate, err := savings.MonthlyRate(plan.AnnualRatePercent, plan.MaxAnnualRatePercent)
	if err != nil {
		return optimization.Summary{}, err
	}
	planned, err := savings.ExpandPlan(plan.YearlyContributions)
	if err != nil {
		return optimization.Summary{}, err
	}

	months := len(planned)
	current := forecast.CurrentMonthIndex(start, r.now, months)
	recorded := r.actuals.Sequence(months, current)
	remaining := months - 1 - current

	evaluate := func(amount float64) evaluation {
		schedule := make([]float64, months)
		copy(schedule, recorded)
		for k := current + 1; k < months; k++ {
			schedule[k] = amount
		}
		balances := savings.Simulate(rate, schedule)
		return evaluation{value: amount, final: balances[months-1], target: plan.TargetCapital}
	}

	summary := optimization.Summary{
		Field:  config.OptimizerFieldCatchUp,
		Target: plan.TargetCapital,
		Months: remaining,
	}

	if remaining == 0 {
		eval := evaluate(0)
		summary.Final = eval.final
		summary.Headroom = eval.headroom()
		summary.Converged = eval.feasible()
		summary.Notes = append(summary.Notes, "no months remain in the plan")
		return summary, nil
	}

	summary.Original = mathutil.Mean(planned[current+1:])
	eval, iterations := r.seek(config.OptimizerFieldCatchUp, 0, plan.ContributionCap, evaluate)
	summary.Value = eval.value
	summary.Final = eval.final
	summary.Headroom = eval.headroom()
	summary.Iterations = iterations
	summary.Converged = eval.feasible()
	switch {
	case !eval.feasible():
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"unable to reach %s within the %s monthly cap", format.Currency(plan.TargetCapital), format.Currency(plan.ContributionCap)))
	case iterations == 0:
		summary.Notes = append(summary.Notes, "the recorded balance reaches the target without further contributions")
	}
	return summary, nil
}

// seek bisects [minVal, maxVal] for the smallest feasible value of a
// non-decreasing evaluation. It returns the infeasible upper bound when no
// value in range is feasible.
func (r *Runner) seek(field string, minVal, maxVal float64, evaluate func(float64) evaluation) (evaluation, int) {
	cfg := r.conf.Optimizer
	tolerance := cfg.Tolerance(field)

	lowerEval := evaluate(minVal)
	if lowerEval.feasible() {
		return lowerEval, 0
	}
	upperEval := evaluate(maxVal)
	if !upperEval.feasible() {
		return upperEval, 0
	}

	iterations := 0
	finalEval := upperEval
	lower := minVal
	upper := maxVal
	for iterations < cfg.MaxIterations && math.Abs(upper-lower) > tolerance {
		mid := lower + (upper-lower)/2
		evalMid := evaluate(mid)
		iterations++
		if evalMid.feasible() {
			finalEval = evalMid
			if mid == upper {
				break
			}
			upper = mid
		} else {
			if mid == lower {
				break
			}
			lower = mid
		}
	}

	r.logger.Debug("optimizer bisection finished",
		zap.String("op", "optimizer.seek"),
		zap.String("field", field),
		zap.Float64("lower", lower),
		zap.Float64("upper", upper),
		zap.Int("iterations", iterations),
	)
	return finalEval, iterations
}

// Attach solves the configured fields for the plan behind f and appends the
// summaries to it.
func Attach(logger *zap.Logger, conf config.Configuration, actuals savings.Actuals, now time.Time, f *forecast.Forecast) error {
	runner, err := NewRunner(logger, &conf, actuals, now)
	if err != nil {
		return err
	}
	result, err := runner.Run()
	if err != nil {
		return err
	}
	result.Apply(f)
	return nil
}
