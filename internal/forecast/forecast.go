// Package forecast compares the planned savings trajectory with the actual
// contributions recorded so far.
package forecast

import (
	"fmt"
	"time"

	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/datetime"
	"github.com/iwvelando/savings-forecast/pkg/deviation"
	"github.com/iwvelando/savings-forecast/pkg/optimization"
	"github.com/iwvelando/savings-forecast/pkg/savings"
	"go.uber.org/zap"
)

// Forecast holds the plan and actual balance trajectories and the status of
// the latest elapsed month.
type Forecast struct {
	StartDate            string                 `json:"startDate"`
	Months               []string               `json:"months"`
	AnnualRatePercent    float64                `json:"annualRatePercent"`
	MonthlyRate          float64                `json:"monthlyRate"`
	PlannedContributions []float64              `json:"plannedContributions"`
	ActualContributions  []float64              `json:"actualContributions"`
	Plan                 []float64              `json:"plan"`
	Actual               []float64              `json:"actual"` // elapsed months only
	CurrentMonth         int                    `json:"currentMonth"`
	Status               deviation.Status       `json:"status"`
	PlanBalance          float64                `json:"planBalance"`
	ActualBalance        float64                `json:"actualBalance"`
	Deviation            float64                `json:"deviation"`
	Threshold            float64                `json:"threshold"`
	TargetCapital        float64                `json:"targetCapital"`
	Progress             float64                `json:"progress"`
	PlannedFinal         float64                `json:"plannedFinal"`
	Notes                []string               `json:"notes,omitempty"`
	Optimizations        []optimization.Summary `json:"optimizations,omitempty"`
}

// Started reports whether at least one plan month has elapsed.
func (f Forecast) Started() bool {
	return f.CurrentMonth >= 0
}

// CurrentMonthIndex is the 0-based plan month containing now. It is -1 before
// the plan starts and the last index once the plan has ended.
func CurrentMonthIndex(start, now time.Time, months int) int {
	idx := datetime.MonthIndex(start, now)
	if idx < 0 {
		return -1
	}
	if idx >= months {
		return months - 1
	}
	return idx
}

// Editable reports whether month may hold an actual contribution at now.
// Months after the current calendar month are locked.
func Editable(plan config.PlanConfig, month int, now time.Time) error {
	start, err := plan.Start()
	if err != nil {
		return err
	}
	months := plan.Months()
	if month < 0 || month >= months {
		return calcerr.InvalidParameter("month %d is outside the %d month plan", month, months)
	}
	if current := CurrentMonthIndex(start, now, months); month > current {
		return calcerr.InvalidParameter("month %d is locked until %s", month, start.AddDate(0, month, 0).Format(config.DateTimeLayout))
	}
	return nil
}

// GetForecast simulates the plan and the recorded actuals at the configured
// rate and classifies the latest elapsed month.
func GetForecast(logger *zap.Logger, conf config.Configuration, actuals savings.Actuals, now time.Time) (Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	plan := conf.Plan
	start, err := plan.Start()
	if err != nil {
		return Forecast{}, fmt.Errorf("parsing plan start %q: %w", plan.StartDate, err)
	}
	rate, err := savings.MonthlyRate(plan.AnnualRatePercent, plan.MaxAnnualRatePercent)
	if err != nil {
		return Forecast{}, err
	}
	planned, err := savings.ExpandPlan(plan.YearlyContributions)
	if err != nil {
		return Forecast{}, err
	}
	classifier, err := deviation.NewClassifier(plan.DeviationThreshold)
	if err != nil {
		return Forecast{}, err
	}
	if plan.TargetCapital <= 0 {
		return Forecast{}, calcerr.InvalidParameter("target capital %v must be positive", plan.TargetCapital)
	}

	months := len(planned)
	labels, err := datetime.MonthLabels(plan.StartDate, months)
	if err != nil {
		return Forecast{}, err
	}

	current := CurrentMonthIndex(start, now, months)
	contributions := actuals.Sequence(months, current)
	for _, month := range actuals.Months() {
		if month >= months || month > current {
			logger.Debug(fmt.Sprintf("ignoring actual contribution for locked month %d", month),
				zap.String("op", "forecast.GetForecast"),
			)
		}
	}

	result, err := savings.NewSimulator(logger).Run(rate, planned, contributions)
	if err != nil {
		return Forecast{}, err
	}

	f := Forecast{
		StartDate:            plan.StartDate,
		Months:               labels,
		AnnualRatePercent:    plan.AnnualRatePercent,
		MonthlyRate:          rate,
		PlannedContributions: planned,
		ActualContributions:  contributions,
		Plan:                 result.Plan,
		Actual:               result.Actual[:current+1],
		CurrentMonth:         current,
		Status:               deviation.OnTrack,
		Threshold:            classifier.Threshold(),
		TargetCapital:        plan.TargetCapital,
		PlannedFinal:         result.Plan[months-1],
	}

	if !f.Started() {
		f.Notes = append(f.Notes, fmt.Sprintf("plan starts in %s", plan.StartDate))
		return f, nil
	}

	f.PlanBalance = result.Plan[current]
	f.ActualBalance = result.Actual[current]
	f.Deviation = f.ActualBalance - f.PlanBalance
	f.Status = classifier.Classify(f.ActualBalance, f.PlanBalance)
	if f.Progress, err = deviation.Progress(f.ActualBalance, plan.TargetCapital); err != nil {
		return Forecast{}, err
	}
	if f.PlannedFinal < plan.TargetCapital {
		f.Notes = append(f.Notes, fmt.Sprintf("the plan ends below the target at %.2f%% a year", plan.AnnualRatePercent))
	}

	logger.Debug("plan forecast computed",
		zap.String("op", "forecast.GetForecast"),
		zap.Int("currentMonth", current),
		zap.Float64("planBalance", f.PlanBalance),
		zap.Float64("actualBalance", f.ActualBalance),
		zap.String("status", f.Status.String()),
	)
	return f, nil
}
