package savings

import (
	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"go.uber.org/zap"
)

// Result holds the plan and actual balance series of one evaluation.
type Result struct {
	MonthlyRate float64   `json:"monthlyRate"`
	Plan        []float64 `json:"plan"`
	Actual      []float64 `json:"actual"`
}

// Simulator runs the plan and actual schedules side by side.
type Simulator struct {
	logger *zap.Logger
}

// NewSimulator creates a simulator with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewSimulator(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{logger: logger}
}

// Run simulates both schedules under the same monthly rate. The schedules
// must have equal length; future actual months are expected to be 0 already.
func (s *Simulator) Run(monthlyRate float64, plan, actual []float64) (Result, error) {
	if len(plan) != len(actual) {
		return Result{}, calcerr.InvalidParameter("plan has %d months but actual contributions have %d", len(plan), len(actual))
	}

	result := Result{
		MonthlyRate: monthlyRate,
		Plan:        Simulate(monthlyRate, plan),
		Actual:      Simulate(monthlyRate, actual),
	}

	if n := len(plan); n > 0 {
		s.logger.Debug("savings simulated",
			zap.String("op", "savings.Run"),
			zap.Int("months", n),
			zap.Float64("monthlyRate", monthlyRate),
			zap.Float64("planFinal", result.Plan[n-1]),
			zap.Float64("actualFinal", result.Actual[n-1]),
		)
	}
	return result, nil
}
