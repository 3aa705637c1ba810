package config

import (
	"fmt"
	"strings"
)

const (
	OptimizerFieldRate    = "rate"
	OptimizerFieldCatchUp = "catchUp"

	defaultToleranceRate   = 0.001
	defaultToleranceAmount = 0.01
	defaultMaxIterations   = 60
)

// OptimizerConfig tunes the goal seek that solves for the value of one plan
// field at which the target capital is reached.
type OptimizerConfig struct {
	Fields          []string `yaml:"fields,omitempty" mapstructure:"fields"`
	RateTolerance   float64  `yaml:"rateTolerance,omitempty" mapstructure:"rateTolerance"`     // percentage points
	AmountTolerance float64  `yaml:"amountTolerance,omitempty" mapstructure:"amountTolerance"` // currency units
	MaxIterations   int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerField returns the canonical identifier for an optimizer field.
func CanonicalOptimizerField(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "rate", "annualrate", "annual_rate", "annual-rate":
		return OptimizerFieldRate
	case "catchup", "catch_up", "catch-up", "contribution":
		return OptimizerFieldCatchUp
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize applies defaults and canonical field names.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	if len(o.Fields) == 0 {
		o.Fields = []string{OptimizerFieldRate, OptimizerFieldCatchUp}
	}
	for i, field := range o.Fields {
		o.Fields[i] = CanonicalOptimizerField(field)
	}
	if o.RateTolerance <= 0 {
		o.RateTolerance = defaultToleranceRate
	}
	if o.AmountTolerance <= 0 {
		o.AmountTolerance = defaultToleranceAmount
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Tolerance returns the convergence width for field.
func (o OptimizerConfig) Tolerance(field string) float64 {
	if field == OptimizerFieldRate {
		return o.RateTolerance
	}
	return o.AmountTolerance
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	seen := make(map[string]bool, len(o.Fields))
	for _, field := range o.Fields {
		switch field {
		case OptimizerFieldRate, OptimizerFieldCatchUp:
		default:
			return fmt.Errorf("optimizer field %q is not supported", field)
		}
		if seen[field] {
			return fmt.Errorf("optimizer field %q is listed twice", field)
		}
		seen[field] = true
	}
	return nil
}
