// Package deviation classifies how far the actual savings balance is from the
// planned balance at the same month.
package deviation

import (
	"fmt"
	"math"

	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
)

// Status is the three-level progress label.
type Status int

const (
	// OnTrack means the actual balance is within the threshold band of the plan.
	OnTrack Status = iota
	// Ahead means the actual balance exceeds the plan by more than the threshold.
	Ahead
	// Behind means the actual balance trails the plan by more than the threshold.
	Behind
)

var statusNames = map[Status]string{
	OnTrack: "on track",
	Ahead:   "ahead",
	Behind:  "behind",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText encodes the status as its label.
func (s Status) MarshalText() ([]byte, error) {
	if _, ok := statusNames[s]; !ok {
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a label produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", string(text))
}

// Classify labels actual - plan against a symmetric band of +/- threshold.
// Both band edges count as on track.
func Classify(actualBalance, planBalance, threshold float64) Status {
	t := math.Abs(threshold)
	diff := actualBalance - planBalance
	switch {
	case diff > t:
		return Ahead
	case diff < -t:
		return Behind
	default:
		return OnTrack
	}
}

// ClassifyDefault uses the product's threshold of 500 currency units.
func ClassifyDefault(actualBalance, planBalance float64) Status {
	return Classify(actualBalance, planBalance, constants.DefaultDeviationThreshold)
}

// Progress returns actual/target clamped to [0, 1] for display as a
// completion fraction.
func Progress(actualBalance, targetCapital float64) (float64, error) {
	if !mathutil.IsFinite(targetCapital) || targetCapital <= 0 {
		return 0, calcerr.InvalidParameter("target capital %v must be positive", targetCapital)
	}
	return mathutil.Clamp(actualBalance/targetCapital, 0, 1), nil
}

// Classifier holds a validated threshold.
type Classifier struct {
	threshold float64
}

// NewClassifier rejects negative or non-finite thresholds.
func NewClassifier(threshold float64) (*Classifier, error) {
	if !mathutil.IsFinite(threshold) || threshold < 0 {
		return nil, calcerr.InvalidParameter("deviation threshold %v must be a non-negative number", threshold)
	}
	return &Classifier{threshold: threshold}, nil
}

// Threshold returns the configured band half-width.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Classify labels actual against plan with the configured threshold.
func (c *Classifier) Classify(actualBalance, planBalance float64) Status {
	return Classify(actualBalance, planBalance, c.threshold)
}
