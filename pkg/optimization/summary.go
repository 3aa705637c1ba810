// Package optimization provides shared data structures for goal-seek results.
package optimization

// Summary captures the result of solving for a single plan field.
type Summary struct {
	Field      string   `json:"field"`
	Original   float64  `json:"original"`
	Value      float64  `json:"value"`
	Target     float64  `json:"target"`
	Final      float64  `json:"final"`
	Headroom   float64  `json:"headroom"`
	Months     int      `json:"months,omitempty"` // months the solved value applies to
	Iterations int      `json:"iterations"`
	Converged  bool     `json:"converged"`
	Notes      []string `json:"notes,omitempty"`
}

// Reached reports whether the solved value reaches the target.
func (s Summary) Reached() bool {
	return s.Headroom >= 0
}
