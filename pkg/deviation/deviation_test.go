package deviation

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/savings-forecast/pkg/calcerr"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		actual    float64
		plan      float64
		threshold float64
		expected  Status
	}{
		{"Ahead", 600, 0, 500, Ahead},
		{"Equal balances", 0, 0, 500, OnTrack},
		{"Behind", -600, 0, 500, Behind},
		{"Upper boundary is inclusive", 500, 0, 500, OnTrack},
		{"Lower boundary is inclusive", -500, 0, 500, OnTrack},
		{"Just above upper boundary", 10500.01, 10000, 500, Ahead},
		{"Just below lower boundary", 9499.99, 10000, 500, Behind},
		{"Zero threshold ahead", 0.01, 0, 0, Ahead},
		{"Zero threshold equal", 42, 42, 0, OnTrack},
		{"Negative threshold treated as magnitude", 400, 0, -500, OnTrack},
		{"Infinite actual", math.Inf(1), 0, 500, Ahead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Classify(tt.actual, tt.plan, tt.threshold); result != tt.expected {
				t.Errorf("Classify(%v, %v, %v) = %v, expected %v", tt.actual, tt.plan, tt.threshold, result, tt.expected)
			}
		})
	}
}

func TestClassifyDefault(t *testing.T) {
	if ClassifyDefault(600, 0) != Ahead || ClassifyDefault(0, 0) != OnTrack || ClassifyDefault(-600, 0) != Behind {
		t.Errorf("ClassifyDefault() does not use a threshold of 500")
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		actual   float64
		target   float64
		expected float64
	}{
		{"Quarter way", 25000, 100000, 0.25},
		{"Complete", 100000, 100000, 1},
		{"Overshoot clamps", 150000, 100000, 1},
		{"Negative clamps", -10, 100000, 0},
		{"Nothing saved", 0, 100000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Progress(tt.actual, tt.target)
			if err != nil {
				t.Fatalf("Progress() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("Progress(%v, %v) = %v, expected %v", tt.actual, tt.target, result, tt.expected)
			}
		})
	}

	for _, target := range []float64{0, -1, math.NaN()} {
		if _, err := Progress(100, target); !errors.Is(err, calcerr.ErrInvalidParameter) {
			t.Errorf("Progress(100, %v) error = %v, expected invalid parameter", target, err)
		}
	}
}

func TestClassifier(t *testing.T) {
	c, err := NewClassifier(250)
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}
	if c.Classify(300, 0) != Ahead || c.Threshold() != 250 {
		t.Errorf("Classifier does not apply its threshold")
	}
	if _, err := NewClassifier(-1); !errors.Is(err, calcerr.ErrInvalidParameter) {
		t.Errorf("NewClassifier(-1) error = %v, expected invalid parameter", err)
	}
}

func TestStatusText(t *testing.T) {
	payload, err := json.Marshal(map[string]Status{"status": Behind})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(payload) != `{"status":"behind"}` {
		t.Errorf("json.Marshal() = %s, expected behind label", payload)
	}

	var decoded map[string]Status
	if err := json.Unmarshal([]byte(`{"status":"on track"}`), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded["status"] != OnTrack {
		t.Errorf("decoded status = %v, expected on track", decoded["status"])
	}

	if Status(9).String() != "Status(9)" {
		t.Errorf("unknown status string = %q", Status(9).String())
	}
}
