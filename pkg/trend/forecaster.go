package trend

import (
	"github.com/iwvelando/savings-forecast/pkg/series"
	"go.uber.org/zap"
)

// Result bundles everything derived from one fit.
type Result struct {
	Model      Model           `json:"model"`
	Fitted     []ForecastPoint `json:"fitted"`
	TrendEnd   float64         `json:"trendEnd"`
	Projection []ForecastPoint `json:"projection,omitempty"`
}

// Forecaster fits and evaluates trend models.
type Forecaster struct {
	logger *zap.Logger
}

// NewForecaster creates a forecaster with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewForecaster(logger *zap.Logger) *Forecaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forecaster{logger: logger}
}

// Forecast fits s and returns the fitted line, the trend-end estimate and a
// projection of horizon trading days.
func (f *Forecaster) Forecast(s series.PriceSeries, horizon int) (Result, error) {
	model, err := Fit(s)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Model:      model,
		Fitted:     Predict(model, s),
		TrendEnd:   model.TrendEnd(len(s)),
		Projection: Extrapolate(model, s, horizon),
	}

	f.logger.Debug("trend fitted",
		zap.String("op", "trend.Forecast"),
		zap.Int("points", len(s)),
		zap.Float64("slope", model.Slope),
		zap.Float64("intercept", model.Intercept),
		zap.Float64("trendEnd", result.TrendEnd),
	)
	return result, nil
}
