// Package analysis runs the per-asset pipeline: fetch history, fit the trend,
// compute CAGR and the moving average, and pass through the dividend yield.
package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/iwvelando/savings-forecast/internal/marketdata"
	"github.com/iwvelando/savings-forecast/pkg/metrics"
	"github.com/iwvelando/savings-forecast/pkg/series"
	"github.com/iwvelando/savings-forecast/pkg/trend"
	"go.uber.org/zap"
)

// Asset identifies one catalog entry.
type Asset struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Request describes one analysis.
type Request struct {
	Asset   Asset
	Period  marketdata.Period
	Window  int
	Horizon int // trading days to extend the trend past the data
}

// Report holds everything computed for one asset.
type Report struct {
	Asset         Asset              `json:"asset"`
	Period        marketdata.Period  `json:"period"`
	Window        int                `json:"window"`
	History       series.PriceSeries `json:"history"`
	Trend         trend.Result       `json:"trend"`
	CAGR          *float64           `json:"cagr"`
	TotalReturn   float64            `json:"totalReturn"`
	MovingAverage []*float64         `json:"movingAverage"`
	LatestAverage *float64           `json:"latestAverage"`
	LastClose     float64            `json:"lastClose"`
	LastDate      time.Time          `json:"lastDate"`
	DividendYield *float64           `json:"dividendYield"`
	Notes         []string           `json:"notes,omitempty"`
}

// Result pairs an asset with its report or the error that stopped it.
type Result struct {
	Asset  Asset   `json:"asset"`
	Report *Report `json:"report,omitempty"`
	Err    error   `json:"-"`
}

// Analyzer runs analyses against a provider.
type Analyzer struct {
	provider   marketdata.Provider
	forecaster *trend.Forecaster
	logger     *zap.Logger
}

// NewAnalyzer creates an analyzer. If logger is nil a no-op logger is used.
func NewAnalyzer(provider marketdata.Provider, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		provider:   provider,
		forecaster: trend.NewForecaster(logger),
		logger:     logger,
	}
}

// Analyze fetches history for one asset and derives the report.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (Report, error) {
	history, err := a.provider.History(ctx, req.Asset.Symbol, req.Period)
	if err != nil {
		return Report{}, fmt.Errorf("fetching %s history: %w", req.Asset.Symbol, err)
	}

	report, err := a.analyzeSeries(req, history)
	if err != nil {
		return Report{}, err
	}

	yield, err := a.provider.DividendYield(ctx, req.Asset.Symbol)
	if err != nil {
		a.logger.Warn("dividend yield unavailable",
			zap.String("op", "analysis.Analyze"),
			zap.String("symbol", req.Asset.Symbol),
			zap.Error(err),
		)
		report.Notes = append(report.Notes, "dividend yield unavailable")
	}
	report.DividendYield = yield

	return report, nil
}

func (a *Analyzer) analyzeSeries(req Request, history series.PriceSeries) (Report, error) {
	result, err := a.forecaster.Forecast(history, req.Horizon)
	if err != nil {
		return Report{}, fmt.Errorf("fitting %s trend: %w", req.Asset.Symbol, err)
	}

	averages, err := metrics.MovingAverage(history, req.Window)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Asset:         req.Asset,
		Period:        req.Period,
		Window:        req.Window,
		History:       history,
		Trend:         result,
		MovingAverage: averages,
		LastClose:     history.Last().Close,
		LastDate:      history.Last().Date,
	}

	if latest, ok := metrics.Latest(averages); ok {
		report.LatestAverage = &latest
	} else {
		report.Notes = append(report.Notes, fmt.Sprintf("moving average of %d is undefined for %d closes", req.Window, len(history)))
	}

	// CAGR failures are reported, not fatal: the trend is still useful.
	if cagr, err := metrics.CAGR(history); err == nil {
		report.CAGR = &cagr
	} else {
		report.Notes = append(report.Notes, fmt.Sprintf("CAGR unavailable: %v", err))
	}
	if total, err := metrics.TotalReturn(history); err == nil {
		report.TotalReturn = total
	}

	a.logger.Debug("asset analysed",
		zap.String("op", "analysis.Analyze"),
		zap.String("symbol", req.Asset.Symbol),
		zap.String("period", string(req.Period)),
		zap.Int("points", len(history)),
		zap.Float64("trendEnd", result.TrendEnd),
	)
	return report, nil
}

// AnalyzeAll analyses every asset concurrently. A failing asset records its
// error in its Result and does not affect the others. Results keep the order
// of assets.
func (a *Analyzer) AnalyzeAll(ctx context.Context, assets []Asset, period marketdata.Period, window, horizon int) []Result {
	results := make([]Result, len(assets))
	if len(assets) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(assets) {
		numWorkers = len(assets)
	}

	work := make(chan int, len(assets))
	for i := range assets {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				asset := assets[idx]
				report, err := a.Analyze(ctx, Request{Asset: asset, Period: period, Window: window, Horizon: horizon})
				if err != nil {
					a.logger.Warn("asset analysis failed",
						zap.String("op", "analysis.AnalyzeAll"),
						zap.String("symbol", asset.Symbol),
						zap.Error(err),
					)
					results[idx] = Result{Asset: asset, Err: err}
					continue
				}
				results[idx] = Result{Asset: asset, Report: &report}
			}
		}()
	}
	wg.Wait()

	return results
}
