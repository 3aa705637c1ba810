package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/series"
	"go.uber.org/zap"
)

// YahooProvider reads daily history from the Yahoo Finance chart API.
type YahooProvider struct {
	BaseURL string
	Client  *http.Client
	logger  *zap.Logger
}

// NewYahooProvider creates a provider for baseURL with a per-request timeout.
func NewYahooProvider(baseURL string, timeout time.Duration, logger *zap.Logger) *YahooProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseURL == "" {
		baseURL = constants.DefaultYahooBaseURL
	}
	return &YahooProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp []int64 `json:"timestamp"`
	Events    struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
	} `json:"events"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

func (p *YahooProvider) chart(ctx context.Context, symbol string, period Period) (*chartResult, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.BaseURL, url.PathEscape(strings.ToUpper(symbol)),
		url.Values{"range": {string(period)}, "interval": {"1d"}, "events": {"div"}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "savings-forecast")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s history: %w", symbol, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s history: %w", symbol, err)
	}

	var decoded chartResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("chart API returned %s for %s", resp.Status, symbol)
		}
		return nil, fmt.Errorf("decoding %s history: %w", symbol, err)
	}
	if decoded.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s: %s", symbol, decoded.Chart.Error.Code, decoded.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API returned %s for %s", resp.Status, symbol)
	}
	if len(decoded.Chart.Result) == 0 {
		return nil, calcerr.InsufficientData("no chart data for %s", symbol)
	}
	return &decoded.Chart.Result[0], nil
}

func (r *chartResult) series() series.PriceSeries {
	var dates []time.Time
	var closes []float64
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	raw := r.Indicators.Quote[0].Close
	for i, ts := range r.Timestamp {
		if i >= len(raw) || raw[i] == nil {
			continue
		}
		dates = append(dates, time.Unix(ts, 0).UTC())
		closes = append(closes, *raw[i])
	}
	return series.Normalize(dates, closes)
}

// History implements Provider.
func (p *YahooProvider) History(ctx context.Context, symbol string, period Period) (series.PriceSeries, error) {
	result, err := p.chart(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	history := result.series()
	p.logger.Debug("fetched price history",
		zap.String("op", "marketdata.YahooProvider.History"),
		zap.String("symbol", symbol),
		zap.String("period", string(period)),
		zap.Int("timestamps", len(result.Timestamp)),
		zap.Int("points", len(history)),
	)

	if len(history) < constants.MinRegressionPoints {
		return nil, calcerr.InsufficientData("%s returned %d usable closes for %s", symbol, len(history), period)
	}
	return history, nil
}

// DividendYield implements Provider: the dividends paid in the twelve months
// before the last close, divided by that close.
func (p *YahooProvider) DividendYield(ctx context.Context, symbol string) (*float64, error) {
	result, err := p.chart(ctx, symbol, OneYear)
	if err != nil {
		return nil, err
	}

	history := result.series()
	if len(history) == 0 || history.Last().Close <= 0 {
		return nil, nil
	}

	last := history.Last()
	cutoff := last.Date.AddDate(-1, 0, 0)
	total := 0.0
	for _, div := range result.Events.Dividends {
		paid := time.Unix(div.Date, 0).UTC()
		if paid.After(cutoff) && !paid.After(last.Date.AddDate(0, 0, 1)) {
			total += div.Amount
		}
	}

	yield := total / last.Close
	return &yield, nil
}
