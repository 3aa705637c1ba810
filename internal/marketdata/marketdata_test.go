package marketdata

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/savings-forecast/internal/store"
	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/series"
	"github.com/iwvelando/savings-forecast/pkg/testutil"
)

var pricesDir = filepath.Join("..", "..", "test", "prices")

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input    string
		expected Period
		wantErr  bool
	}{
		{"6mo", SixMonths, false},
		{"1Y", OneYear, false},
		{" 2y ", TwoYears, false},
		{"5y", FiveYears, false},
		{"3y", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePeriod(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePeriod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParsePeriod(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 8, 31, 15, 4, 5, 0, time.UTC)
	tests := []struct {
		period   Period
		expected time.Time
	}{
		{SixMonths, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)}, // Feb 31 normalizes
		{OneYear, time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)},
		{TwoYears, time.Date(2023, 8, 31, 0, 0, 0, 0, time.UTC)},
		{FiveYears, time.Date(2020, 8, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := tt.period.Start(now); !got.Equal(tt.expected) {
			t.Errorf("%s.Start() = %v, expected %v", tt.period, got, tt.expected)
		}
	}
}

func TestCSVProviderHistory(t *testing.T) {
	p := NewCSVProvider(pricesDir, nil)
	p.Now = func() time.Time { return time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC) }

	full, err := p.History(context.Background(), "test", FiveYears)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(full) != 30 {
		t.Fatalf("History() returned %d points, expected 30", len(full))
	}
	if err := full.Validate(); err != nil {
		t.Errorf("History() returned an invalid series: %v", err)
	}
	if full.Last().Close != 114.5 {
		t.Errorf("last close = %v, expected 114.5", full.Last().Close)
	}

	recent, err := p.History(context.Background(), "TEST", OneYear)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(recent) != 16 || recent.First().Close != 107 {
		t.Errorf("History(1y) = %d points starting at %v, expected 16 starting at 107", len(recent), recent.First().Close)
	}
}

func TestCSVProviderErrors(t *testing.T) {
	p := NewCSVProvider(pricesDir, nil)
	p.Now = func() time.Time { return time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC) }

	if _, err := p.History(context.Background(), "BROKEN", FiveYears); !errors.Is(err, calcerr.ErrInsufficientData) {
		t.Errorf("History(BROKEN) error = %v, expected ErrInsufficientData", err)
	}
	if _, err := p.History(context.Background(), "MISSING", FiveYears); err == nil {
		t.Errorf("History(MISSING) expected error")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "BAD.csv"), []byte("Day,Price\n2024-01-02,1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	p.Dir = dir
	if _, err := p.History(context.Background(), "BAD", FiveYears); err == nil || !strings.Contains(err.Error(), "header") {
		t.Errorf("History(BAD) error = %v, expected a header error", err)
	}

	yield, err := p.DividendYield(context.Background(), "TEST")
	if yield != nil || err != nil {
		t.Errorf("DividendYield() = %v, %v, expected nil, nil", yield, err)
	}
}

func TestReadClosesSkipsBlankCloses(t *testing.T) {
	dates, closes, err := readCloses(strings.NewReader("Date,Close\n2024-01-02,10\n2024-01-03,\n2024-01-04,11\n"))
	if err != nil {
		t.Fatalf("readCloses() error = %v", err)
	}
	if len(dates) != 2 || closes[1] != 11 {
		t.Errorf("readCloses() = %v %v, expected the blank close skipped", dates, closes)
	}
}

const chartBody = `{"chart":{"result":[{
  "timestamp":[1704205800,1704292200,1704378600,1704378700,1704465000],
  "events":{"dividends":{
    "1704292200":{"amount":0.5,"date":1704292200},
    "1672756200":{"amount":9.0,"date":1672756200}}},
  "indicators":{"quote":[{"close":[100.0,null,102.0,103.0,104.0]}]}}],
  "error":null}}`

func newChartServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/") {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("interval") != "1d" || r.URL.Query().Get("range") == "" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestYahooProviderHistory(t *testing.T) {
	server := newChartServer(t, chartBody, http.StatusOK)
	p := NewYahooProvider(server.URL+"/", time.Second, nil)

	history, err := p.History(context.Background(), "qqq", OneYear)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}

	// the null close is dropped and the two closes on 2024-01-04 collapse to the later one
	expected := []float64{100, 103, 104}
	if !testutil.SlicesWithin(history.Closes(), expected, 1e-9) {
		t.Errorf("History() closes = %v, expected %v", history.Closes(), expected)
	}
	if err := history.Validate(); err != nil {
		t.Errorf("History() returned an invalid series: %v", err)
	}
}

func TestYahooProviderDividendYield(t *testing.T) {
	server := newChartServer(t, chartBody, http.StatusOK)
	p := NewYahooProvider(server.URL, time.Second, nil)

	yield, err := p.DividendYield(context.Background(), "O")
	if err != nil {
		t.Fatalf("DividendYield() error = %v", err)
	}
	if yield == nil || math.Abs(*yield-0.5/104) > 1e-12 {
		t.Errorf("DividendYield() = %v, expected %v", yield, 0.5/104)
	}
}

func TestYahooProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		kind   error
	}{
		{
			name:   "API error",
			body:   `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`,
			status: http.StatusNotFound,
		},
		{
			name:   "Server error",
			body:   `oops`,
			status: http.StatusInternalServerError,
		},
		{
			name:   "Single close",
			body:   `{"chart":{"result":[{"timestamp":[1704205800,1704292200],"indicators":{"quote":[{"close":[100.0,null]}]}}],"error":null}}`,
			status: http.StatusOK,
			kind:   calcerr.ErrInsufficientData,
		},
		{
			name:   "Empty result",
			body:   `{"chart":{"result":[],"error":null}}`,
			status: http.StatusOK,
			kind:   calcerr.ErrInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newChartServer(t, tt.body, tt.status)
			p := NewYahooProvider(server.URL, time.Second, nil)

			_, err := p.History(context.Background(), "XYZ", OneYear)
			if err == nil {
				t.Fatalf("History() expected error but got none")
			}
			if tt.kind != nil && !errors.Is(err, tt.kind) {
				t.Errorf("History() error = %v, expected kind %v", err, tt.kind)
			}
		})
	}
}

type countingProvider struct {
	history series.PriceSeries
	yield   *float64
	calls   int
}

func (c *countingProvider) History(context.Context, string, Period) (series.PriceSeries, error) {
	c.calls++
	return c.history, nil
}

func (c *countingProvider) DividendYield(context.Context, string) (*float64, error) {
	c.calls++
	return c.yield, nil
}

func TestCachedProvider(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	yield := 0.03
	upstream := &countingProvider{
		history: testutil.LinearSeries(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 5, 1, 10),
		yield:   &yield,
	}
	p := NewCachedProvider(upstream, db, time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		history, err := p.History(ctx, "URTH", OneYear)
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(history) != 5 {
			t.Errorf("History() returned %d points, expected 5", len(history))
		}
	}
	if upstream.calls != 1 {
		t.Errorf("upstream called %d times for history, expected 1", upstream.calls)
	}

	if _, err := p.History(ctx, "URTH", TwoYears); err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if upstream.calls != 2 {
		t.Errorf("a different period should miss the cache, upstream calls = %d", upstream.calls)
	}

	for i := 0; i < 2; i++ {
		got, err := p.DividendYield(ctx, "URTH")
		if err != nil || got == nil || *got != yield {
			t.Errorf("DividendYield() = %v, %v, expected %v", got, err, yield)
		}
	}
	if upstream.calls != 3 {
		t.Errorf("upstream calls = %d, expected 3", upstream.calls)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantType string
		wantErr  bool
	}{
		{"Yahoo", Options{Provider: "yahoo"}, "*marketdata.YahooProvider", false},
		{"Default", Options{}, "*marketdata.YahooProvider", false},
		{"CSV", Options{Provider: "csv", CSVDir: pricesDir}, "*marketdata.CSVProvider", false},
		{"Unknown", Options{Provider: "bloomberg"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && fmt.Sprintf("%T", p) != tt.wantType {
				t.Errorf("New() = %T, expected %s", p, tt.wantType)
			}
		})
	}
}
