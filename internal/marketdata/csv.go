package marketdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/series"
	"go.uber.org/zap"
)

// CSVProvider reads history from <Dir>/<SYMBOL>.csv files with a Date,Close
// header. It is used offline and in tests.
type CSVProvider struct {
	Dir    string
	Now    func() time.Time
	logger *zap.Logger
}

// NewCSVProvider creates a provider rooted at dir.
func NewCSVProvider(dir string, logger *zap.Logger) *CSVProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVProvider{Dir: dir, Now: time.Now, logger: logger}
}

// History implements Provider.
func (p *CSVProvider) History(ctx context.Context, symbol string, period Period) (series.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.Dir, strings.ToUpper(symbol)+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening price file for %s: %w", symbol, err)
	}
	defer func() { _ = f.Close() }()

	dates, closes, err := readCloses(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	start := period.Start(p.Now())
	all := series.Normalize(dates, closes)
	history := all.Since(start)

	p.logger.Debug("loaded csv price history",
		zap.String("op", "marketdata.CSVProvider.History"),
		zap.String("symbol", symbol),
		zap.String("period", string(period)),
		zap.Int("rows", len(all)),
		zap.Int("points", len(history)),
	)

	if len(history) < constants.MinRegressionPoints {
		return nil, calcerr.InsufficientData("%s has %d closes in %s", symbol, len(history), period)
	}
	return history, nil
}

// DividendYield implements Provider. CSV files carry no dividend data.
func (p *CSVProvider) DividendYield(ctx context.Context, _ string) (*float64, error) {
	return nil, ctx.Err()
}

func readCloses(r io.Reader) ([]time.Time, []float64, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	dateCol, closeCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, nil, errors.New("header must contain Date and Close columns")
	}

	var dates []time.Time
	var closes []float64
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		date, err := time.Parse(constants.DayLayout, strings.TrimSpace(record[dateCol]))
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		value := strings.TrimSpace(record[closeCol])
		if value == "" {
			continue
		}
		closePrice, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		dates = append(dates, date)
		closes = append(closes, closePrice)
	}
	return dates, closes, nil
}
