// Package store provides a SQLite-backed store for cached price history and
// the actual contributions entered against a savings plan.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/savings"
	"github.com/iwvelando/savings-forecast/pkg/series"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotCached is returned when no fresh cache entry exists.
var ErrNotCached = errors.New("not cached")

// Store wraps the sqlite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetClock replaces the time source used for cache timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// SavePrices replaces the cached history for symbol and period.
func (s *Store) SavePrices(symbol, period string, history series.PriceSeries) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM price_cache WHERE symbol = ? AND period = ?", symbol, period); err != nil {
		return err
	}

	fetched := s.now().UTC().Format(time.RFC3339)
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO price_cache
		(symbol, period, trade_date, close, fetched_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range history {
		if _, err := stmt.Exec(symbol, period, p.Date.UTC().Format(constants.DayLayout), p.Close, fetched); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadPrices returns cached history fetched within ttl, or ErrNotCached.
func (s *Store) LoadPrices(symbol, period string, ttl time.Duration) (series.PriceSeries, error) {
	rows, err := s.db.Query(`SELECT trade_date, close, fetched_at FROM price_cache
		WHERE symbol = ? AND period = ? ORDER BY trade_date`, symbol, period)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cutoff := s.now().Add(-ttl)
	var history series.PriceSeries
	for rows.Next() {
		var day, fetchedAt string
		var p series.PricePoint
		if err := rows.Scan(&day, &p.Close, &fetchedAt); err != nil {
			return nil, err
		}
		fetched, err := time.Parse(time.RFC3339, fetchedAt)
		if err != nil || fetched.Before(cutoff) {
			return nil, ErrNotCached
		}
		if p.Date, err = time.Parse(constants.DayLayout, day); err != nil {
			return nil, fmt.Errorf("cached trade date %q: %w", day, err)
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrNotCached
	}
	return history, nil
}

// SaveDividendYield caches a trailing dividend yield; nil records "no dividends".
func (s *Store) SaveDividendYield(symbol string, yield *float64) error {
	var value sql.NullFloat64
	if yield != nil {
		value = sql.NullFloat64{Float64: *yield, Valid: true}
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO dividend_cache (symbol, yield, fetched_at) VALUES (?, ?, ?)`,
		symbol, value, s.now().UTC().Format(time.RFC3339))
	return err
}

// LoadDividendYield returns a cached yield fetched within ttl, or ErrNotCached.
func (s *Store) LoadDividendYield(symbol string, ttl time.Duration) (*float64, error) {
	var value sql.NullFloat64
	var fetchedAt string
	err := s.db.QueryRow("SELECT yield, fetched_at FROM dividend_cache WHERE symbol = ?", symbol).Scan(&value, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}
	fetched, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil || fetched.Before(s.now().Add(-ttl)) {
		return nil, ErrNotCached
	}
	if !value.Valid {
		return nil, nil
	}
	yield := value.Float64
	return &yield, nil
}

// SaveActual validates and records the actual contribution for a plan month.
func (s *Store) SaveActual(month int, amount, limit float64) error {
	if err := savings.ValidateContribution(month, amount, limit); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO actual_contributions (month_index, amount, updated_at) VALUES (?, ?, ?)`,
		month, amount, s.now().UTC().Format(time.RFC3339))
	return err
}

// DeleteActual removes the entry for a plan month. Deleting a missing entry is not an error.
func (s *Store) DeleteActual(month int) error {
	_, err := s.db.Exec("DELETE FROM actual_contributions WHERE month_index = ?", month)
	return err
}

// ClearActuals removes every recorded contribution.
func (s *Store) ClearActuals() error {
	_, err := s.db.Exec("DELETE FROM actual_contributions")
	return err
}

// LoadActuals reads all recorded contributions.
func (s *Store) LoadActuals() (savings.Actuals, error) {
	rows, err := s.db.Query("SELECT month_index, amount FROM actual_contributions ORDER BY month_index")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	actuals := make(savings.Actuals)
	for rows.Next() {
		var month int
		var amount float64
		if err := rows.Scan(&month, &amount); err != nil {
			return nil, err
		}
		actuals[month] = amount
	}
	return actuals, rows.Err()
}
