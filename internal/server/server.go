// Package server exposes the asset analysis and the savings plan tracker as a
// small JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/savings-forecast/internal/analysis"
	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/internal/marketdata"
	"github.com/iwvelando/savings-forecast/internal/optimizer"
	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/savings"
	"go.uber.org/zap"
)

// ActualsStore persists actual contributions.
type ActualsStore interface {
	SaveActual(month int, amount, limit float64) error
	DeleteActual(month int) error
	LoadActuals() (savings.Actuals, error)
}

// Options wires the handler's collaborators.
type Options struct {
	Logger      *zap.Logger
	Config      *config.Configuration
	Analyzer    *analysis.Analyzer
	Actuals     ActualsStore
	MaxBodySize int64
	Version     string
	Now         func() time.Time
}

type handler struct {
	logger      *zap.Logger
	conf        *config.Configuration
	analyzer    *analysis.Analyzer
	actuals     ActualsStore
	maxBodySize int64
	version     string
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the API.
func NewHandler(opts Options) http.Handler {
	h := &handler{
		logger:      opts.Logger,
		conf:        opts.Config,
		analyzer:    opts.Analyzer,
		actuals:     opts.Actuals,
		maxBodySize: opts.MaxBodySize,
		version:     strings.TrimSpace(opts.Version),
		now:         opts.Now,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.conf == nil {
		h.conf = config.Default()
	}
	if h.maxBodySize <= 0 {
		h.maxBodySize = constants.DefaultMaxBodySizeBytes
	}
	if h.version == "" {
		h.version = "dev"
	}
	if h.now == nil {
		h.now = time.Now
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/api/assets", h.handleAssets)
	mux.HandleFunc("/api/analysis", h.handleAnalysis)
	mux.HandleFunc("/api/plan", h.handlePlan)
	mux.HandleFunc("/api/plan/actuals", h.handleActuals)
	return mux
}

type assetResult struct {
	Asset  analysis.Asset   `json:"asset"`
	Report *analysis.Report `json:"report,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type actualRequest struct {
	Month  *int     `json:"month"`
	Amount *float64 `json:"amount"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w)
		return
	}
	h.writeJSON(w, http.StatusOK, h.conf.Assets)
}

func (h *handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalysis"
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w)
		return
	}
	if h.analyzer == nil {
		h.respondError(w, http.StatusServiceUnavailable, "market data is not configured", op)
		return
	}

	query := r.URL.Query()
	period, err := h.conf.Analysis.AnalysisPeriod()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("analysis.period: %v", err), op)
		return
	}
	if raw := query.Get("period"); raw != "" {
		parsed, err := marketdata.ParsePeriod(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		period = parsed
	}
	window, err := intParam(query.Get("window"), h.conf.Analysis.MovingAverageWindow)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("window: %v", err), op)
		return
	}
	horizon, err := intParam(query.Get("horizon"), h.conf.Analysis.ForecastHorizon)
	if err != nil || horizon < 0 {
		h.respondError(w, http.StatusBadRequest, "horizon must be a non-negative integer", op)
		return
	}

	if key := query.Get("asset"); key != "" {
		asset, ok := h.conf.FindAsset(key)
		if !ok {
			h.respondError(w, http.StatusNotFound, fmt.Sprintf("unknown asset %q", key), op)
			return
		}
		report, err := h.analyzer.Analyze(r.Context(), analysis.Request{
			Asset:   analysis.Asset{Name: asset.Name, Symbol: asset.Symbol},
			Period:  period,
			Window:  window,
			Horizon: horizon,
		})
		if err != nil {
			h.respondError(w, statusFor(err, http.StatusBadGateway), err.Error(), op)
			return
		}
		h.writeJSON(w, http.StatusOK, report)
		return
	}

	assets := make([]analysis.Asset, len(h.conf.Assets))
	for i, a := range h.conf.Assets {
		assets[i] = analysis.Asset{Name: a.Name, Symbol: a.Symbol}
	}
	results := h.analyzer.AnalyzeAll(r.Context(), assets, period, window, horizon)

	payload := make([]assetResult, len(results))
	for i, res := range results {
		payload[i] = assetResult{Asset: res.Asset, Report: res.Report}
		if res.Err != nil {
			payload[i].Error = res.Err.Error()
		}
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePlan"
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w)
		return
	}

	conf := *h.conf
	if raw := r.URL.Query().Get("rate"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("rate: %v", err), op)
			return
		}
		conf.Plan.AnnualRatePercent = rate
	}
	solve := false
	if raw := r.URL.Query().Get("solve"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("solve: %v", err), op)
			return
		}
		solve = parsed
	}

	h.writeForecast(w, conf, solve, op)
}

func (h *handler) handleActuals(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleActuals"
	if h.actuals == nil {
		h.respondError(w, http.StatusServiceUnavailable, "contribution store is not configured", op)
		return
	}

	switch r.Method {
	case http.MethodPut:
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
		var req actualRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.respondError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
				return
			}
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse request: %v", err), op)
			return
		}
		if req.Month == nil || req.Amount == nil {
			h.respondError(w, http.StatusBadRequest, "month and amount are required", op)
			return
		}
		if err := forecast.Editable(h.conf.Plan, *req.Month, h.now()); err != nil {
			h.respondError(w, statusFor(err, http.StatusBadRequest), err.Error(), op)
			return
		}
		if err := h.actuals.SaveActual(*req.Month, *req.Amount, h.conf.Plan.ContributionCap); err != nil {
			h.respondError(w, statusFor(err, http.StatusInternalServerError), err.Error(), op)
			return
		}
		h.logger.Info("actual contribution recorded",
			zap.String("op", op),
			zap.Int("month", *req.Month),
			zap.Float64("amount", *req.Amount),
		)

	case http.MethodDelete:
		month, err := strconv.Atoi(r.URL.Query().Get("month"))
		if err != nil || month < 0 {
			h.respondError(w, http.StatusBadRequest, "month must be a non-negative integer", op)
			return
		}
		if err := h.actuals.DeleteActual(month); err != nil {
			h.respondError(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		h.logger.Info("actual contribution cleared", zap.String("op", op), zap.Int("month", month))

	default:
		h.methodNotAllowed(w)
		return
	}

	h.writeForecast(w, *h.conf, false, op)
}

func (h *handler) writeForecast(w http.ResponseWriter, conf config.Configuration, solve bool, op string) {
	var actuals savings.Actuals
	if h.actuals != nil {
		loaded, err := h.actuals.LoadActuals()
		if err != nil {
			h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("loading actual contributions: %v", err), op)
			return
		}
		actuals = loaded
	}

	result, err := forecast.GetForecast(h.logger, conf, actuals, h.now())
	if err != nil {
		h.respondError(w, statusFor(err, http.StatusInternalServerError), err.Error(), op)
		return
	}
	if solve {
		if err := optimizer.Attach(h.logger, conf, actuals, h.now(), &result); err != nil {
			h.respondError(w, statusFor(err, http.StatusInternalServerError), err.Error(), op)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, result)
}

// statusFor maps an engine error kind to an HTTP status.
func statusFor(err error, fallback int) int {
	switch calcerr.Kind(err) {
	case calcerr.ErrInvalidParameter, calcerr.ErrInvalidData:
		return http.StatusBadRequest
	case calcerr.ErrInsufficientData, calcerr.ErrDegenerateRange:
		return http.StatusUnprocessableEntity
	}
	return fallback
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func (h *handler) methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode response", zap.String("op", "server.writeJSON"), zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
