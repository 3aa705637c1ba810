// Package output provides utilities for formatting and displaying plan
// forecasts and asset analyses.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/savings-forecast/internal/analysis"
	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/pkg/deviation"
	"github.com/iwvelando/savings-forecast/pkg/format"
	"github.com/iwvelando/savings-forecast/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	aheadStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E"))
	onTrackStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	behindStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
)

// StatusBadge renders a deviation status for the terminal.
func StatusBadge(status deviation.Status) string {
	label := strings.ToUpper(status.String())
	switch status {
	case deviation.Ahead:
		return aheadStyle.Render(label)
	case deviation.Behind:
		return behindStyle.Render(label)
	default:
		return onTrackStyle.Render(label)
	}
}

// PrettyPlan outputs a human-readable table of the plan against actuals.
func PrettyPlan(w io.Writer, f forecast.Forecast) {
	p := message.NewPrinter(language.English)

	_, _ = p.Fprintf(w, "--- Savings plan from %s at %.2f%% a year ---\n", f.StartDate, f.AnnualRatePercent)
	_, _ = fmt.Fprintf(w, "Month   | Planned     | Actual      | Plan Balance    | Actual Balance\n")
	_, _ = fmt.Fprintf(w, "_____   | ___________ | ___________ | _______________ | ______________\n")
	for i, month := range f.Months {
		actual, actualBalance := "", ""
		if i < len(f.Actual) {
			actual = format.Currency(f.ActualContributions[i])
			actualBalance = format.Currency(f.Actual[i])
		}
		_, _ = fmt.Fprintf(w, "%s | %11s | %11s | %15s | %s\n",
			month, format.Currency(f.PlannedContributions[i]), actual, format.Currency(f.Plan[i]), actualBalance)
	}

	_, _ = fmt.Fprintln(w)
	if !f.Started() {
		_, _ = fmt.Fprintf(w, "Status: %s (plan has not started)\n", StatusBadge(f.Status))
	} else {
		_, _ = fmt.Fprintf(w, "Status: %s in %s, %s against a band of %s\n",
			StatusBadge(f.Status), f.Months[f.CurrentMonth], signedCurrency(f.Deviation), format.Currency(f.Threshold))
		_, _ = fmt.Fprintf(w, "Balance: %s actual vs %s planned\n", format.Currency(f.ActualBalance), format.Currency(f.PlanBalance))
	}
	_, _ = fmt.Fprintf(w, "Progress: %s of the %s target (plan ends at %s)\n",
		format.Percent(f.Progress), format.Currency(f.TargetCapital), format.Currency(f.PlannedFinal))
	for _, note := range f.Notes {
		_, _ = fmt.Fprintf(w, "Note: %s\n", note)
	}
	if len(f.Optimizations) > 0 {
		_, _ = fmt.Fprintln(w)
		PrettyOptimizations(w, f.Optimizations)
	}
}

// PrettyOptimizations outputs the goal-seek summaries one line each.
func PrettyOptimizations(w io.Writer, summaries []optimization.Summary) {
	p := message.NewPrinter(language.English)

	_, _ = fmt.Fprintf(w, "--- Reaching the target ---\n")
	for _, s := range summaries {
		switch s.Field {
		case config.OptimizerFieldRate:
			_, _ = fmt.Fprintf(w, "Rate needed:     %.3f%% a year (assumed %.2f%%)", s.Value, s.Original)
		default:
			_, _ = p.Fprintf(w, "Monthly needed:  %s for the remaining %d months (planned %s)",
				format.Currency(s.Value), s.Months, format.Currency(s.Original))
		}
		verdict := "reaches"
		if !s.Reached() {
			verdict = "falls short at"
		}
		_, _ = fmt.Fprintf(w, ", %s %s\n", verdict, format.Currency(s.Final))
		for _, note := range s.Notes {
			_, _ = fmt.Fprintf(w, "Note: %s\n", note)
		}
	}
}

// CsvOptimizations outputs the goal-seek summaries in comma-separated value format.
func CsvOptimizations(w io.Writer, summaries []optimization.Summary) {
	_, _ = fmt.Fprintf(w, `"field","original","value","months","final","target","headroom","iterations","converged"`+"\n")
	for _, s := range summaries {
		_, _ = fmt.Fprintf(w, `"%s","%s","%s","%d","%s","%s","%s","%d","%t"`+"\n",
			s.Field, format.Amount(s.Original), fmt.Sprintf("%.4f", s.Value), s.Months,
			format.Amount(s.Final), format.Amount(s.Target), format.Amount(s.Headroom), s.Iterations, s.Converged)
	}
}

// CsvPlan outputs the plan in comma-separated value format. Actual columns
// are empty for months that have not elapsed.
func CsvPlan(w io.Writer, f forecast.Forecast) {
	_, _ = fmt.Fprintf(w, `"month","planned contribution","actual contribution","plan balance","actual balance"`+"\n")
	for i, month := range f.Months {
		actual, actualBalance := "", ""
		if i < len(f.Actual) {
			actual = format.Amount(f.ActualContributions[i])
			actualBalance = format.Amount(f.Actual[i])
		}
		_, _ = fmt.Fprintf(w, `"%s","%s","%s","%s","%s"`+"\n",
			month, format.Amount(f.PlannedContributions[i]), actual, format.Amount(f.Plan[i]), actualBalance)
	}
}

// PrettyAnalysis outputs a summary block per asset. Failed assets show their
// error and do not interrupt the others.
func PrettyAnalysis(w io.Writer, results []analysis.Result) {
	p := message.NewPrinter(language.English)

	for i, result := range results {
		_, _ = fmt.Fprintf(w, "--- %s (%s) ---\n", result.Asset.Name, result.Asset.Symbol)
		if result.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %v\n", result.Err)
		} else {
			r := result.Report
			_, _ = p.Fprintf(w, "Closes:         %d over %s, last on %s\n", len(r.History), r.Period, r.LastDate.Format("2006-01-02"))
			_, _ = fmt.Fprintf(w, "Last close:     %s\n", format.Price(r.LastClose))
			_, _ = fmt.Fprintf(w, "Trend end:      %s (%s per trading day)\n", format.Price(r.Trend.TrendEnd), format.Amount(r.Trend.Model.Slope))
			if n := len(r.Trend.Projection); n > 0 {
				_, _ = p.Fprintf(w, "Projection:     %s after %d trading days\n", format.Price(r.Trend.Projection[n-1].Predicted), n)
			}
			_, _ = fmt.Fprintf(w, "CAGR:           %s\n", optionalPercent(r.CAGR))
			_, _ = fmt.Fprintf(w, "Total return:   %s\n", format.Percent(r.TotalReturn))
			_, _ = p.Fprintf(w, "MA(%d):          %s\n", r.Window, optionalPrice(r.LatestAverage))
			_, _ = fmt.Fprintf(w, "Dividend yield: %s\n", optionalPercent(r.DividendYield))
			for _, note := range r.Notes {
				_, _ = fmt.Fprintf(w, "Note: %s\n", note)
			}
		}
		if i < len(results)-1 {
			_, _ = fmt.Fprintln(w)
		}
	}
}

// CsvAnalysis outputs one row per asset in comma-separated value format.
func CsvAnalysis(w io.Writer, results []analysis.Result) {
	_, _ = fmt.Fprintf(w, `"asset","symbol","period","closes","last close","trend end","cagr","moving average","dividend yield","error"`+"\n")
	for _, result := range results {
		if result.Err != nil {
			_, _ = fmt.Fprintf(w, `"%s","%s","","","","","","","","%s"`+"\n",
				csvEscape(result.Asset.Name), csvEscape(result.Asset.Symbol), csvEscape(result.Err.Error()))
			continue
		}
		r := result.Report
		_, _ = fmt.Fprintf(w, `"%s","%s","%s","%d","%s","%s","%s","%s","%s",""`+"\n",
			csvEscape(r.Asset.Name), csvEscape(r.Asset.Symbol), r.Period, len(r.History),
			format.Amount(r.LastClose), format.Amount(r.Trend.TrendEnd),
			optionalFraction(r.CAGR), optionalAmount(r.LatestAverage), optionalFraction(r.DividendYield))
	}
}

// csvEscape doubles embedded quotes for a quoted CSV cell.
func csvEscape(value string) string {
	return strings.ReplaceAll(value, `"`, `""`)
}

func signedCurrency(amount float64) string {
	if amount > 0 {
		return "+" + format.Currency(amount)
	}
	return format.Currency(amount)
}

func optionalPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return format.Percent(*v)
}

func optionalPrice(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return format.Price(*v)
}

func optionalAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return format.Amount(*v)
}

func optionalFraction(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}
