package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/savings-forecast/internal/marketdata"
	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/savings"
	"github.com/iwvelando/savings-forecast/pkg/validation"
)

// Validate reports configuration that cannot be used at all.
func (conf *Configuration) Validate() error {
	var errs []error

	plan := conf.Plan
	if _, err := plan.Start(); err != nil {
		errs = append(errs, fmt.Errorf("plan.startDate %q: %w", plan.StartDate, err))
	}
	if err := savings.ValidatePlan(plan.YearlyContributions); err != nil {
		errs = append(errs, fmt.Errorf("plan.yearlyContributions: %w", err))
	}
	if plan.Years != len(plan.YearlyContributions) {
		errs = append(errs, calcerr.InvalidParameter("plan.years is %d but %d yearly contributions are configured",
			plan.Years, len(plan.YearlyContributions)))
	}
	if plan.MaxAnnualRatePercent < 0 {
		errs = append(errs, calcerr.InvalidParameter("plan.maxAnnualRatePercent %v must not be negative", plan.MaxAnnualRatePercent))
	}
	if _, err := savings.MonthlyRate(plan.AnnualRatePercent, plan.MaxAnnualRatePercent); err != nil {
		errs = append(errs, fmt.Errorf("plan.annualRatePercent: %w", err))
	}
	if plan.ContributionCap <= 0 {
		errs = append(errs, calcerr.InvalidParameter("plan.contributionCap %v must be positive", plan.ContributionCap))
	}
	if plan.TargetCapital <= 0 {
		errs = append(errs, calcerr.InvalidParameter("plan.targetCapital %v must be positive", plan.TargetCapital))
	}
	if plan.DeviationThreshold < 0 {
		errs = append(errs, calcerr.InvalidParameter("plan.deviationThreshold %v must not be negative", plan.DeviationThreshold))
	}

	if _, err := conf.Analysis.AnalysisPeriod(); err != nil {
		errs = append(errs, fmt.Errorf("analysis.period: %w", err))
	}
	if conf.Analysis.MovingAverageWindow < 1 {
		errs = append(errs, calcerr.InvalidParameter("analysis.movingAverageWindow %d must be >= 1", conf.Analysis.MovingAverageWindow))
	}
	if conf.Analysis.ForecastHorizon < 0 {
		errs = append(errs, calcerr.InvalidParameter("analysis.forecastHorizon %d must not be negative", conf.Analysis.ForecastHorizon))
	}

	for i, asset := range conf.Assets {
		if strings.TrimSpace(asset.Name) == "" || strings.TrimSpace(asset.Symbol) == "" {
			errs = append(errs, fmt.Errorf("assets[%d]: name and symbol are required", i))
		}
	}

	switch conf.MarketData.Provider {
	case constants.ProviderYahoo:
	case constants.ProviderCSV:
		if conf.MarketData.CSVDir == "" {
			errs = append(errs, errors.New("marketData.csvDir is required for the csv provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("marketData.provider %q, expected %s or %s",
			conf.MarketData.Provider, constants.ProviderYahoo, constants.ProviderCSV))
	}

	if err := conf.Optimizer.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("optimizer: %w", err))
	}

	return errors.Join(errs...)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	return conf.ValidateConfigurationAt(time.Now())
}

// ValidateConfigurationAt is ValidateConfiguration with an injectable clock.
func (conf *Configuration) ValidateConfigurationAt(now time.Time) []string {
	tradingDays := marketdata.OneYear.ApproxTradingDays()
	if period, err := conf.Analysis.AnalysisPeriod(); err == nil {
		tradingDays = period.ApproxTradingDays()
	}

	var assets []validation.AssetConfig
	for _, asset := range conf.Assets {
		assets = append(assets, validation.AssetConfig{Name: asset.Name, Symbol: asset.Symbol})
	}

	validator := validation.ConfigValidator{
		Plan: validation.PlanConfig{
			StartDate:            conf.Plan.StartDate,
			YearlyContributions:  conf.Plan.YearlyContributions,
			AnnualRatePercent:    conf.Plan.AnnualRatePercent,
			MaxAnnualRatePercent: conf.Plan.MaxAnnualRatePercent,
			ContributionCap:      conf.Plan.ContributionCap,
			TargetCapital:        conf.Plan.TargetCapital,
		},
		Assets: assets,
		Window: validation.WindowConfig{
			Size:        conf.Analysis.MovingAverageWindow,
			Period:      conf.Analysis.Period,
			TradingDays: tradingDays,
		},
		Now: now,
	}
	return validator.ValidateAll()
}
