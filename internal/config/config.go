// Package config defines the data structures related to configuration and
// includes functions for loading and validating the planner configuration.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/savings-forecast/internal/marketdata"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for savings-forecast.
type Configuration struct {
	Assets     []Asset          `yaml:"assets" mapstructure:"assets"`
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Plan       PlanConfig       `yaml:"plan" mapstructure:"plan"`
	MarketData MarketDataConfig `yaml:"marketData" mapstructure:"marketData"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Optimizer  OptimizerConfig  `yaml:"optimizer,omitempty" mapstructure:"optimizer"`
	Logging    LoggingConfig    `yaml:"logging,omitempty" mapstructure:"logging"`
	Output     OutputConfig     `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// Asset maps a display name to a market symbol.
type Asset struct {
	Name   string `yaml:"name" mapstructure:"name"`
	Symbol string `yaml:"symbol" mapstructure:"symbol"`
}

// AnalysisConfig holds the defaults for price-history analysis.
type AnalysisConfig struct {
	Period              string `yaml:"period" mapstructure:"period"`
	MovingAverageWindow int    `yaml:"movingAverageWindow" mapstructure:"movingAverageWindow"`
	ForecastHorizon     int    `yaml:"forecastHorizon" mapstructure:"forecastHorizon"` // trading days past the data
}

// PlanConfig describes the savings goal.
type PlanConfig struct {
	StartDate            string    `yaml:"startDate" mapstructure:"startDate"`
	Years                int       `yaml:"years" mapstructure:"years"`
	YearlyContributions  []float64 `yaml:"yearlyContributions" mapstructure:"yearlyContributions"` // monthly amount per plan year
	AnnualRatePercent    float64   `yaml:"annualRatePercent" mapstructure:"annualRatePercent"`
	MaxAnnualRatePercent float64   `yaml:"maxAnnualRatePercent" mapstructure:"maxAnnualRatePercent"`
	ContributionCap      float64   `yaml:"contributionCap" mapstructure:"contributionCap"`
	TargetCapital        float64   `yaml:"targetCapital" mapstructure:"targetCapital"`
	DeviationThreshold   float64   `yaml:"deviationThreshold" mapstructure:"deviationThreshold"`
}

// MarketDataConfig selects and tunes the price-history provider.
type MarketDataConfig struct {
	Provider       string  `yaml:"provider" mapstructure:"provider"` // yahoo, csv
	BaseURL        string  `yaml:"baseURL,omitempty" mapstructure:"baseURL"`
	CSVDir         string  `yaml:"csvDir,omitempty" mapstructure:"csvDir"`
	TimeoutSeconds int     `yaml:"timeoutSeconds" mapstructure:"timeoutSeconds"`
	CacheTTLHours  float64 `yaml:"cacheTTLHours" mapstructure:"cacheTTLHours"`
	DisableCache   bool    `yaml:"disableCache,omitempty" mapstructure:"disableCache"`
}

// StoreConfig points at the sqlite database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DefaultAssets is the asset catalog of the reference product.
func DefaultAssets() []Asset {
	return []Asset{
		{Name: "MSCI World ETF (URTH)", Symbol: "URTH"},
		{Name: "Nasdaq 100 ETF (QQQ)", Symbol: "QQQ"},
		{Name: "FTSE High Dividend ETF (VYMI)", Symbol: "VYMI"},
		{Name: "Realty Income REIT (O)", Symbol: "O"},
		{Name: "Euro Gov Bond Short (IBGL)", Symbol: "IBGL"},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.period", constants.DefaultPeriod)
	v.SetDefault("analysis.movingAverageWindow", constants.DefaultMovingAverageWindow)
	v.SetDefault("analysis.forecastHorizon", constants.DefaultForecastHorizon)

	v.SetDefault("plan.startDate", time.Now().Format(DateTimeLayout))
	v.SetDefault("plan.years", 0)
	v.SetDefault("plan.yearlyContributions", constants.DefaultYearlyContributions())
	v.SetDefault("plan.annualRatePercent", constants.DefaultAnnualRatePercent)
	v.SetDefault("plan.maxAnnualRatePercent", constants.MaxAnnualRatePercent)
	v.SetDefault("plan.contributionCap", constants.DefaultContributionCap)
	v.SetDefault("plan.targetCapital", constants.DefaultTargetCapital)
	v.SetDefault("plan.deviationThreshold", constants.DefaultDeviationThreshold)

	v.SetDefault("marketData.provider", constants.ProviderYahoo)
	v.SetDefault("marketData.baseURL", constants.DefaultYahooBaseURL)
	v.SetDefault("marketData.csvDir", "")
	v.SetDefault("marketData.timeoutSeconds", constants.DefaultProviderTimeoutSeconds)
	v.SetDefault("marketData.cacheTTLHours", constants.DefaultCacheTTLHours)
	v.SetDefault("marketData.disableCache", false)

	v.SetDefault("store.path", constants.DefaultStorePath)

	v.SetDefault("optimizer.rateTolerance", defaultToleranceRate)
	v.SetDefault("optimizer.amountTolerance", defaultToleranceAmount)
	v.SetDefault("optimizer.maxIterations", defaultMaxIterations)

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", "")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

// Default returns the configuration used when no file is supplied.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		panic(fmt.Sprintf("default configuration does not decode: %v", err))
	}
	return conf
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if len(configuration.Assets) == 0 {
		configuration.Assets = DefaultAssets()
	}
	configuration.Optimizer.Normalize()
	if configuration.Plan.Years == 0 {
		configuration.Plan.Years = len(configuration.Plan.YearlyContributions)
	}

	return &configuration, nil
}

// Months returns the plan horizon in months.
func (p PlanConfig) Months() int {
	return p.Years * constants.MonthsPerYear
}

// Start parses the plan start month.
func (p PlanConfig) Start() (time.Time, error) {
	return time.Parse(DateTimeLayout, p.StartDate)
}

// AnalysisPeriod parses the configured default lookback period.
func (a AnalysisConfig) AnalysisPeriod() (marketdata.Period, error) {
	return marketdata.ParsePeriod(a.Period)
}

// CacheTTL returns the cache lifetime as a duration.
func (m MarketDataConfig) CacheTTL() time.Duration {
	return time.Duration(m.CacheTTLHours * float64(time.Hour))
}

// Timeout returns the per-request timeout as a duration.
func (m MarketDataConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// FindAsset looks an asset up by display name or symbol, case-insensitively.
func (conf *Configuration) FindAsset(key string) (Asset, bool) {
	needle := strings.TrimSpace(key)
	for _, asset := range conf.Assets {
		if strings.EqualFold(asset.Name, needle) || strings.EqualFold(asset.Symbol, needle) {
			return asset, true
		}
	}
	return Asset{}, false
}
