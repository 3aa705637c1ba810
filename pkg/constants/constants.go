// Package constants provides shared constants for the savings-forecast application.
package constants

// DateTimeLayout is the month format expected in config files and is also the
// output month format.
const DateTimeLayout = "2006-01"

// DayLayout is the format of a single trading day in price series.
const DayLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerYear is the average calendar year length used for CAGR
	DaysPerYear = 365.25

	// CurrencyCode is the single currency all amounts are displayed in
	CurrencyCode = "USD"

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// MinRegressionPoints is the smallest series a trend can be fitted to
	MinRegressionPoints = 2
)

// Savings plan defaults of the reference product.
const (
	// DefaultTargetCapital is the capital the plan aims for
	DefaultTargetCapital = 100000.0

	// DefaultPlanYears is the plan horizon in years
	DefaultPlanYears = 4

	// DefaultAnnualRatePercent is the assumed annual return before the user moves the slider
	DefaultAnnualRatePercent = 5.0

	// MaxAnnualRatePercent is the upper bound of the annual-rate slider
	MaxAnnualRatePercent = 10.0

	// DefaultContributionCap is the largest actual contribution accepted for one month
	DefaultContributionCap = 5000.0

	// DefaultDeviationThreshold is the band around the plan that still counts as on track
	DefaultDeviationThreshold = 500.0
)

// DefaultYearlyContributions returns the nominal monthly contribution for each plan year.
func DefaultYearlyContributions() []float64 {
	return []float64{1000, 1200, 2000, 2000}
}

// Analysis defaults
const (
	// DefaultPeriod is the default lookback period for price history
	DefaultPeriod = "1y"

	// DefaultMovingAverageWindow is the default rolling-mean window in trading days
	DefaultMovingAverageWindow = 20

	// DefaultForecastHorizon is the number of trading days the trend is extended past the data
	DefaultForecastHorizon = 0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix of environment overrides read by viper
	EnvPrefix = "SAVINGS_FORECAST"
)

// Market data defaults
const (
	// ProviderYahoo fetches history from the Yahoo Finance chart API
	ProviderYahoo = "yahoo"

	// ProviderCSV reads history from local CSV files
	ProviderCSV = "csv"

	// DefaultYahooBaseURL is the chart API root
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

	// DefaultProviderTimeoutSeconds bounds a single market-data request
	DefaultProviderTimeoutSeconds = 15

	// DefaultCacheTTLHours is how long cached price history stays fresh
	DefaultCacheTTLHours = 12

	// DefaultStorePath is the sqlite database holding actual contributions and cached prices
	DefaultStorePath = "savings-forecast.db"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
