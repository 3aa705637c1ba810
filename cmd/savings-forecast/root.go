package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/internal/marketdata"
	"github.com/iwvelando/savings-forecast/internal/store"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/datetime"
	"github.com/iwvelando/savings-forecast/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every command needs once the root command has loaded the
// configuration.
type app struct {
	configPath   string
	envFile      string
	logLevel     string
	outputFormat string

	conf   *config.Configuration
	logger *zap.Logger
	now    func() time.Time
}

func newRootCommand() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:           "savings-forecast",
		Short:         "Asset trend analysis and savings plan tracking",
		Long:          "Fit price trends for a catalog of assets and track actual savings against a compounding plan.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&a.envFile, "env-file", ".env", "optional dotenv file with SAVINGS_FORECAST_* overrides")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVarP(&a.outputFormat, "output-format", "o", "", "type of output override: pretty, csv")

	root.AddCommand(
		newAnalyzeCommand(a),
		newPlanCommand(a),
		newActualsCommand(a),
		newServeCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", a.envFile, err)
	}

	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		if _, statErr := os.Stat(a.configPath); !errors.Is(statErr, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
		}
		conf = config.Default()
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	if a.outputFormat == "" {
		a.outputFormat = conf.Output.Format
	}
	if a.outputFormat == "" {
		a.outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(a.outputFormat); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfigurationAt(a.now()) {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	return nil
}

func (a *app) openStore() (*store.Store, error) {
	if strings.TrimSpace(a.conf.Store.Path) == "" {
		return nil, errors.New("store.path is not configured")
	}
	return store.Open(a.conf.Store.Path)
}

// provider builds the configured market data provider, caching through st
// when it is not nil.
func (a *app) provider(st *store.Store) (marketdata.Provider, error) {
	md := a.conf.MarketData
	opts := marketdata.Options{
		Provider: md.Provider,
		BaseURL:  md.BaseURL,
		CSVDir:   md.CSVDir,
		Timeout:  md.Timeout(),
		CacheTTL: md.CacheTTL(),
	}
	if st != nil && !md.DisableCache {
		opts.Cache = st
	}
	return marketdata.New(opts, a.logger)
}

// optionalStore opens the store, logging instead of failing when it is unavailable.
func (a *app) optionalStore(op string) *store.Store {
	st, err := a.openStore()
	if err != nil {
		a.logger.Warn("store unavailable",
			zap.String("op", op),
			zap.Error(err),
		)
		return nil
	}
	return st
}

// parseMonth accepts a 0-based plan month index or a YYYY-MM label.
func (a *app) parseMonth(value string) (int, error) {
	if idx, err := strconv.Atoi(value); err == nil {
		return idx, nil
	}
	month, err := time.Parse(config.DateTimeLayout, value)
	if err != nil {
		return 0, fmt.Errorf("month %q is neither an index nor a %s label", value, config.DateTimeLayout)
	}
	start, err := a.conf.Plan.Start()
	if err != nil {
		return 0, err
	}
	return datetime.MonthIndex(start, month), nil
}
