package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/savings-forecast/internal/analysis"
	"github.com/iwvelando/savings-forecast/internal/server"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newServeCommand(a *app) *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis and plan tracker as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			serverConfig, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				serverConfig.Address = address
			}

			logger := a.logger
			if l := serverConfig.Logging; l.Level != "" || l.Format != "" || l.OutputFile != "" {
				if logger, err = initializeLogger(l, a.logLevel); err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
			}

			opts := server.Options{
				Logger:      logger,
				Config:      a.conf,
				MaxBodySize: serverConfig.BodySizeBytes(),
				Version:     version,
				Now:         a.now,
			}

			st := a.optionalStore("main.serve")
			if st != nil {
				defer func() { _ = st.Close() }()
				opts.Actuals = st
			}
			provider, err := a.provider(st)
			if err != nil {
				return err
			}
			opts.Analyzer = analysis.NewAnalyzer(provider, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, serverConfig.Address, server.NewHandler(opts), logger)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}
