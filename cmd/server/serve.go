package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/bootstrap"
	"github.com/dmitrymomot/bootstrap/pkg/config"
)

var serveFlags struct {
	host     string
	port     int
	env      string
	protocol string
	metrics  bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Assemble the application and serve it until interrupted.

Examples:
  # Serve with the default app.yaml
  server serve

  # Override host and port
  server serve --host 0.0.0.0 --port 8080

  # Serve over TLS
  server serve --protocol https`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlags.host, "host", "", "override listen host")
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 0, "override listen port")
	serveCmd.Flags().StringVarP(&serveFlags.env, "env", "e", "", "override environment (development, production, test, ci)")
	serveCmd.Flags().StringVar(&serveFlags.protocol, "protocol", "", "override protocol (http, https)")
	serveCmd.Flags().BoolVar(&serveFlags.metrics, "metrics", false, "expose Prometheus metrics")
}

func runServe(cmd *cobra.Command, _ []string) error {
	opts, err := readOptions(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		opts[config.KeyHost] = serveFlags.host
	}
	if flags.Changed("port") {
		opts[config.KeyPort] = serveFlags.port
	}
	if flags.Changed("env") {
		opts[config.KeyEnv] = serveFlags.env
	}
	if flags.Changed("protocol") {
		opts[config.KeyProtocol] = serveFlags.protocol
	}
	if flags.Changed("metrics") {
		opts[config.KeyMetrics] = serveFlags.metrics
	}
	opts[config.KeyStart] = false

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := bootstrap.New(ctx, nil, opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Start(ctx); err != nil {
		return err
	}
	app.Logger().Info("server started",
		slog.String("addr", app.Addr()),
		slog.Int("routes", len(app.Routes())),
	)
	return app.Run(ctx)
}
