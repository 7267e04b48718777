package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/biosketch-checker/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: "Start an HTTP server that checks uploaded biosketches. Reports are saved when " +
		"DATABASE_URL is set.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	servePort        int
	serveMaxUploadMB int
	serveRateLimit   int
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().IntVar(&serveMaxUploadMB, "max-upload-mb", 0, "Upload size limit in MB (default 20)")
	serveCmd.Flags().IntVar(&serveRateLimit, "rate-limit", 0, "Requests per minute per client on POST endpoints (default 10)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := server.Config{
		Port:               app.cfg.Port,
		MaxUploadMB:        app.cfg.MaxUploadMB,
		RateLimitPerMinute: app.cfg.RateLimitPerMinute,
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("max-upload-mb") {
		cfg.MaxUploadMB = serveMaxUploadMB
	}
	if cmd.Flags().Changed("rate-limit") {
		cfg.RateLimitPerMinute = serveRateLimit
	}

	processor, enhancer, err := newProcessor(ctx)
	if err != nil {
		return err
	}
	defer enhancer.Close() //nolint:errcheck

	var store server.ReportStore
	if app.cfg.DatabaseURL != "" {
		database, err := connectStore(ctx)
		if err != nil {
			return fmt.Errorf("failed to open report store: %w", err)
		}
		defer database.Close()
		store = database
	} else {
		app.logger.Warn("DATABASE_URL not set, reports will not be saved")
	}

	srv, err := server.New(cfg, processor, store, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	app.logger.Info("serving",
		zap.Int("port", cfg.Port),
		zap.String("template", processor.Template().Name),
		zap.Bool("enhance", enhancer.Enabled()))
	return srv.Start(ctx)
}
