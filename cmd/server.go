package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/textlens/textlens/internal/config"
	"github.com/textlens/textlens/internal/dashboard"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/metrics"
	"github.com/textlens/textlens/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the web dashboard and the browser extension API",
	Long: `Starts the textlens HTTP server: the analysis dashboard, the JSON API
used by the browser extension, the websocket batch channel, history, trends
and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		port := cfg.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		var m *metrics.Metrics
		if cfg.Metrics {
			m = metrics.New()
		}

		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     port,
			DataDir:  cfg.DataDir,
			AllowAll: cfg.AllowAllOrigins,
		}, database, newDetector(cfg, m), m)

		// Register all feature routes.
		registerAllRoutes(srv, store, cfg)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "textlens server v%s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Detector: %s\n", cfg.APIURL)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// registerAllRoutes wires the dashboard and history routes onto the server.
func registerAllRoutes(srv *server.Server, store *history.Store, cfg *config.Config) {
	r := srv.Router()

	dash := dashboard.New(dashboard.Config{
		Detector:          srv.Detector(),
		Store:             store,
		Metrics:           srv.Metrics(),
		MaxTextLength:     cfg.MaxTextLength,
		SaveHistory:       cfg.SaveHistory,
		RequestsPerMinute: cfg.RequestsPerMinute,
		AllowedExtensions: cfg.AllowedExtensions,
		MaxFileSize:       cfg.MaxFileSize,
	})
	dash.RegisterRoutes(r)

	history.RegisterRoutes(r, store, dash.HistoryRoutes)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
