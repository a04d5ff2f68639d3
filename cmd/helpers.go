package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/textlens/textlens/internal/config"
	"github.com/textlens/textlens/internal/db"
	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/metrics"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `textlens init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newDetector builds the detection client from config. m may be nil.
func newDetector(cfg *config.Config, m *metrics.Metrics) *detector.Client {
	hc := &http.Client{Timeout: cfg.Timeout()}
	if m != nil {
		hc.Transport = m.InstrumentTransport(http.DefaultTransport)
	}
	return detector.NewClient(cfg.APIURL,
		detector.WithHTTPClient(hc),
		detector.WithMaxTextLength(cfg.MaxTextLength),
	)
}

// openStore opens the history database under the configured data dir.
func openStore(cfg *config.Config) (*db.DB, *history.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return database, history.NewStore(database), nil
}
