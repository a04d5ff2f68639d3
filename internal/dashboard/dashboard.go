package dashboard

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/textlens/textlens/internal/batch"
	"github.com/textlens/textlens/internal/collect"
	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/highlight"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/metrics"
)

// errEmptyText is returned when there is nothing to analyse.
var errEmptyText = errors.New("text is required")

// Config wires the dashboard to its collaborators. Store and Metrics may
// be nil.
type Config struct {
	Detector          detector.Detector
	Store             *history.Store
	Metrics           *metrics.Metrics
	MaxTextLength     int
	SaveHistory       bool
	RequestsPerMinute int
	AllowedExtensions []string
	MaxFileSize       int64
}

// Dashboard serves the analysis page, the JSON API used by the browser
// extension and the websocket batch channel.
type Dashboard struct {
	cfg    Config
	runner *batch.Runner
}

// New creates a new Dashboard.
func New(cfg Config) *Dashboard {
	if cfg.MaxTextLength == 0 {
		cfg.MaxTextLength = detector.DefaultMaxTextLength
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = collect.DefaultExtensions
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = collect.DefaultMaxFileSize
	}
	return &Dashboard{
		cfg: cfg,
		runner: &batch.Runner{
			Client:  cfg.Detector,
			Limiter: batch.NewLimiter(cfg.RequestsPerMinute),
		},
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Post("/analyze", d.handleAnalyzeForm)
	r.Post("/api/analyze", d.handleAnalyze)
	r.Post("/api/scan", d.handleScan)
	r.Post("/api/highlight", d.handleHighlight)
	r.Post("/api/view", d.handleView)
	r.Get("/ws/batch", d.handleBatchSocket)
}

// HistoryRoutes adds the report endpoint to the /api/history subrouter.
func (d *Dashboard) HistoryRoutes(r chi.Router) {
	r.Get("/{id}/report", d.handleReport)
}

// analysis is the outcome of analysing one text.
type analysis struct {
	Record   history.Analysis
	Segments []highlight.Segment
	Err      error
}

// analyzeText runs the detector and annotates the text. A detector failure
// yields the Error fallback result with Err set; errEmptyText is returned
// directly.
func (d *Dashboard) analyzeText(ctx context.Context, source history.Source, name, text string) (*analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errEmptyText
	}
	text = detector.Truncate(text, d.cfg.MaxTextLength)

	out := &analysis{Record: history.Analysis{Source: source, Name: name, Text: text}}
	res, err := d.cfg.Detector.Predict(ctx, text)
	if err != nil {
		log.Printf("dashboard: predict: %v", err)
		out.Err = err
		res = detector.ErrorResult()
	}
	out.Record.Result = res
	out.Segments = highlight.Annotate(text, res.Explanation)
	d.cfg.Metrics.ObserveSegments(out.Segments)

	d.save(ctx, &out.Record)
	return out, nil
}

// save stores successful verdicts when history is enabled. Storage errors
// are logged, never surfaced.
func (d *Dashboard) save(ctx context.Context, a *history.Analysis) {
	if d.cfg.Store == nil || !d.cfg.SaveHistory || a.Result.IsError() {
		return
	}
	saved, err := d.cfg.Store.Save(ctx, *a)
	if err != nil {
		log.Printf("dashboard: saving analysis: %v", err)
		return
	}
	*a = saved
}
