package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/pagetext"
)

var (
	scanFormat string
	scanNoSave bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <url|file.html>",
	Short: "Extract the article text of a web page and classify it",
	Long: `Fetches a page (or reads a saved HTML file), extracts the text of its
<article>, <main> or <body> element the way the browser extension does, and
classifies it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		target := args[0]

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.Timeout())
		defer cancel()

		var page *pagetext.Page
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			logf("Fetching %s", target)
			page, err = pagetext.Fetch(ctx, &http.Client{Timeout: cfg.Timeout()}, target, cfg.MaxTextLength)
		} else {
			var f *os.File
			f, err = os.Open(target)
			if err != nil {
				return err
			}
			defer f.Close()
			page, err = pagetext.Extract(f, cfg.MaxTextLength)
		}
		if err != nil {
			return fmt.Errorf("extracting page text: %w", err)
		}
		if strings.TrimSpace(page.Text) == "" {
			return fmt.Errorf("no readable text found in %s", target)
		}
		logf("Extracted %d characters from <%s> (%q)", len(page.Text), page.Source, page.Title)

		det := newDetector(cfg, nil)
		callCtx, callCancel := context.WithTimeout(ctx, cfg.Timeout()+5*time.Second)
		defer callCancel()
		res, err := det.Predict(callCtx, page.Text)
		if err != nil {
			return fmt.Errorf("detector: %w", err)
		}

		name := target
		if page.Title != "" {
			name = page.Title
		}
		a := history.Analysis{
			Source: history.SourcePage,
			Name:   name,
			Text:   detector.Truncate(page.Text, cfg.MaxTextLength),
			Result: res,
		}
		if !scanNoSave && cfg.SaveHistory {
			a = saveAnalysis(cmd.Context(), cfg, a)
		}
		return writeAnalysis(cmd.OutOrStdout(), a, scanFormat)
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "terminal", "output format: terminal, json, markdown or html")
	scanCmd.Flags().BoolVar(&scanNoSave, "no-save", false, "do not record the analysis in history")
	rootCmd.AddCommand(scanCmd)
}
