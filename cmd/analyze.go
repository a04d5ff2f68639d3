package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/textlens/textlens/internal/config"
	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/pagetext"
)

var (
	analyzeText       string
	analyzeFile       string
	analyzeFormat     string
	analyzeOutputJSON string
	analyzeNoSave     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify a piece of text or a document",
	Long: `Sends text (--text, or "-" to read stdin) to /predict, or a document
(--file) to /analyze-file, and prints the prediction with the source text
highlighted by explanation weight.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (analyzeText == "") == (analyzeFile == "") {
			return fmt.Errorf("exactly one of --text or --file is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		det := newDetector(cfg, nil)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout()+5*time.Second)
		defer cancel()

		var a history.Analysis
		if analyzeFile != "" {
			a, err = analyzeDocument(ctx, det, cfg, analyzeFile)
		} else {
			a, err = analyzeString(ctx, det, cfg, analyzeText)
		}
		if err != nil {
			return err
		}

		if !analyzeNoSave && cfg.SaveHistory {
			a = saveAnalysis(cmd.Context(), cfg, a)
		}

		if analyzeOutputJSON != "" {
			if err := writeJSONFile(analyzeOutputJSON, a.Result); err != nil {
				return err
			}
			logf("Result written to %s", analyzeOutputJSON)
		}

		return writeAnalysis(cmd.OutOrStdout(), a, analyzeFormat)
	},
}

func analyzeString(ctx context.Context, det detector.Detector, cfg *config.Config, text string) (history.Analysis, error) {
	if text == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return history.Analysis{}, fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return history.Analysis{}, fmt.Errorf("text is empty")
	}
	text = detector.Truncate(text, cfg.MaxTextLength)

	logf("Sending %d characters to %s/predict", len(text), cfg.APIURL)
	res, err := det.Predict(ctx, text)
	if err != nil {
		return history.Analysis{}, fmt.Errorf("detector: %w", err)
	}
	return history.Analysis{Source: history.SourceText, Text: text, Result: res}, nil
}

func analyzeDocument(ctx context.Context, det detector.Detector, cfg *config.Config, path string) (history.Analysis, error) {
	info, err := os.Stat(path)
	if err != nil {
		return history.Analysis{}, err
	}
	if cfg.MaxFileSize > 0 && info.Size() > cfg.MaxFileSize {
		return history.Analysis{}, fmt.Errorf("%s is %d bytes, larger than max_file_size %d", path, info.Size(), cfg.MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return history.Analysis{}, err
	}

	name := filepath.Base(path)
	logf("Uploading %s to %s/analyze-file", name, cfg.APIURL)
	res, err := det.AnalyzeFile(ctx, name, bytes.NewReader(data))
	if err != nil {
		return history.Analysis{}, fmt.Errorf("detector: %w", err)
	}

	return history.Analysis{
		Source: history.SourceFile,
		Name:   name,
		Text:   documentText(name, data, cfg.MaxTextLength),
		Result: res,
	}, nil
}

// documentText recovers highlightable text for formats we can read
// locally. Binary documents are reported without highlighting.
func documentText(name string, data []byte, maxLen int) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return detector.Truncate(string(data), maxLen)
	case ".html", ".htm":
		page, err := pagetext.Extract(bytes.NewReader(data), maxLen)
		if err != nil {
			return ""
		}
		return page.Text
	}
	return ""
}

// saveAnalysis stores a in history. Failures are reported but do not
// fail the command.
func saveAnalysis(ctx context.Context, cfg *config.Config, a history.Analysis) history.Analysis {
	if a.Result.IsError() {
		return a
	}
	database, store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		return a
	}
	defer database.Close()

	saved, err := store.Save(ctx, a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save analysis: %v\n", err)
		return a
	}
	logf("Saved analysis %s", saved.ID)
	return saved
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", `text to analyze ("-" reads stdin)`)
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "document to upload (.txt, .pdf, .docx, .html)")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "terminal", "output format: terminal, json, markdown or html")
	analyzeCmd.Flags().StringVar(&analyzeOutputJSON, "output-json", "", "also write the raw result to this JSON file")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "do not record the analysis in history")
	rootCmd.AddCommand(analyzeCmd)
}
