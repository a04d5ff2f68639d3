package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/textlens/textlens/internal/batch"
	"github.com/textlens/textlens/internal/collect"
	"github.com/textlens/textlens/internal/config"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/progress"
	"github.com/textlens/textlens/internal/viewstate"
)

var (
	batchExclude []string
	batchNoSave  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <file|dir|glob>...",
	Short: "Classify many documents one after another",
	Long: `Expands files, directories and doublestar globs (e.g. "essays/**/*.txt"),
uploads each accepted document to /analyze-file in turn and prints a
per-file verdict followed by a summary. A failing file does not stop the
batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		found, err := collect.Collect(collect.Config{
			Patterns:    args,
			Exclude:     batchExclude,
			Extensions:  cfg.AllowedExtensions,
			MaxFileSize: cfg.MaxFileSize,
		})
		if err != nil {
			return err
		}
		for _, s := range found.Skipped {
			logf("Skipping %s: %s", s.Name, s.Reason)
		}
		if len(found.Files) == 0 {
			return fmt.Errorf("no files to analyze")
		}

		items := make([]batch.Item, 0, len(found.Files))
		for _, f := range found.Files {
			data, err := os.ReadFile(f.Path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.Name, err)
			}
			items = append(items, batch.Item{ID: uuid.NewString(), Name: f.Name, Data: data})
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := &batch.Runner{
			Client:  newDetector(cfg, nil),
			Limiter: batch.NewLimiter(cfg.RequestsPerMinute),
		}

		reporter := progress.NewReporter()
		reporter.Start(len(items))
		updates := runner.Run(ctx, items, func(u batch.Update) {
			if u.Status == viewstate.FileUploading {
				return
			}
			reporter.FileDone(u.Index, u.Name, u.Result.Prediction)
		})
		reporter.Finish()

		out := cmd.OutOrStdout()
		for _, u := range updates {
			if u.Status == viewstate.FileDone {
				fmt.Fprintf(out, "%-40s %-16s %6.1f%%\n", u.Name, u.Result.Prediction, u.Result.Confidence*100)
			} else {
				fmt.Fprintf(out, "%-40s %s\n", u.Name, errorStyle.Render("Error: "+u.Err.Error()))
			}
		}

		printSummary(out, batch.Summary(updates))

		if !batchNoSave && cfg.SaveHistory {
			saveBatch(cmd.Context(), cfg, items, updates)
		}
		return nil
	},
}

func printSummary(out io.Writer, counts map[string]int) {
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	fmt.Fprintln(out)
	fmt.Fprintln(out, labelStyle.Render("Summary"))
	for _, l := range labels {
		fmt.Fprintf(out, "  %-16s %d\n", l, counts[l])
	}
}

func saveBatch(ctx context.Context, cfg *config.Config, items []batch.Item, updates []batch.Update) {
	database, store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		return
	}
	defer database.Close()

	for i, u := range updates {
		if u.Status != viewstate.FileDone {
			continue
		}
		_, err := store.Save(ctx, history.Analysis{
			Source: history.SourceFile,
			Name:   u.Name,
			Text:   documentText(u.Name, items[i].Data, cfg.MaxTextLength),
			Result: u.Result,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save %s: %v\n", u.Name, err)
		}
	}
}

func init() {
	batchCmd.Flags().StringSliceVar(&batchExclude, "exclude", nil, "glob patterns to skip")
	batchCmd.Flags().BoolVar(&batchNoSave, "no-save", false, "do not record the analyses in history")
	rootCmd.AddCommand(batchCmd)
}
