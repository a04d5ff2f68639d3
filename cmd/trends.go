package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/textlens/textlens/internal/trends"
)

var (
	trendsFrom  int
	trendsTo    int
	trendsOut   string
	trendsInput string
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Aggregate predictions per year into a CSV table",
	Long: `Counts Human-written, AI-paraphrased and AI-generated verdicts per year
with their percentages. Records come from the history database, or from a
year,label CSV file given with --input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		window := trends.Window{From: trendsFrom, To: trendsTo}
		if err := window.Validate(); err != nil {
			return err
		}

		records, err := loadTrendRecords(cmd)
		if err != nil {
			return err
		}
		rows := trends.Aggregate(records, window)

		var out io.Writer = cmd.OutOrStdout()
		if trendsOut != "" {
			f, err := os.Create(trendsOut)
			if err != nil {
				return fmt.Errorf("creating %s: %w", trendsOut, err)
			}
			defer f.Close()
			out = f
		}
		if err := trends.WriteCSV(out, rows); err != nil {
			return err
		}
		if trendsOut != "" {
			fmt.Fprintf(os.Stderr, "Wrote %d years to %s\n", len(rows), trendsOut)
		}
		return nil
	},
}

func loadTrendRecords(cmd *cobra.Command) ([]trends.Record, error) {
	if trendsInput != "" {
		f, err := os.Open(trendsInput)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return trends.ReadRecordsCSV(f)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	database, store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer database.Close()
	return store.CountByYear(cmd.Context())
}

func init() {
	trendsCmd.Flags().IntVar(&trendsFrom, "from", 0, "first year to include")
	trendsCmd.Flags().IntVar(&trendsTo, "to", 0, "last year to include")
	trendsCmd.Flags().StringVarP(&trendsOut, "out", "o", "", "write the CSV to this file instead of stdout")
	trendsCmd.Flags().StringVar(&trendsInput, "input", "", "read year,label records from this CSV instead of history")
	rootCmd.AddCommand(trendsCmd)
}
