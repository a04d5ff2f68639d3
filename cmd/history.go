package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/textlens/textlens/internal/history"
)

var (
	historyLimit  int
	historyLabel  string
	historySource string
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		filter := history.Filter{Label: historyLabel, Limit: historyLimit}
		if historySource != "" {
			filter.Source = history.Source(historySource)
			if !filter.Source.Valid() {
				return fmt.Errorf("invalid source %q (want text, file or page)", historySource)
			}
		}

		list, err := store.List(cmd.Context(), filter)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, dimStyle.Render("No analyses recorded yet."))
			return nil
		}
		for _, a := range list {
			name := a.Name
			if name == "" {
				name = preview(a.Text, 40)
			}
			fmt.Fprintf(out, "%s  %s  %-5s %-16s %6.1f%%  %s\n",
				a.ID, formatTime(a.CreatedAt), a.Source, a.Result.Prediction, a.Result.Confidence*100, name)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		a, err := store.Get(cmd.Context(), args[0])
		if errors.Is(err, history.ErrNotFound) {
			return fmt.Errorf("no analysis with id %s", args[0])
		}
		if err != nil {
			return err
		}
		return writeAnalysis(cmd.OutOrStdout(), *a, historyFormat)
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("no analysis with id %s", args[0])
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

// preview returns the first n runes of s on one line.
func preview(s string, n int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\r' || c == '\t' {
			r[i] = ' '
		}
	}
	if len(r) > n {
		return string(r[:n]) + "..."
	}
	return string(r)
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of analyses to list")
	historyCmd.Flags().StringVar(&historyLabel, "label", "", "only list analyses with this prediction")
	historyCmd.Flags().StringVar(&historySource, "source", "", "only list analyses from this source (text, file, page)")
	historyShowCmd.Flags().StringVarP(&historyFormat, "format", "f", "terminal", "output format: terminal, json, markdown or html")
	historyCmd.AddCommand(historyShowCmd, historyRmCmd)
	rootCmd.AddCommand(historyCmd)
}
