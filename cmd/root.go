package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/textlens/textlens/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "textlens",
	Short: "Detect AI-generated text and highlight the words that gave it away",
	Long: `textlens sends text and documents to an AI-text-detection service,
shows the predicted label with its probabilities and highlights the words
that pushed the model towards or away from its verdict. It also serves a
web dashboard, an API for the browser extension and an MCP tool surface.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// logf prints a status line to stderr when --verbose is set.
func logf(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
