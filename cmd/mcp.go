package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/textlens/textlens/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing text detection, highlighting, history and trend tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, store, err := openStore(cfg)
		if err != nil {
			// History tools are optional; detection still works.
			fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
			store = nil
		} else {
			defer database.Close()
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "textlens MCP server started on stdio (detector=%s)\n", cfg.APIURL)

		srv := mcpserver.NewServer(newDetector(cfg, nil), store, cfg.MaxTextLength)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
