package cmd

import (
	"github.com/spf13/cobra"

	"github.com/textlens/textlens/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize textlens configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to point textlens at a detection service and writes a .textlens.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
