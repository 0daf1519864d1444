package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lpforge/lpforge/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize lpforge configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the provider, theme and site brief, and generates a .lpforge.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
