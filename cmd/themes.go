package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lpforge/lpforge/internal/config"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in style themes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, theme := range config.Themes {
			fmt.Println(theme)
		}
	},
}

func init() {
	rootCmd.AddCommand(themesCmd)
}
