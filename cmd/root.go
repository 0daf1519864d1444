package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lpforge",
	Short: "AI landing-page generator and editing studio",
	Long: `lpforge generates complete landing pages (HTML+CSS) with an LLM and
lets you refine them: swap style tokens, rewrite the heading and
subtext, drop images into placeholders, apply AI edit instructions,
and export a deployable zip.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".lpforge.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
