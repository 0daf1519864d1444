package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lpforge/lpforge/internal/config"
	"github.com/lpforge/lpforge/internal/export"
	"github.com/lpforge/lpforge/internal/markup"
	"github.com/lpforge/lpforge/internal/progress"
)

var (
	generateTheme  string
	generateOutput string
	generateMinify bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a landing page once and export it as a zip",
	Long:  `Reads the site brief from config, generates a landing page in one shot and writes the deployable zip archive. For interactive editing use lpforge serve.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if generateTheme != "" {
			if !config.ValidTheme(generateTheme) {
				return fmt.Errorf("unknown theme %q: run `lpforge themes` for the catalogue", generateTheme)
			}
			cfg.Theme = generateTheme
		}
		if generateOutput != "" {
			cfg.ExportPath = generateOutput
		}
		if generateMinify {
			cfg.Minify = true
		}

		engine, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "Provider %s (%s), theme %q, temperature %.1f\n",
				cfg.Provider, cfg.Model, cfg.Theme, cfg.Temperature)
		}

		reporter := progress.NewReporter()
		reporter.Start(3)
		reporter.Update(1, fmt.Sprintf("Generating %q page for %s", cfg.Theme, cfg.Site.Title))

		doc, err := engine.Generate(context.Background(), cfg.Theme, cfg.Temperature, cfg.Site.Brief())
		if err != nil {
			reporter.Finish()
			return fmt.Errorf("generating page: %w", err)
		}

		reporter.Update(2, "Packaging export archive")
		data, err := export.Archive(doc, export.Options{Minify: cfg.Minify})
		if err != nil {
			reporter.Finish()
			return fmt.Errorf("packaging: %w", err)
		}

		reporter.Update(3, "Writing "+cfg.ExportPath)
		if err := os.WriteFile(cfg.ExportPath, data, 0644); err != nil {
			reporter.Finish()
			return fmt.Errorf("writing %s: %w", cfg.ExportPath, err)
		}
		reporter.Finish()

		placeholders := len(markup.FindPlaceholders(doc.Body()))
		fmt.Printf("Wrote %s (%d bytes)\n", cfg.ExportPath, len(data))
		if placeholders > 0 {
			fmt.Printf("The page has %d image placeholder(s); run `lpforge serve` to replace them.\n", placeholders)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateTheme, "theme", "", "Style theme (overrides config)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Export zip path (overrides config)")
	generateCmd.Flags().BoolVar(&generateMinify, "minify", false, "Minify HTML and CSS in the export")
	rootCmd.AddCommand(generateCmd)
}
