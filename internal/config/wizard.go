package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .lpforge.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to lpforge! Let's configure your landing page.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "openrouter", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Quality tier.
	qualityPrompt := promptui.Select{
		Label: "Select quality tier",
		Items: []string{
			"lite   — fast & cheap",
			"normal — balanced",
			"max    — highest quality",
		},
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	tiers := []QualityTier{QualityLite, QualityNormal, QualityMax}
	cfg.Quality = tiers[qualityIdx]
	cfg.Model = GetPreset(cfg.Provider, cfg.Quality)

	// 3. Style theme.
	themePrompt := promptui.Select{
		Label: "Select style theme",
		Items: Themes,
		Size:  len(Themes),
	}
	_, cfg.Theme, err = themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}

	// 4. Site basics.
	for _, q := range []struct {
		label string
		dst   *string
	}{
		{"Site title", &cfg.Site.Title},
		{"Tagline", &cfg.Site.Tagline},
		{"Meta description", &cfg.Site.MetaDescription},
		{"Contact email", &cfg.Site.Email},
		{"Features (comma-separated)", &cfg.Site.Features},
		{"Works (comma-separated)", &cfg.Site.Works},
	} {
		prompt := promptui.Prompt{Label: q.label, Default: *q.dst}
		val, err := prompt.Run()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", q.label, err)
		}
		*q.dst = val
	}

	// 5. Export path.
	exportPrompt := promptui.Prompt{
		Label:   "Export zip path",
		Default: cfg.ExportPath,
	}
	if cfg.ExportPath, err = exportPrompt.Run(); err != nil {
		return nil, fmt.Errorf("export path: %w", err)
	}

	// Check for API key.
	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running lpforge generate.\n", envVar)
		}
	}

	configPath := ".lpforge.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
