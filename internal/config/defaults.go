package config

// Themes is the built-in style theme catalogue passed to the
// generation prompt.
var Themes = []string{
	"simple",
	"business",
	"cute",
	"stylish",
	"fairy-tale",
	"comic",
	"japanese",
	"japanese-modern",
	"minimal",
	"cyber-futuristic",
	"retro-pop",
	"elegant",
	"natural",
	"dark-mode",
	"magazine",
	"cool",
}

// ValidTheme reports whether the theme is in the built-in catalogue.
func ValidTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// qualityPresets maps each provider+quality combination to a model.
var qualityPresets = map[ProviderType]map[QualityTier]string{
	ProviderOpenAI: {
		QualityLite:   "gpt-4o-mini",
		QualityNormal: "gpt-4o",
		QualityMax:    "gpt-4",
	},
	ProviderOpenRouter: {
		QualityLite:   "openai/gpt-4o-mini",
		QualityNormal: "openai/gpt-4o",
		QualityMax:    "anthropic/claude-sonnet-4",
	},
	ProviderOllama: {
		QualityLite:   "llama3",
		QualityNormal: "llama3",
		QualityMax:    "llama3:70b",
	},
}

// GetPreset returns the model for the given provider and tier, falling
// back to the normal OpenAI preset for unknown combinations.
func GetPreset(provider ProviderType, tier QualityTier) string {
	if tiers, ok := qualityPresets[provider]; ok {
		if model, ok := tiers[tier]; ok {
			return model
		}
	}
	return qualityPresets[ProviderOpenAI][QualityNormal]
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		Model:          "gpt-4o-mini",
		Quality:        QualityLite,
		Theme:          "simple",
		Temperature:    1.0,
		Port:           8080,
		ExportPath:     "landing_page.zip",
		RequestTimeout: 120,
		MaxRetries:     2,
		RateLimitRPM:   30,
		Site: SiteConfig{
			Title:           "Yamada Studio",
			Tagline:         "Design that ships.",
			MetaDescription: "Design and engineering for shipping small and polishing continuously.",
			Email:           "hello@example.com",
			About:           "We pair speed with quality: ship small, learn fast, keep refining.",
			Features:        "Rapid validation, Clear UI, Built to scale, Easy to operate, Quality at speed, Data-driven",
			Works:           "SaaS dashboard, EC campaign site, Careers site",
			Testimonials:    "Hanako Sato|PM|Decision-making got dramatically faster.\nJiro Suzuki|BizDev|Great balance from first draft to final quality.",
		},
	}
}
