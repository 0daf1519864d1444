package config

import "github.com/lpforge/lpforge/internal/page"

// QualityTier controls the model selection trade-off between speed/cost
// and quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOllama     ProviderType = "ollama"
)

// Config is the top-level lpforge configuration, corresponding to
// .lpforge.yml.
type Config struct {
	Provider       ProviderType `yaml:"provider" koanf:"provider"`
	Model          string       `yaml:"model" koanf:"model"`
	Quality        QualityTier  `yaml:"quality" koanf:"quality"`
	Theme          string       `yaml:"theme" koanf:"theme"`
	Temperature    float64      `yaml:"temperature" koanf:"temperature"`
	Port           int          `yaml:"port" koanf:"port"`
	ExportPath     string       `yaml:"export_path" koanf:"export_path"`
	Minify         bool         `yaml:"minify" koanf:"minify"`
	RequestTimeout int          `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	MaxRetries     int          `yaml:"max_retries" koanf:"max_retries"`
	RateLimitRPM   int          `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	Site           SiteConfig   `yaml:"site" koanf:"site"`
}

// SiteConfig holds the default site brief. Features and works are
// comma-separated; testimonials are name|role|text lines.
type SiteConfig struct {
	Title           string `yaml:"title" koanf:"title"`
	Tagline         string `yaml:"tagline" koanf:"tagline"`
	MetaDescription string `yaml:"meta_description" koanf:"meta_description"`
	Email           string `yaml:"email" koanf:"email"`
	About           string `yaml:"about" koanf:"about"`
	Features        string `yaml:"features" koanf:"features"`
	Works           string `yaml:"works" koanf:"works"`
	Testimonials    string `yaml:"testimonials" koanf:"testimonials"`
}

// Brief converts the configured site defaults into a generation brief.
func (s SiteConfig) Brief() page.Brief {
	return page.Brief{
		Title:           s.Title,
		Tagline:         s.Tagline,
		MetaDescription: s.MetaDescription,
		Email:           s.Email,
		About:           s.About,
		Features:        page.SplitList(s.Features),
		Works:           page.SplitList(s.Works),
		Testimonials:    page.ParseTestimonials(s.Testimonials),
	}
}
