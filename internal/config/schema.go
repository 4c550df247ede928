package config

// Config holds risgen configuration.
// Loaded from ./config.yaml or ~/.risgen/config.yaml.
type Config struct {
	Provider ProviderCfg `mapstructure:"provider" yaml:"provider"`
	Defaults DefaultsCfg `mapstructure:"defaults" yaml:"defaults"`
}

// ProviderCfg configures the inference provider.
type ProviderCfg struct {
	Type           string `mapstructure:"type" yaml:"type"`                       // "gemini" or "openai"
	Model          string `mapstructure:"model" yaml:"model"`                     // Model name, empty uses the provider default
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`                 // API key (supports ${ENV_VAR} syntax)
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`               // Override for OpenAI-compatible endpoints
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // Per-request HTTP timeout
}

// DefaultsCfg holds pipeline defaults.
type DefaultsCfg struct {
	Concurrency  int  `mapstructure:"concurrency" yaml:"concurrency"`     // Worker count, clamped to 1..10
	SkipExisting bool `mapstructure:"skip_existing" yaml:"skip_existing"` // Skip files whose .ris already exists
	HeadPages    int  `mapstructure:"head_pages" yaml:"head_pages"`       // Pages extracted from the front of each PDF
	TailPages    int  `mapstructure:"tail_pages" yaml:"tail_pages"`       // Pages extracted from the back of each PDF
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderCfg{
			Type:           "gemini",
			Model:          "gemini-2.0-flash",
			APIKey:         "${GEMINI_API_KEY}",
			TimeoutSeconds: 120,
		},
		Defaults: DefaultsCfg{
			Concurrency:  3,
			SkipExisting: true,
			HeadPages:    2,
			TailPages:    4,
		},
	}
}
