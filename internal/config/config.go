// Package config loads DebateMesh configuration from defaults, an optional
// config file and DEBATEMESH_* environment variables, in increasing order of
// precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete DebateMesh configuration.
type Config struct {
	Model    ModelConfig    `mapstructure:"model"`
	Debate   DebateConfig   `mapstructure:"debate"`
	Research ResearchConfig `mapstructure:"research"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ModelConfig selects and tunes the content generator.
type ModelConfig struct {
	// Provider is one of "openai", "anthropic" or "mock".
	Provider string `mapstructure:"provider"`
	// Name overrides the provider's default model id.
	Name string `mapstructure:"name"`
	// Temperature is passed straight to the provider.
	Temperature float64 `mapstructure:"temperature"`
	// MaxTokens caps completion length.
	MaxTokens int64 `mapstructure:"max_tokens"`
}

// DebateConfig controls session defaults.
type DebateConfig struct {
	// Rounds is the default number of debate turns.
	Rounds int `mapstructure:"rounds"`
}

// ResearchConfig controls the evidence pipeline bounds and search access.
type ResearchConfig struct {
	// Enabled toggles the research phase. Without a search API key the phase
	// degrades anyway, so this mostly saves model calls.
	Enabled bool `mapstructure:"enabled"`
	// SearchAPIKey authenticates against the search endpoint.
	SearchAPIKey string `mapstructure:"search_api_key"`
	// SubQueries caps topic decomposition.
	SubQueries int `mapstructure:"sub_queries"`
	// LinksPerQuery caps link discovery per sub-query.
	LinksPerQuery int `mapstructure:"links_per_query"`
	// MaxSources caps fetched pages per research request.
	MaxSources int `mapstructure:"max_sources"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is "text" or "json".
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file (optional; empty means skip),
// layered under DEBATEMESH_* environment variables.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DEBATEMESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model.provider", "openai")
	v.SetDefault("model.temperature", 0.7)
	v.SetDefault("model.max_tokens", 4096)
	v.SetDefault("debate.rounds", 6)
	v.SetDefault("research.enabled", true)
	v.SetDefault("research.sub_queries", 2)
	v.SetDefault("research.links_per_query", 2)
	v.SetDefault("research.max_sources", 4)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate rejects configurations the session could not run with.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case "openai", "anthropic", "mock":
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if c.Debate.Rounds <= 0 {
		return fmt.Errorf("debate rounds must be positive, got %d", c.Debate.Rounds)
	}
	if c.Research.MaxSources <= 0 || c.Research.SubQueries <= 0 || c.Research.LinksPerQuery <= 0 {
		return fmt.Errorf("research bounds must be positive")
	}
	return nil
}
