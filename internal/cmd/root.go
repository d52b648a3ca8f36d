// Package cmd wires the debatemesh command-line interface. Commands only
// collect inputs and render outputs; the session contract lives entirely in
// the runner package.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/debatemesh/internal/config"
	"github.com/hupe1980/debatemesh/logging"
	"github.com/hupe1980/debatemesh/model"
	"github.com/hupe1980/debatemesh/model/anthropic"
	"github.com/hupe1980/debatemesh/model/openai"
	"github.com/hupe1980/debatemesh/research"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "debatemesh",
	Short: "Orchestrate a three-party AI debate",
	Long: `DebateMesh drives a turn-based debate among three AI agents with fixed
viewpoints (school, student, parent), an optional one-shot research phase per
agent, and a closing evaluation with compromise proposals.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: none, env DEBATEMESH_* only)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func buildLogger(cfg *config.Config) logging.Logger {
	return logging.New(&logging.Config{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
	})
}

func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Model.Provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
			o.Temperature = cfg.Model.Temperature
			o.MaxCompletionTokens = cfg.Model.MaxTokens
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
			o.Temperature = cfg.Model.Temperature
			o.MaxTokens = cfg.Model.MaxTokens
		}), nil
	case "mock":
		return model.NewMockModel("mock", "mock"), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}

// buildResearcher returns nil when research is disabled or unusable; the
// runner degrades gracefully on a nil provider.
func buildResearcher(cfg *config.Config, llm model.Model, logger logging.Logger) research.Provider {
	if !cfg.Research.Enabled {
		return nil
	}
	if cfg.Research.SearchAPIKey == "" {
		logger.Warn("research enabled but no search API key configured; debaters proceed without evidence")
		return nil
	}
	return research.NewResearcher(llm, research.NewSerpClient(cfg.Research.SearchAPIKey), func(o *research.Options) {
		o.SubQueries = cfg.Research.SubQueries
		o.LinksPerQuery = cfg.Research.LinksPerQuery
		o.MaxSources = cfg.Research.MaxSources
		o.Logger = logger
	})
}
