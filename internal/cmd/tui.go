package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hupe1980/debatemesh/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run debates from an interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger := buildLogger(cfg)

		llm, err := buildModel(cfg)
		if err != nil {
			return err
		}

		app := tui.NewApp(llm, func(o *tui.Options) {
			o.Rounds = cfg.Debate.Rounds
			o.Evidence = buildResearcher(cfg, llm, logger)
			o.Logger = logger
		})

		program := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
