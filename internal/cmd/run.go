package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/debatemesh"
	"github.com/hupe1980/debatemesh/runner"
)

var (
	runTopic      string
	runRounds     int
	runInvestment float64
	runNoAdvice   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full debate and print the outcome",
	Example: `  debatemesh run --topic "Should AI-generated art be eligible for prizes?"
  debatemesh run --topic "Ban homework?" --rounds 9 --no-advice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(runTopic) == "" {
			return fmt.Errorf("--topic is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger := buildLogger(cfg)

		llm, err := buildModel(cfg)
		if err != nil {
			return err
		}

		rounds := cfg.Debate.Rounds
		if cmd.Flags().Changed("rounds") {
			rounds = runRounds
		}

		outcome, err := debatemesh.Debate(cmd.Context(), llm, runTopic, func(o *runner.Options) {
			o.Rounds = rounds
			o.Investment = runInvestment
			o.Evidence = buildResearcher(cfg, llm, logger)
			o.DisableAdvice = runNoAdvice
			o.Logger = logger
		})
		if outcome != nil {
			printOutcome(cmd, outcome)
		}
		if err != nil {
			return fmt.Errorf("debate aborted: %w", err)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runTopic, "topic", "t", "", "debate topic (required)")
	runCmd.Flags().IntVarP(&runRounds, "rounds", "r", runner.DefaultRounds, "number of speaking turns")
	runCmd.Flags().Float64Var(&runInvestment, "investment", 3.0, "nominal session budget, recorded in the outcome")
	runCmd.Flags().BoolVar(&runNoAdvice, "no-advice", false, "skip the compromise-advice stage")

	rootCmd.AddCommand(runCmd)
}

func printOutcome(cmd *cobra.Command, o *runner.Outcome) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Topic: %s\n", o.Topic)

	if len(o.ResearchLog) > 0 {
		fmt.Fprintln(out, "\n== Research ==")
		for _, r := range o.ResearchLog {
			if r.Degraded {
				fmt.Fprintf(out, "[%s] no evidence gathered\n", r.Debater)
				continue
			}
			fmt.Fprintf(out, "[%s]\n%s\n", r.Debater, r.Report)
		}
	}

	fmt.Fprintln(out, "\n== Debate ==")
	for _, r := range o.Rounds {
		fmt.Fprintf(out, "--- Round %d: %s ---\n%s\n\n", r.Round, r.Speaker, r.Content)
	}

	if o.Evaluation != "" {
		fmt.Fprintf(out, "== Evaluation ==\n%s\n", o.Evaluation)
	}
	if o.Advice != "" {
		fmt.Fprintf(out, "\n== Advice ==\n%s\n", o.Advice)
	}
}
