package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/debatemesh/agent"
	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/evaluation"
	"github.com/hupe1980/debatemesh/logging"
	"github.com/hupe1980/debatemesh/model"
)

// DefaultRounds is the number of debate turns when none is configured.
const DefaultRounds = 6

// SeedSender identifies the nominal author of the opening topic message.
const SeedSender = "User"

// Evaluator reduces the completed transcript into an evaluation text.
type Evaluator interface {
	Evaluate(ctx context.Context, topic string, messages []core.Message) (string, error)
}

// Advisor turns topic plus evaluation into compromise proposals.
type Advisor interface {
	Advise(ctx context.Context, topic, evaluation string) (string, error)
}

// RoundRecord is one completed debate turn.
type RoundRecord struct {
	Round   int    `json:"round"`
	Speaker string `json:"speaker"`
	Content string `json:"content"`
}

// ResearchRecord is one debater's research-phase result. Degraded marks
// entries where the evidence provider failed and the debater continues
// without fresh evidence.
type ResearchRecord struct {
	Debater  string `json:"debater"`
	Report   string `json:"report"`
	Degraded bool   `json:"degraded,omitempty"`
}

// Outcome is the full result of one session.
type Outcome struct {
	Topic       string           `json:"topic"`
	Rounds      []RoundRecord    `json:"rounds"`
	ResearchLog []ResearchRecord `json:"research_log,omitempty"`
	Messages    []core.Message   `json:"messages"`
	Evaluation  string           `json:"evaluation,omitempty"`
	Advice      string           `json:"advice,omitempty"`
}

// Options holds configuration overrides passed to New.
type Options struct {
	// Rounds is the total number of debate turns.
	Rounds int
	// Investment is carried for interface compatibility with callers that
	// budget sessions in currency; it is not enforced.
	Investment float64
	// Evidence is the research-phase provider. When nil the research phase
	// records a degraded entry per debater and the debate proceeds.
	Evidence agent.EvidenceProvider
	// Evaluator overrides the default transcript evaluator.
	Evaluator Evaluator
	// Advisor overrides the default compromise advisor.
	Advisor Advisor
	// DisableAdvice skips the advisor stage entirely.
	DisableAdvice bool
	// Logger receives session diagnostics.
	Logger logging.Logger
}

// Runner drives one debate session over a fixed panel of three debaters. The
// rotation order is the panel order, established at construction and cyclic
// for the whole session. A Runner is single-use state-wise only through its
// debaters; Run itself holds no Runner-level mutable state.
type Runner struct {
	debaters   [3]*agent.Debater
	rounds     int
	investment float64
	evidence   agent.EvidenceProvider
	evaluator  Evaluator
	advisor    Advisor
	logger     logging.Logger
}

// New constructs a Runner for the given panel. The aggregation stages default
// to the evaluation package backed by llm.
func New(panel [3]*agent.Debater, llm model.Model, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Rounds: DefaultRounds,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Evaluator == nil {
		opts.Evaluator = evaluation.NewEvaluator(llm)
	}
	if opts.Advisor == nil && !opts.DisableAdvice {
		opts.Advisor = evaluation.NewAdvisor(llm)
	}
	if opts.DisableAdvice {
		opts.Advisor = nil
	}
	if opts.Rounds <= 0 {
		opts.Rounds = DefaultRounds
	}

	return &Runner{
		debaters:   panel,
		rounds:     opts.Rounds,
		investment: opts.Investment,
		evidence:   opts.Evidence,
		evaluator:  opts.Evaluator,
		advisor:    opts.Advisor,
		logger:     opts.Logger,
	}
}

// Run executes the session: research phase, seeded rotation, aggregation.
// On a fatal error the partially filled Outcome is returned alongside the
// error so callers can surface the completed rounds; the aggregation stages
// are never invoked after a failed turn.
func (r *Runner) Run(ctx context.Context, topic string) (*Outcome, error) {
	outcome := &Outcome{Topic: topic}

	r.logger.Info("debate starting", "topic", topic, "rounds", r.rounds)

	if err := r.researchPhase(ctx, topic, outcome); err != nil {
		return outcome, err
	}

	transcript := core.NewTranscript()
	seed := core.NewMessage(SeedSender, topic, core.CauseSeed, r.debaters[0].Name())
	if _, err := transcript.Append(seed); err != nil {
		return outcome, err
	}

	incoming := seed
	for round := 1; round <= r.rounds; round++ {
		speaker := r.debaters[(round-1)%len(r.debaters)]

		news := speaker.Observe(transcript)
		r.logger.Debug("turn starting", "round", round, "speaker", speaker.Name(), "news", news)

		msg, err := speaker.Act(ctx, transcript, incoming)
		if err != nil {
			r.logger.Error("turn failed, aborting session", "round", round, "speaker", speaker.Name(), "error", err)
			return outcome, fmt.Errorf("round %d (%s): %w", round, speaker.Name(), err)
		}

		outcome.Rounds = append(outcome.Rounds, RoundRecord{Round: round, Speaker: speaker.Name(), Content: msg.Content})
		outcome.Messages = append(outcome.Messages, msg)
		logging.LogRound(r.logger, round, speaker.Name(), msg.Sequence)

		incoming = msg
	}

	return outcome, r.aggregate(ctx, topic, outcome)
}

// researchPhase grants each debater its one evidence request before any turn
// is taken. Provider breakdowns degrade; a generation failure while forming
// the research query is fatal like every other generation failure.
func (r *Runner) researchPhase(ctx context.Context, topic string, outcome *Outcome) error {
	for _, d := range r.debaters {
		if r.evidence == nil {
			outcome.ResearchLog = append(outcome.ResearchLog, ResearchRecord{Debater: d.Name(), Degraded: true})
			continue
		}

		report, err := d.RequestEvidence(ctx, topic, r.evidence)
		switch {
		case err == nil:
			outcome.ResearchLog = append(outcome.ResearchLog, ResearchRecord{Debater: d.Name(), Report: report})
			logging.LogResearch(r.logger, d.Name(), false, nil)
		case errors.Is(err, core.ErrEvidenceUnavailable), errors.Is(err, core.ErrEvidenceBudgetExhausted):
			outcome.ResearchLog = append(outcome.ResearchLog, ResearchRecord{Debater: d.Name(), Degraded: true})
			logging.LogResearch(r.logger, d.Name(), true, err)
		default:
			logging.LogResearch(r.logger, d.Name(), false, err)
			return fmt.Errorf("research phase (%s): %w", d.Name(), err)
		}
	}
	return nil
}

// aggregate runs the evaluator and, unless disabled, the advisor over the
// completed rotation.
func (r *Runner) aggregate(ctx context.Context, topic string, outcome *Outcome) error {
	evalText, err := r.evaluator.Evaluate(ctx, topic, outcome.Messages)
	if err != nil {
		return fmt.Errorf("evaluation: %w", err)
	}
	outcome.Evaluation = evalText
	r.logger.Info("evaluation completed", "topic", topic)

	if r.advisor == nil {
		return nil
	}
	advice, err := r.advisor.Advise(ctx, topic, evalText)
	if err != nil {
		return fmt.Errorf("advice: %w", err)
	}
	outcome.Advice = advice
	r.logger.Info("advice completed", "topic", topic)

	return nil
}
