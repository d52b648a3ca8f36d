package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/logging"
	"github.com/hupe1980/debatemesh/model"
)

// EvidenceProvider supplies a synthesized research report for a topic. The
// research package provides the production implementation; tests stub it.
type EvidenceProvider interface {
	Research(ctx context.Context, topic string) (string, error)
}

// Options configures a Debater instance.
type Options struct {
	// EvidenceRequestCap bounds how many evidence requests the agent may make
	// per session. The debate format fixes this at one.
	EvidenceRequestCap int
	// Logger receives per-turn diagnostics.
	Logger logging.Logger
}

// Debater is a debate participant holding a fixed identity and viewpoint. It
// is created once per session, mutated only by its own observe/act cycle and
// evidence requests, and discarded at session end. A Debater is not safe for
// concurrent use; the runner serializes all access by turn order.
type Debater struct {
	name      string
	viewpoint string
	opponents [2]string

	llm    model.Model
	logger logging.Logger

	evidence strings.Builder
	budget   *core.CallBudget

	turns    int // completed speaking turns
	lastSeen int // highest transcript length seen by Observe
}

// New creates a Debater wired to its two opponents. The opponent order is the
// addressing order of every outgoing message.
func New(name, viewpoint, opponent1, opponent2 string, llm model.Model, optFns ...func(o *Options)) *Debater {
	opts := Options{
		EvidenceRequestCap: 1,
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Debater{
		name:      name,
		viewpoint: viewpoint,
		opponents: [2]string{opponent1, opponent2},
		llm:       llm,
		logger:    opts.Logger,
		budget:    core.NewCallBudget(opts.EvidenceRequestCap),
	}
}

// Name returns the agent identifier used for addressing.
func (d *Debater) Name() string { return d.name }

// Viewpoint returns the persona label the agent argues from.
func (d *Debater) Viewpoint() string { return d.viewpoint }

// Opponents returns the ordered pair of addressees for outgoing messages.
func (d *Debater) Opponents() (string, string) { return d.opponents[0], d.opponents[1] }

// Turns returns the number of speaking turns completed so far.
func (d *Debater) Turns() int { return d.turns }

// Evidence returns the accumulated evidence ledger.
func (d *Debater) Evidence() string { return d.evidence.String() }

// EvidenceRequestsUsed returns how many evidence requests have been spent.
func (d *Debater) EvidenceRequestsUsed() int { return d.budget.Used() }

// Observe recomputes the agent's visible-message set and returns how many
// messages are new since the last observation. It is a readiness signal only;
// the runner already knows whose turn it is.
func (d *Debater) Observe(transcript *core.Transcript) int {
	visible := transcript.VisibleTo(d.name)
	fresh := 0
	for _, msg := range visible {
		if msg.Sequence > d.lastSeen {
			fresh++
		}
	}
	if n := len(visible); n > 0 {
		d.lastSeen = visible[n-1].Sequence
	}
	return fresh
}

// Act produces the agent's next spoken message. It rebuilds the local context
// from the transcript, selects the phase instruction from the agent's own turn
// counter, invokes the content generator once and appends the addressed result
// to the transcript. A generator failure is fatal to the turn and propagates
// untouched apart from wrapping; the turn counter only advances on success.
func (d *Debater) Act(ctx context.Context, transcript *core.Transcript, incoming core.Message) (core.Message, error) {
	history := transcript.HistoryFor(d.name)

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Sender, msg.Content))
	}
	localContext := strings.Join(lines, "\n")

	// The topic travels as the first message an agent can see; fall back to
	// the incoming message when the history is unexpectedly empty.
	topic := incoming.Content
	if len(history) > 0 {
		topic = history[0].Content
	}

	turn := d.turns + 1
	instruction := phaseInstruction(turn, d.name, d.viewpoint)

	prompt, err := speakPrompt(d.name, d.opponents[0], d.opponents[1], topic, localContext, d.evidence.String(), instruction)
	if err != nil {
		return core.Message{}, fmt.Errorf("assemble speak prompt: %w", err)
	}

	start := time.Now()
	resp, err := d.llm.Generate(ctx, model.Request{Prompt: prompt})
	if err != nil {
		return core.Message{}, core.NewGenerationError("speak", err)
	}
	d.logger.Debug("turn generated", "agent", d.name, "turn", turn, "duration", time.Since(start))

	msg := core.NewMessage(d.name, resp.Text, core.CauseSpeak, d.opponents[0], d.opponents[1])
	seq, err := transcript.Append(msg)
	if err != nil {
		return core.Message{}, err
	}
	msg.Sequence = seq
	d.turns++

	return msg, nil
}

// RequestEvidence performs the agent's one-shot evidence gathering. Once the
// request budget is spent it returns core.ErrEvidenceBudgetExhausted without
// touching the ledger; this is an expected refusal, not a failure. A provider
// failure degrades to core.ErrEvidenceUnavailable and also leaves the budget
// unspent, while a query-generation failure is fatal like any other
// generation failure.
func (d *Debater) RequestEvidence(ctx context.Context, topic string, provider EvidenceProvider) (string, error) {
	if d.budget.Remaining() == 0 {
		return "", core.ErrEvidenceBudgetExhausted
	}

	prompt, err := evidenceQueryPrompt(d.name, d.viewpoint, topic)
	if err != nil {
		return "", fmt.Errorf("assemble evidence query prompt: %w", err)
	}
	resp, err := d.llm.Generate(ctx, model.Request{Prompt: prompt})
	if err != nil {
		return "", core.NewGenerationError("research-query", err)
	}
	query := strings.TrimSpace(resp.Text)

	report, err := provider.Research(ctx, query)
	if err != nil {
		d.logger.Warn("evidence provider failed", "agent", d.name, "error", err)
		return "", fmt.Errorf("%w: %v", core.ErrEvidenceUnavailable, err)
	}

	fmt.Fprintf(&d.evidence, "\n\n[%s]\nResearch Query: %s\nResearch Result: %s",
		time.Now().UTC().Format(time.RFC3339), query, report)
	if err := d.budget.Spend(); err != nil {
		return "", err
	}

	return report, nil
}
