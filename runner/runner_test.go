package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/debatemesh/agent"
	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/model"
)

type recordingEvaluator struct {
	calls    int
	topic    string
	messages []core.Message
	out      string
	err      error
}

func (r *recordingEvaluator) Evaluate(_ context.Context, topic string, messages []core.Message) (string, error) {
	r.calls++
	r.topic = topic
	r.messages = messages
	return r.out, r.err
}

type recordingAdvisor struct {
	calls      int
	topic      string
	evaluation string
	out        string
}

func (r *recordingAdvisor) Advise(_ context.Context, topic, evaluation string) (string, error) {
	r.calls++
	r.topic = topic
	r.evaluation = evaluation
	return r.out, nil
}

type stubEvidence struct {
	report string
	err    error
	topics []string
}

func (s *stubEvidence) Research(_ context.Context, topic string) (string, error) {
	s.topics = append(s.topics, topic)
	if s.err != nil {
		return "", s.err
	}
	return s.report, nil
}

func testPanel(llm model.Model) [3]*agent.Debater {
	return [3]*agent.Debater{
		agent.New("Principal", "School", "John", "Mom", llm),
		agent.New("John", "Student", "Mom", "Principal", llm),
		agent.New("Mom", "Parent", "Principal", "John", llm),
	}
}

func TestRotationIsFixedCyclicPermutation(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	r := New(testPanel(llm), llm, func(o *Options) { o.Rounds = 6 })

	outcome, err := r.Run(context.Background(), "topic")
	require.NoError(t, err)

	require.Len(t, outcome.Rounds, 6)
	want := []string{"Principal", "John", "Mom", "Principal", "John", "Mom"}
	for i, rec := range outcome.Rounds {
		assert.Equal(t, i+1, rec.Round)
		assert.Equal(t, want[i], rec.Speaker)
		assert.Equal(t, want[i], outcome.Messages[i].Sender)
	}

	// Seed holds sequence 1; spoken messages follow in strict order.
	for i, msg := range outcome.Messages {
		assert.Equal(t, i+2, msg.Sequence)
	}
}

func TestEndToEndSmartphoneDebate(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	evidence := &stubEvidence{report: "research findings"}
	evaluator := &recordingEvaluator{out: "the evaluation"}
	advisor := &recordingAdvisor{out: "the advice"}

	r := New(testPanel(llm), llm, func(o *Options) {
		o.Rounds = 6
		o.Evidence = evidence
		o.Evaluator = evaluator
		o.Advisor = advisor
	})

	topic := "Should schools ban smartphones?"
	outcome, err := r.Run(context.Background(), topic)
	require.NoError(t, err)

	// Research phase ran once per debater, before any turn.
	require.Len(t, outcome.ResearchLog, 3)
	for i, name := range []string{"Principal", "John", "Mom"} {
		assert.Equal(t, name, outcome.ResearchLog[i].Debater)
		assert.False(t, outcome.ResearchLog[i].Degraded)
		assert.Equal(t, "research findings", outcome.ResearchLog[i].Report)
	}

	// Exactly one evaluator call receiving all six entries in order.
	require.Equal(t, 1, evaluator.calls)
	assert.Equal(t, topic, evaluator.topic)
	require.Len(t, evaluator.messages, 6)
	for i, msg := range evaluator.messages {
		assert.Equal(t, outcome.Messages[i].ID, msg.ID)
	}

	// Exactly one advisor call receiving the evaluator's output.
	require.Equal(t, 1, advisor.calls)
	assert.Equal(t, topic, advisor.topic)
	assert.Equal(t, "the evaluation", advisor.evaluation)

	assert.Equal(t, "the evaluation", outcome.Evaluation)
	assert.Equal(t, "the advice", outcome.Advice)
}

func TestGenerationFailureAbortsSession(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	llm.FailOn(3, errors.New("provider timeout")) // third Act, no research calls
	evaluator := &recordingEvaluator{}
	advisor := &recordingAdvisor{}

	r := New(testPanel(llm), llm, func(o *Options) {
		o.Rounds = 6
		o.Evaluator = evaluator
		o.Advisor = advisor
	})

	outcome, err := r.Run(context.Background(), "topic")
	require.Error(t, err)
	assert.True(t, core.IsGenerationError(err))
	assert.Contains(t, err.Error(), "round 3")
	assert.Contains(t, err.Error(), "Mom")

	require.NotNil(t, outcome)
	assert.Len(t, outcome.Rounds, 2, "only completed turns are recorded")
	assert.Zero(t, evaluator.calls, "aggregation must not run after a failed turn")
	assert.Zero(t, advisor.calls)
}

func TestDegradedResearchDoesNotAbort(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	evidence := &stubEvidence{err: errors.New("search quota exceeded")}

	r := New(testPanel(llm), llm, func(o *Options) {
		o.Rounds = 3
		o.Evidence = evidence
	})

	outcome, err := r.Run(context.Background(), "topic")
	require.NoError(t, err)

	require.Len(t, outcome.ResearchLog, 3)
	for _, rec := range outcome.ResearchLog {
		assert.True(t, rec.Degraded)
	}
	assert.Len(t, outcome.Rounds, 3)
}

func TestReplayYieldsIdenticalTranscript(t *testing.T) {
	run := func() *Outcome {
		llm := model.NewMockModel("test", "mock")
		llm.Enqueue("p1", "j1", "m1", "p2", "j2", "m2", "eval", "advice")
		r := New(testPanel(llm), llm, func(o *Options) { o.Rounds = 6 })
		outcome, err := r.Run(context.Background(), "fixed topic")
		require.NoError(t, err)
		return outcome
	}

	first := run()
	second := run()

	require.Len(t, second.Messages, len(first.Messages))
	for i := range first.Messages {
		assert.Equal(t, first.Messages[i].Sequence, second.Messages[i].Sequence)
		assert.Equal(t, first.Messages[i].Sender, second.Messages[i].Sender)
		assert.Equal(t, first.Messages[i].Recipients, second.Messages[i].Recipients)
		assert.Equal(t, first.Messages[i].Content, second.Messages[i].Content)
	}
	assert.Equal(t, first.Evaluation, second.Evaluation)
	assert.Equal(t, first.Advice, second.Advice)
}

func TestSeedAddressedToFirstSpeakerOnly(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	r := New(testPanel(llm), llm, func(o *Options) { o.Rounds = 1 })

	_, err := r.Run(context.Background(), "the topic")
	require.NoError(t, err)

	// The first speaker's prompt carries the seed; its history starts with it.
	prompt := llm.Requests()[0].Prompt
	assert.Contains(t, prompt, fmt.Sprintf("%s: the topic", SeedSender))
	assert.True(t, strings.Contains(prompt, "the topic"))
}

func TestDisableAdviceSkipsAdvisor(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	r := New(testPanel(llm), llm, func(o *Options) {
		o.Rounds = 1
		o.DisableAdvice = true
	})

	outcome, err := r.Run(context.Background(), "topic")
	require.NoError(t, err)
	assert.Empty(t, outcome.Advice)
}

func TestNilEvidenceProviderDegrades(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	r := New(testPanel(llm), llm, func(o *Options) { o.Rounds = 1 })

	outcome, err := r.Run(context.Background(), "topic")
	require.NoError(t, err)
	require.Len(t, outcome.ResearchLog, 3)
	for _, rec := range outcome.ResearchLog {
		assert.True(t, rec.Degraded)
		assert.Empty(t, rec.Report)
	}
}
