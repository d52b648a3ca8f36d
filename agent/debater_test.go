package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/model"
)

type stubProvider struct {
	report string
	err    error
	calls  int
}

func (s *stubProvider) Research(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.report, s.err
}

func seedTranscript(t *testing.T, topic string) *core.Transcript {
	t.Helper()
	tr := core.NewTranscript()
	_, err := tr.Append(core.NewMessage("User", topic, core.CauseSeed, "Principal"))
	require.NoError(t, err)
	return tr
}

func TestActAddressesBothOpponents(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	d := New("Principal", "School", "John", "Mom", llm)
	tr := seedTranscript(t, "Should schools ban smartphones?")

	msg, err := d.Act(context.Background(), tr, tr.Messages()[0])
	require.NoError(t, err)

	assert.Equal(t, "Principal", msg.Sender)
	assert.Equal(t, []string{"John", "Mom"}, msg.Recipients)
	assert.Equal(t, core.CauseSpeak, msg.Cause)
	assert.Equal(t, 2, msg.Sequence)
	assert.Equal(t, 2, tr.Len(), "Act must append its output")
	assert.Equal(t, 1, d.Turns())
}

func TestActPhaseByOwnTurnCounter(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	d := New("Principal", "School", "John", "Mom", llm)
	tr := seedTranscript(t, "topic")
	incoming := tr.Messages()[0]

	// Interleave opponent messages between the agent's turns; the phase must
	// still follow the agent's own k-th turn, not the transcript length.
	for turn := 1; turn <= 5; turn++ {
		msg, err := d.Act(context.Background(), tr, incoming)
		require.NoError(t, err)

		reqs := llm.Requests()
		prompt := reqs[len(reqs)-1].Prompt
		if turn <= 3 {
			assert.Contains(t, prompt, fmt.Sprintf("This is round %d of 3 opening rounds", turn))
			assert.Contains(t, prompt, "Do NOT rebut")
			assert.NotContains(t, prompt, "restate your view")
		} else {
			assert.Contains(t, prompt, fmt.Sprintf("This is round %d.", turn))
			assert.Contains(t, prompt, "first restate your view")
			assert.NotContains(t, prompt, "opening rounds")
		}

		_, err = tr.Append(core.NewMessage("John", fmt.Sprintf("rebuttal %d", turn), core.CauseSpeak, "Mom", "Principal"))
		require.NoError(t, err)
		incoming = msg
	}
}

func TestActContextIsOwnHistoryPlusAddressed(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	d := New("Principal", "School", "John", "Mom", llm)
	tr := seedTranscript(t, "topic")

	_, err := tr.Append(core.NewMessage("John", "to others only", core.CauseSpeak, "Mom", "Bystander"))
	require.NoError(t, err)
	_, err = tr.Append(core.NewMessage("Mom", "to principal", core.CauseSpeak, "Principal", "John"))
	require.NoError(t, err)

	_, err = d.Act(context.Background(), tr, tr.Messages()[0])
	require.NoError(t, err)

	prompt := llm.Requests()[0].Prompt
	assert.Contains(t, prompt, "User: topic")
	assert.Contains(t, prompt, "Mom: to principal")
	assert.NotContains(t, prompt, "to others only", "unaddressed messages must stay invisible")
}

func TestActGenerationFailureIsFatal(t *testing.T) {
	boom := errors.New("provider down")
	llm := model.NewMockModel("test", "mock")
	llm.FailOn(1, boom)
	d := New("Principal", "School", "John", "Mom", llm)
	tr := seedTranscript(t, "topic")

	_, err := d.Act(context.Background(), tr, tr.Messages()[0])
	require.Error(t, err)
	assert.True(t, core.IsGenerationError(err))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, tr.Len(), "failed turn must not append")
	assert.Zero(t, d.Turns(), "failed turn must not advance the counter")
}

func TestRequestEvidenceAppendsLedgerOnce(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	llm.Enqueue("impact of phone bans on grades")
	provider := &stubProvider{report: "test scores rose 6% [Source: example.org]"}
	d := New("Principal", "School", "John", "Mom", llm)

	report, err := d.RequestEvidence(context.Background(), "smartphone ban", provider)
	require.NoError(t, err)
	assert.Equal(t, provider.report, report)
	assert.Equal(t, 1, d.EvidenceRequestsUsed())
	assert.Contains(t, d.Evidence(), "Research Query: impact of phone bans on grades")
	assert.Contains(t, d.Evidence(), "Research Result: test scores rose 6%")

	// Second request: refused with the sentinel, ledger untouched.
	before := d.Evidence()
	_, err = d.RequestEvidence(context.Background(), "smartphone ban", provider)
	require.ErrorIs(t, err, core.ErrEvidenceBudgetExhausted)
	assert.Equal(t, before, d.Evidence())
	assert.Equal(t, 1, d.EvidenceRequestsUsed())
	assert.Equal(t, 1, provider.calls)
}

func TestRequestEvidenceProviderFailureDegrades(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	provider := &stubProvider{err: errors.New("search quota exceeded")}
	d := New("Principal", "School", "John", "Mom", llm)

	_, err := d.RequestEvidence(context.Background(), "topic", provider)
	require.ErrorIs(t, err, core.ErrEvidenceUnavailable)
	assert.Empty(t, d.Evidence())
	assert.Zero(t, d.EvidenceRequestsUsed(), "a failed request must not consume the budget")
}

func TestObserveCountsOnlyNewAddressedMessages(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	d := New("Principal", "School", "John", "Mom", llm)
	tr := seedTranscript(t, "topic")

	assert.Equal(t, 1, d.Observe(tr))
	assert.Zero(t, d.Observe(tr), "already-seen messages are not news")

	_, err := tr.Append(core.NewMessage("John", "j1", core.CauseSpeak, "Mom", "Principal"))
	require.NoError(t, err)
	_, err = tr.Append(core.NewMessage("Mom", "m1", core.CauseSpeak, "John", "Bystander"))
	require.NoError(t, err)

	assert.Equal(t, 1, d.Observe(tr), "only addressed messages count as news")
}

func TestEvidenceFlowsIntoSpeakPrompt(t *testing.T) {
	llm := model.NewMockModel("test", "mock")
	llm.Enqueue("query text")
	provider := &stubProvider{report: "strong evidence"}
	d := New("Principal", "School", "John", "Mom", llm)

	_, err := d.RequestEvidence(context.Background(), "topic", provider)
	require.NoError(t, err)

	tr := seedTranscript(t, "topic")
	_, err = d.Act(context.Background(), tr, tr.Messages()[0])
	require.NoError(t, err)

	reqs := llm.Requests()
	prompt := reqs[len(reqs)-1].Prompt
	idx := strings.Index(prompt, "## RESEARCH INFORMATION")
	require.GreaterOrEqual(t, idx, 0)
	assert.Contains(t, prompt[idx:], "strong evidence")
}
