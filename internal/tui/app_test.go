package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hupe1980/debatemesh/model"
	"github.com/hupe1980/debatemesh/runner"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeTopic(t *testing.T, app *App, topic string) {
	t.Helper()
	for _, r := range topic {
		m, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		app = m.(*App)
	}
}

func TestFormRequiresTopic(t *testing.T) {
	app := NewApp(model.NewMockModel("mock", "mock"))

	m, _ := app.Update(keyMsg("enter"))
	app = m.(*App)

	if app.state != stateForm {
		t.Fatalf("empty topic must not start a debate, state=%d", app.state)
	}
	if app.err == nil {
		t.Fatalf("expected a validation error for the empty topic")
	}
	if !strings.Contains(app.View(), "topic") {
		t.Fatalf("validation error should be rendered")
	}
}

func TestRoundsAdjustmentStaysInBounds(t *testing.T) {
	app := NewApp(model.NewMockModel("mock", "mock"))

	if app.rounds != runner.DefaultRounds {
		t.Fatalf("expected default rounds %d, got %d", runner.DefaultRounds, app.rounds)
	}

	for i := 0; i < 20; i++ {
		m, _ := app.Update(keyMsg("left"))
		app = m.(*App)
	}
	if app.rounds != minRounds {
		t.Fatalf("expected rounds floor %d, got %d", minRounds, app.rounds)
	}

	for i := 0; i < 40; i++ {
		m, _ := app.Update(keyMsg("right"))
		app = m.(*App)
	}
	if app.rounds != maxRounds {
		t.Fatalf("expected rounds ceiling %d, got %d", maxRounds, app.rounds)
	}
}

func TestDebateRunsEndToEnd(t *testing.T) {
	llm := model.NewMockModel("mock", "mock")
	app := NewApp(llm, func(o *Options) {
		o.Rounds = 3
		o.DisableAdvice = true
	})

	typeTopic(t, app, "ban homework")
	m, cmd := app.Update(keyMsg("enter"))
	app = m.(*App)

	if app.state != stateRunning {
		t.Fatalf("expected running state, got %d", app.state)
	}
	if cmd == nil {
		t.Fatalf("starting a debate must yield a command")
	}

	// The batch contains the spinner tick and the debate runner; execute the
	// runner by walking the batch output for the finished message.
	finished := drainForFinished(t, cmd)

	m, _ = app.Update(finished)
	app = m.(*App)

	if app.state != stateResults {
		t.Fatalf("expected results state, got %d", app.state)
	}
	if app.err != nil {
		t.Fatalf("mock debate should not fail: %v", app.err)
	}
	if app.outcome == nil || len(app.outcome.Rounds) != 3 {
		t.Fatalf("expected 3 recorded rounds")
	}

	view := app.View()
	if !strings.Contains(view, "Evaluation") || !strings.Contains(view, "Round 1") {
		t.Fatalf("results view missing sections:\n%s", view)
	}
}

func TestNewDebateResetsForm(t *testing.T) {
	app := NewApp(model.NewMockModel("mock", "mock"))
	app.state = stateResults
	app.outcome = &runner.Outcome{Topic: "old"}

	m, _ := app.Update(keyMsg("n"))
	app = m.(*App)

	if app.state != stateForm {
		t.Fatalf("expected form state after reset, got %d", app.state)
	}
	if app.outcome != nil {
		t.Fatalf("outcome should be cleared on reset")
	}
	if app.topic.Value() != "" {
		t.Fatalf("topic input should be cleared on reset")
	}
}

// drainForFinished executes the tea.Cmd tree until a debateFinishedMsg
// appears. Spinner ticks are ignored.
func drainForFinished(t *testing.T, cmd tea.Cmd) debateFinishedMsg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case debateFinishedMsg:
			return msg
		case tea.BatchMsg:
			queue = append(queue, msg...)
		}
	}
	t.Fatalf("debate never finished")
	return debateFinishedMsg{}
}
