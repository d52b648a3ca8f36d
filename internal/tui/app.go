// Package tui provides an interactive terminal frontend for running debates.
// It follows the bubbletea Elm architecture: the App model holds all state,
// Update reacts to messages, and View renders the current screen.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hupe1980/debatemesh"
	"github.com/hupe1980/debatemesh/agent"
	"github.com/hupe1980/debatemesh/logging"
	"github.com/hupe1980/debatemesh/model"
	"github.com/hupe1980/debatemesh/runner"
)

// appState represents which "screen" we're on.
type appState int

const (
	stateForm    appState = iota // topic + rounds entry
	stateRunning                 // debate in progress
	stateResults                 // outcome display
)

const (
	minRounds = 3
	maxRounds = 12
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginBottom(1)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
	speakerStyle = lipgloss.NewStyle().Bold(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
)

// debateFinishedMsg carries the outcome of a completed (or aborted) session
// back into the Update loop.
type debateFinishedMsg struct {
	outcome *runner.Outcome
	err     error
}

// Options configures the TUI application.
type Options struct {
	// Rounds is the initial round count shown in the form.
	Rounds int
	// Evidence enables the research phase when non-nil.
	Evidence agent.EvidenceProvider
	// DisableAdvice skips the compromise stage.
	DisableAdvice bool
	// Logger receives session diagnostics.
	Logger logging.Logger
}

// App is the main application model; it holds all TUI state.
type App struct {
	state appState
	llm   model.Model
	opts  Options

	topic  textinput.Model
	rounds int
	spin   spinner.Model

	outcome *runner.Outcome
	err     error

	scroll int
	width  int
	height int
}

// NewApp creates the debate TUI around the given model.
func NewApp(llm model.Model, optFns ...func(o *Options)) *App {
	opts := Options{
		Rounds: runner.DefaultRounds,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Rounds < minRounds {
		opts.Rounds = minRounds
	}
	if opts.Rounds > maxRounds {
		opts.Rounds = maxRounds
	}

	topic := textinput.New()
	topic.Placeholder = "Should students be allowed to use AI for homework?"
	topic.CharLimit = 200
	topic.Width = 64
	topic.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &App{
		state:  stateForm,
		llm:    llm,
		opts:   opts,
		topic:  topic,
		rounds: opts.Rounds,
		spin:   spin,
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		if a.state != stateRunning {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case debateFinishedMsg:
		a.outcome = msg.outcome
		a.err = msg.err
		a.state = stateResults
		a.scroll = 0
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			// "q" is a quit key only outside the form, where it would
			// otherwise be swallowed as topic text.
			if a.state == stateResults {
				return a, tea.Quit
			}
		case "esc":
			switch a.state {
			case stateForm:
				return a, tea.Quit
			case stateResults:
				return a.resetForm()
			}
		case "enter":
			if a.state == stateForm {
				return a.startDebate()
			}
		case "n":
			if a.state == stateResults {
				return a.resetForm()
			}
		case "left":
			if a.state == stateForm && a.rounds > minRounds {
				a.rounds--
				return a, nil
			}
		case "right":
			if a.state == stateForm && a.rounds < maxRounds {
				a.rounds++
				return a, nil
			}
		case "up", "k":
			if a.state == stateResults && a.scroll > 0 {
				a.scroll--
				return a, nil
			}
		case "down", "j":
			if a.state == stateResults {
				a.scroll++
				return a, nil
			}
		}
	}

	if a.state == stateForm {
		var cmd tea.Cmd
		a.topic, cmd = a.topic.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) startDebate() (tea.Model, tea.Cmd) {
	topic := strings.TrimSpace(a.topic.Value())
	if topic == "" {
		a.err = fmt.Errorf("a debate needs a topic")
		return a, nil
	}
	a.err = nil
	a.state = stateRunning

	rounds := a.rounds
	return a, tea.Batch(a.spin.Tick, func() tea.Msg {
		outcome, err := debatemesh.Debate(context.Background(), a.llm, topic, func(o *runner.Options) {
			o.Rounds = rounds
			o.Evidence = a.opts.Evidence
			o.DisableAdvice = a.opts.DisableAdvice
			o.Logger = a.opts.Logger
		})
		return debateFinishedMsg{outcome: outcome, err: err}
	})
}

func (a *App) resetForm() (tea.Model, tea.Cmd) {
	a.state = stateForm
	a.outcome = nil
	a.err = nil
	a.scroll = 0
	a.topic.SetValue("")
	a.topic.Focus()
	return a, textinput.Blink
}

// View renders the current state to a string.
func (a *App) View() string {
	header := titleStyle.Render("⚖ DEBATEMESH")

	var content string
	switch a.state {
	case stateForm:
		content = a.renderForm()
	case stateRunning:
		content = fmt.Sprintf("%s Debating %q over %d rounds...", a.spin.View(), strings.TrimSpace(a.topic.Value()), a.rounds)
	case stateResults:
		content = a.renderResults()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

func (a *App) renderForm() string {
	lines := []string{
		sectionStyle.Render("Topic"),
		a.topic.View(),
		"",
		sectionStyle.Render("Rounds") + fmt.Sprintf("  ◀ %d ▶", a.rounds),
	}
	if a.err != nil {
		lines = append(lines, "", errStyle.Render(a.err.Error()))
	}
	lines = append(lines, hintStyle.Render("Enter → start debate    ←/→ → adjust rounds    Ctrl+C → quit"))
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderResults() string {
	var sections []string

	if a.err != nil {
		sections = append(sections, errStyle.Render(fmt.Sprintf("Debate aborted: %v", a.err)))
	}

	if a.outcome != nil {
		o := a.outcome
		sections = append(sections, sectionStyle.Render("Topic")+" "+o.Topic)

		if o.Advice != "" {
			sections = append(sections, sectionStyle.Render("Advice"), o.Advice)
		}
		if o.Evaluation != "" {
			sections = append(sections, sectionStyle.Render("Evaluation"), o.Evaluation)
		}
		if len(o.ResearchLog) > 0 {
			var research []string
			for _, r := range o.ResearchLog {
				if r.Degraded {
					research = append(research, fmt.Sprintf("%s: no evidence gathered", r.Debater))
					continue
				}
				research = append(research, speakerStyle.Render(r.Debater)+"\n"+r.Report)
			}
			sections = append(sections, sectionStyle.Render("Research"), strings.Join(research, "\n\n"))
		}
		if len(o.Rounds) > 0 {
			var rounds []string
			for _, r := range o.Rounds {
				rounds = append(rounds, speakerStyle.Render(fmt.Sprintf("Round %d · %s", r.Round, r.Speaker))+"\n"+r.Content)
			}
			sections = append(sections, sectionStyle.Render("Debate"), strings.Join(rounds, "\n\n"))
		}
	}

	body := a.clipToViewport(strings.Join(sections, "\n\n"))
	hint := hintStyle.Render("↑/↓ → scroll    n → new debate    q → quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, hint)
}

// clipToViewport applies the scroll offset and trims the body to the terminal
// height so long transcripts stay navigable.
func (a *App) clipToViewport(body string) string {
	lines := strings.Split(body, "\n")

	visible := a.height - 6
	if visible < 10 {
		visible = 10
	}
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if a.scroll > maxScroll {
		a.scroll = maxScroll
	}

	end := a.scroll + visible
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[a.scroll:end], "\n")
}
