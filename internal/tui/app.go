package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jpalmerr/pulsewatch"
)

// Source is the watcher the view renders and controls.
type Source interface {
	State() pulsewatch.State
	Subscribe() (<-chan pulsewatch.State, func())
	Trigger(ctx context.Context) bool
}

// Model is the Bubble Tea model of the status view
type Model struct {
	ctx     context.Context
	source  Source
	updates <-chan pulsewatch.State

	Title   string
	BaseURL string

	State      pulsewatch.State
	Spinner    spinner.Model
	Triggering bool
	Notice     string

	Width    int
	Height   int
	Quitting bool
}

// NewModel creates a model that renders updates received on the channel.
// The initial state is read from the source.
func NewModel(ctx context.Context, src Source, updates <-chan pulsewatch.State, title, baseURL string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = noticeStyle

	if title == "" {
		title = "PulseWatch"
	}

	return Model{
		ctx:     ctx,
		source:  src,
		updates: updates,
		Title:   title,
		BaseURL: baseURL,
		State:   src.State(),
		Spinner: sp,
	}
}

// Init starts listening for state updates and animating the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(listenCmd(m.updates), m.Spinner.Tick)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case StateMsg:
		m.State = msg.State
		return m, listenCmd(m.updates)

	case TriggerDoneMsg:
		m.Triggering = false
		if !msg.Sent {
			m.Notice = "Research already active"
		}
		return m, nil

	case updatesClosedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		m.Quitting = true
		return m, tea.Quit

	case key.Matches(msg, Keys.Trigger):
		if !m.CanTrigger() {
			return m, nil
		}
		m.Triggering = true
		m.Notice = ""
		return m, triggerCmd(m.ctx, m.source)
	}
	return m, nil
}

// CanTrigger reports whether a trigger request may be sent now.
func (m Model) CanTrigger() bool {
	return !m.Triggering && !m.State.Active()
}

// Run renders src in the terminal until the user quits or ctx is cancelled.
func Run(ctx context.Context, src Source, title, baseURL string) error {
	updates, unsubscribe := src.Subscribe()
	defer unsubscribe()

	p := tea.NewProgram(
		NewModel(ctx, src, updates, title, baseURL),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
