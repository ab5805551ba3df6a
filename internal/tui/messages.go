package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jpalmerr/pulsewatch"
)

// StateMsg carries a new watcher state
type StateMsg struct {
	State pulsewatch.State
}

// TriggerDoneMsg signals that a trigger request has finished.
// Sent is false when the watcher suppressed it because research was active.
type TriggerDoneMsg struct {
	Sent bool
}

// updatesClosedMsg signals that the state subscription ended
type updatesClosedMsg struct{}

// listenCmd waits for the next state on ch.
func listenCmd(ch <-chan pulsewatch.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return StateMsg{State: state}
	}
}

// triggerCmd asks the source to start a research cycle.
func triggerCmd(ctx context.Context, src Source) tea.Cmd {
	return func() tea.Msg {
		return TriggerDoneMsg{Sent: src.Trigger(ctx)}
	}
}
