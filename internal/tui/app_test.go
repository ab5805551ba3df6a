package tui

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jpalmerr/pulsewatch"
)

type fakeSource struct {
	state    pulsewatch.State
	triggers atomic.Int32
	sent     bool
}

func (f *fakeSource) State() pulsewatch.State { return f.state }

func (f *fakeSource) Subscribe() (<-chan pulsewatch.State, func()) {
	ch := make(chan pulsewatch.State)
	return ch, func() { close(ch) }
}

func (f *fakeSource) Trigger(context.Context) bool {
	f.triggers.Add(1)
	return f.sent
}

func loadedState(status pulsewatch.Status) pulsewatch.State {
	return pulsewatch.State{
		Snapshot: &pulsewatch.Snapshot{
			Status:        status,
			CurrentAction: "reviewing literature",
			LastUpdated:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Logs: []pulsewatch.LogEntry{
			{ID: "2", Message: "Status updated: " + status.String(), Type: pulsewatch.LogSuccess, Timestamp: time.Now()},
			{ID: "1", Message: "Fetching status...", Type: pulsewatch.LogInfo, Timestamp: time.Now()},
		},
	}
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(src *fakeSource, updates <-chan pulsewatch.State) Model {
	return NewModel(context.Background(), src, updates, "", "http://localhost:8787")
}

func TestNewModel_Defaults(t *testing.T) {
	m := newTestModel(&fakeSource{}, nil)

	if m.Title != "PulseWatch" {
		t.Errorf("Title = %q, want PulseWatch", m.Title)
	}
	if m.State.Loaded() {
		t.Error("State should not be loaded")
	}
}

func TestView_LoadingSpinner(t *testing.T) {
	src := &fakeSource{state: pulsewatch.State{Error: "connection refused"}}
	m := newTestModel(src, nil)

	view := m.View()
	if !strings.Contains(view, "Waiting for status from http://localhost:8787") {
		t.Errorf("loading view missing wait message:\n%s", view)
	}
	if !strings.Contains(view, "connection refused") {
		t.Errorf("loading view should show the last error:\n%s", view)
	}
	if strings.Contains(view, "System Status") {
		t.Error("status card should not render before the first snapshot")
	}
}

func TestView_Loaded(t *testing.T) {
	m := newTestModel(&fakeSource{state: loadedState(pulsewatch.StatusIdle)}, nil)

	view := m.View()
	for _, want := range []string{
		"PulseWatch",
		"System Status",
		"idle",
		"reviewing literature",
		"Debug Logs",
		"[success]",
		"Status updated: idle",
		"Fetching status...",
		"start research cycle",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestView_UnknownTimestamp(t *testing.T) {
	state := loadedState(pulsewatch.StatusIdle)
	state.Snapshot.LastUpdated = time.Time{}
	m := newTestModel(&fakeSource{state: state}, nil)

	if !strings.Contains(m.View(), "Updated: unknown") {
		t.Errorf("view should show an unknown update time:\n%s", m.View())
	}
}

func TestView_ErrorBanner(t *testing.T) {
	state := loadedState(pulsewatch.StatusIdle)
	state.Error = "Failed to trigger research"
	m := newTestModel(&fakeSource{state: state}, nil)

	if !strings.Contains(m.View(), "Failed to trigger research") {
		t.Error("view should show the error banner")
	}
}

func TestView_LogLinesLimitedByHeight(t *testing.T) {
	state := loadedState(pulsewatch.StatusIdle)
	for i := 0; i < 40; i++ {
		state.Logs = append(state.Logs, pulsewatch.LogEntry{Message: "old entry", Type: pulsewatch.LogInfo})
	}
	m := newTestModel(&fakeSource{state: state}, nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	view := updated.(Model).View()

	if got := strings.Count(view, "old entry"); got >= 40 {
		t.Errorf("rendered %d old entries, want the log clipped to the window", got)
	}
}

func TestView_Quitting(t *testing.T) {
	m := newTestModel(&fakeSource{}, nil)
	m.Quitting = true
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestUpdate_StateMsg(t *testing.T) {
	updates := make(chan pulsewatch.State, 1)
	m := newTestModel(&fakeSource{}, updates)

	next, cmd := m.Update(StateMsg{State: loadedState(pulsewatch.StatusActive)})
	got := next.(Model)

	if !got.State.Active() {
		t.Error("state should be replaced by StateMsg")
	}
	if cmd == nil {
		t.Fatal("StateMsg should keep listening for updates")
	}

	updates <- loadedState(pulsewatch.StatusIdle)
	msg, ok := cmd().(StateMsg)
	if !ok || msg.State.Snapshot.Status != pulsewatch.StatusIdle {
		t.Errorf("listen cmd returned %#v", msg)
	}
}

func TestListenCmd_Closed(t *testing.T) {
	ch := make(chan pulsewatch.State)
	close(ch)

	if _, ok := listenCmd(ch)().(updatesClosedMsg); !ok {
		t.Error("closed channel should produce updatesClosedMsg")
	}
}

func TestUpdate_TriggerKey(t *testing.T) {
	src := &fakeSource{state: loadedState(pulsewatch.StatusIdle), sent: true}
	m := newTestModel(src, nil)

	next, cmd := m.Update(keyMsg('t'))
	got := next.(Model)

	if !got.Triggering {
		t.Error("Triggering should be set while the request runs")
	}
	if cmd == nil {
		t.Fatal("trigger key should return a command")
	}

	done, ok := cmd().(TriggerDoneMsg)
	if !ok || !done.Sent {
		t.Fatalf("trigger cmd returned %#v", done)
	}
	if src.triggers.Load() != 1 {
		t.Errorf("triggers = %d, want 1", src.triggers.Load())
	}

	// a second press while triggering is ignored
	if _, cmd := got.Update(keyMsg('t')); cmd != nil {
		t.Error("trigger key should be ignored while a trigger is in flight")
	}

	final, _ := got.Update(done)
	if final.(Model).Triggering {
		t.Error("Triggering should clear after TriggerDoneMsg")
	}
}

func TestUpdate_TriggerKeyWhileActive(t *testing.T) {
	src := &fakeSource{state: loadedState(pulsewatch.StatusActive)}
	m := newTestModel(src, nil)

	next, cmd := m.Update(keyMsg('t'))
	if cmd != nil {
		t.Error("trigger key should do nothing while research is active")
	}
	if next.(Model).Triggering {
		t.Error("Triggering should stay false while active")
	}
	if !strings.Contains(next.(Model).View(), "(research active)") {
		t.Error("help should show the trigger as disabled")
	}
}

func TestUpdate_TriggerSuppressed(t *testing.T) {
	m := newTestModel(&fakeSource{state: loadedState(pulsewatch.StatusIdle)}, nil)
	m.Triggering = true

	next, _ := m.Update(TriggerDoneMsg{Sent: false})
	if next.(Model).Notice != "Research already active" {
		t.Errorf("Notice = %q", next.(Model).Notice)
	}
}

func TestUpdate_Quit(t *testing.T) {
	m := newTestModel(&fakeSource{}, nil)

	next, cmd := m.Update(keyMsg('q'))
	if !next.(Model).Quitting {
		t.Error("Quitting should be set")
	}
	if cmd == nil {
		t.Fatal("quit key should return tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key should produce tea.QuitMsg")
	}
}
