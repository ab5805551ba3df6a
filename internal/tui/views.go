package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	timeLayout     = "15:04:05"
	dateTimeLayout = "2006-01-02 15:04:05"

	// rows used by everything except the log lines
	chromeRows  = 14
	minLogLines = 5
)

// View renders the model
func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	if !m.State.Loaded() {
		return m.loadingView()
	}

	sections := []string{
		headerStyle.Render(m.Title),
	}
	if m.State.Error != "" {
		sections = append(sections, errorBannerStyle.Render(m.State.Error))
	}
	sections = append(sections,
		m.statusView(),
		m.logView(),
		m.helpView(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) loadingView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Waiting for status from %s\n", m.Spinner.View(), m.BaseURL)
	if m.State.Error != "" {
		b.WriteString(dimStyle.Render("last error: "+m.State.Error) + "\n")
	}
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) statusView() string {
	snap := m.State.Snapshot

	status := statusStyle(snap.Status).Render(statusDot) + " " + snap.Status.String()
	action := labelStyle.Render("Current Action: ") + snap.CurrentAction
	when := "unknown"
	if !snap.LastUpdated.IsZero() {
		when = snap.LastUpdated.Local().Format(dateTimeLayout)
	}
	updated := dimStyle.Render("Updated: " + when)

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("System Status"),
		status,
		action,
		updated,
	))
}

func (m Model) logView() string {
	limit := len(m.State.Logs)
	if m.Height > 0 {
		limit = max(m.Height-chromeRows, minLogLines)
	}

	lines := []string{labelStyle.Render("Debug Logs")}
	for i, entry := range m.State.Logs {
		if i >= limit {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			dimStyle.Render(entry.Timestamp.Local().Format(timeLayout)),
			logTypeStyle(entry.Type).Render("["+entry.Type.String()+"]"),
			entry.Message,
		))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) helpView() string {
	var parts []string

	trigger := Keys.Trigger.Help()
	switch {
	case m.Triggering:
		parts = append(parts, m.Spinner.View()+" triggering...")
	case m.CanTrigger():
		parts = append(parts, trigger.Key+" "+trigger.Desc)
	default:
		parts = append(parts, dimStyle.Render(trigger.Key+" "+trigger.Desc+" (research active)"))
	}

	quit := Keys.Quit.Help()
	parts = append(parts, quit.Key+" "+quit.Desc)

	help := dimStyle.Render(strings.Join(parts, " • "))
	if m.Notice != "" {
		help = noticeStyle.Render(m.Notice) + "  " + help
	}
	return help
}
