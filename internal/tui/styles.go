package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jpalmerr/pulsewatch"
)

// Color palette
var (
	Blue      = lipgloss.Color("#3B82F6")
	Purple    = lipgloss.Color("#9333EA")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Purple).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Red).
				Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(Blue)
)

const statusDot = "●"

// statusStyle returns the colour used for a backend status.
func statusStyle(s pulsewatch.Status) lipgloss.Style {
	switch s {
	case pulsewatch.StatusActive:
		return lipgloss.NewStyle().Foreground(Blue)
	case pulsewatch.StatusIdle:
		return lipgloss.NewStyle().Foreground(Green)
	case pulsewatch.StatusError:
		return lipgloss.NewStyle().Foreground(Red)
	default:
		return lipgloss.NewStyle().Foreground(DimGray)
	}
}

// logTypeStyle returns the colour used for a log entry's type tag.
func logTypeStyle(t pulsewatch.LogType) lipgloss.Style {
	switch t {
	case pulsewatch.LogError:
		return lipgloss.NewStyle().Foreground(Red)
	case pulsewatch.LogSuccess:
		return lipgloss.NewStyle().Foreground(Green)
	default:
		return lipgloss.NewStyle().Foreground(Blue)
	}
}
