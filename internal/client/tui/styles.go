package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// Styles is the visual theme of the client.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Label    lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Success  lipgloss.Style
	Box      lipgloss.Style

	BarOK      lipgloss.Style
	BarWarning lipgloss.Style
	BarOver    lipgloss.Style
	BarEmpty   lipgloss.Style
}

// DefaultStyles returns the default theme.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fafafa")).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a3a3a3")),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7c3aed")),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fafafa")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#737373")),
		Label: lipgloss.NewStyle().
			Width(14).
			Foreground(lipgloss.Color("#a78bfa")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10b981")),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#404040")).
			Padding(0, 1),
		BarOK:      lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
		BarWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		BarOver:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		BarEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("#404040")),
	}
}

func (s Styles) bar(tier valueobject.Tier) lipgloss.Style {
	switch tier {
	case valueobject.TierOver:
		return s.BarOver
	case valueobject.TierWarning:
		return s.BarWarning
	default:
		return s.BarOK
	}
}
