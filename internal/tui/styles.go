package tui

import "github.com/charmbracelet/lipgloss"

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("12"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true)

	bannerLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	bannerHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func listRowStyle(_ StateEntry, selected bool) lipgloss.Style {
	if selected {
		return selectedRowStyle
	}
	return lipgloss.NewStyle()
}

func bannerStyle(sev Severity) lipgloss.Style {
	if sev == SeverityHigh {
		return bannerHighStyle
	}
	return bannerLowStyle
}
