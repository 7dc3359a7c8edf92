package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#16A34A")
	colorSuccess = lipgloss.Color("#22C55E")
	colorWarning = lipgloss.Color("#F59E0B")
	colorDanger  = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#374151")

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleTab = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleTabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	styleTableHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorPrimary).
				Padding(0, 1)

	styleTableRow = lipgloss.NewStyle().
			Padding(0, 1)

	styleTableRowSelected = lipgloss.NewStyle().
				Background(lipgloss.Color("#1F2937")).
				Foreground(lipgloss.Color("#FFFFFF")).
				Padding(0, 1)

	styleDetailBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(15)

	styleValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true).
			Padding(0, 1)

	styleHeaderLine = lipgloss.NewStyle().
			Foreground(colorBorder)
)

// StatusBadge renders an order status with its lifecycle color.
func StatusBadge(status string) string {
	switch status {
	case "pending":
		return lipgloss.NewStyle().Foreground(colorWarning).Bold(true).Render("◐ pending")
	case "confirmed":
		return lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("● confirmed")
	case "shipped":
		return lipgloss.NewStyle().Foreground(colorInfo).Bold(true).Render("▶ shipped")
	case "delivered":
		return lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ delivered")
	case "cancelled":
		return lipgloss.NewStyle().Foreground(colorDanger).Render("✗ cancelled")
	default:
		return lipgloss.NewStyle().Foreground(colorMuted).Render("? " + status)
	}
}
