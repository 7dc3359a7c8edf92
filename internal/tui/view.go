package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("FreshConcept Order Board"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styleError.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	switch m.view {
	case ViewOrderDetail:
		b.WriteString(m.renderDetail())
	default:
		b.WriteString(m.renderBoard())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderBoard() string {
	var b strings.Builder

	var tabs []string
	for i, status := range statusTabs {
		label := fmt.Sprintf("%s (%d)", status, m.counts[status])
		if i == m.tab {
			tabs = append(tabs, styleTabActive.Render(label))
		} else {
			tabs = append(tabs, styleTab.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(styleHeaderLine.Render(strings.Repeat("─", m.tableWidth())))
	b.WriteString("\n")

	if m.loading && len(m.rows) == 0 {
		b.WriteString(styleHelp.Render("loading orders..."))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.rows) == 0 {
		b.WriteString(styleHelp.Render("no orders with this status"))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("%-12s %-24s %-12s %10s %-18s",
		"REFERENCE", "COMPANY", "DELIVERY", "TOTAL", "PLACED")
	b.WriteString(styleTableHeader.Render(header))
	b.WriteString("\n")

	visible := m.visibleRows()
	start, end := m.window(len(m.rows), visible)
	for i := start; i < end; i++ {
		row := m.rows[i]
		line := fmt.Sprintf("%-12s %-24s %-12s %10s %-18s",
			shorten(row.Order.Reference, 12),
			shorten(row.Company, 24),
			deliveryLabel(row.Order.DeliveryDate),
			formatCents(row.Order.TotalCents),
			time.Unix(row.Order.CreatedAt, 0).Format("2006-01-02 15:04"),
		)
		if i == m.selected {
			b.WriteString(styleTableRowSelected.Render(line))
		} else {
			b.WriteString(styleTableRow.Render(line))
		}
		b.WriteString("\n")
	}
	if end < len(m.rows) {
		b.WriteString(styleHelp.Render(fmt.Sprintf("… %d more", len(m.rows)-end)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderDetail() string {
	if m.detailOrder == nil {
		return styleHelp.Render("no order selected")
	}
	order := m.detailOrder.Order

	var b strings.Builder
	write := func(label, value string) {
		b.WriteString(styleLabel.Render(label))
		b.WriteString(styleValue.Render(value))
		b.WriteString("\n")
	}

	write("Reference", order.Reference)
	write("Company", m.detailOrder.Company)
	b.WriteString(styleLabel.Render("Status"))
	b.WriteString(StatusBadge(string(order.Status)))
	b.WriteString("\n")
	write("Delivery", deliveryLabel(order.DeliveryDate))
	write("Total", formatCents(order.TotalCents))
	write("Placed", time.Unix(order.CreatedAt, 0).Format("2006-01-02 15:04:05"))
	write("Updated", time.Unix(order.UpdatedAt, 0).Format("2006-01-02 15:04:05"))
	if order.Note != "" {
		write("Note", order.Note)
	}

	b.WriteString("\n")
	if m.loading && len(m.detailItems) == 0 {
		b.WriteString(styleHelp.Render("loading items..."))
	} else {
		b.WriteString(styleTableHeader.Render(fmt.Sprintf("%-30s %8s %10s %12s", "ITEM", "QTY", "PRICE", "LINE TOTAL")))
		b.WriteString("\n")
		for _, item := range m.detailItems {
			b.WriteString(styleTableRow.Render(fmt.Sprintf("%-30s %8d %10s %12s",
				shorten(item.Name, 30),
				item.Quantity,
				formatCents(item.PriceCents),
				formatCents(item.PriceCents*item.Quantity),
			)))
			b.WriteString("\n")
		}
	}

	return styleDetailBox.Render(b.String())
}

func (m Model) renderHelp() string {
	if m.view == ViewOrderDetail {
		return styleHelp.Render("esc back · r refresh · q quit")
	}
	return styleHelp.Render("←/→ status · ↑/↓ select · enter details · r refresh · q quit")
}

// visibleRows bounds the table to the terminal height.
func (m Model) visibleRows() int {
	rows := m.height - 8
	if rows < 5 {
		rows = 5
	}
	return rows
}

// window keeps the selection in view.
func (m Model) window(total, visible int) (int, int) {
	if total <= visible {
		return 0, total
	}
	start := m.selected - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > total {
		start = total - visible
	}
	return start, start + visible
}

func (m Model) tableWidth() int {
	if m.width > 10 && m.width < 100 {
		return m.width
	}
	return 82
}

func deliveryLabel(date *string) string {
	if date == nil || *date == "" {
		return "-"
	}
	return *date
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
