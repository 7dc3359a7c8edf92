package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ordersLoadedMsg:
		m.loading = false
		m.rows = msg.rows
		m.counts = msg.counts
		m.err = nil
		if m.selected >= len(m.rows) {
			m.selected = 0
		}
		// Keep the detail view current across refreshes.
		if m.view == ViewOrderDetail && m.detailOrder != nil {
			for i := range m.rows {
				if m.rows[i].Order.ID == m.detailOrder.Order.ID {
					m.detailOrder = &m.rows[i]
					break
				}
			}
		}
		return m, nil

	case itemsLoadedMsg:
		m.loading = false
		m.detailItems = msg.items
		m.err = nil
		return m, nil

	case errorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.loadOrders(), tickCmd())
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.view == ViewBoard && len(m.rows) > 0 {
			m.selected--
			if m.selected < 0 {
				m.selected = len(m.rows) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.view == ViewBoard && len(m.rows) > 0 {
			m.selected++
			if m.selected >= len(m.rows) {
				m.selected = 0
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.view == ViewBoard {
			m.tab--
			if m.tab < 0 {
				m.tab = len(statusTabs) - 1
			}
			m.selected = 0
			m.loading = true
			return m, m.loadOrders()
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.view == ViewBoard {
			m.tab = (m.tab + 1) % len(statusTabs)
			m.selected = 0
			m.loading = true
			return m, m.loadOrders()
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.view == ViewBoard && len(m.rows) > 0 {
			m.detailOrder = &m.rows[m.selected]
			m.detailItems = nil
			m.view = ViewOrderDetail
			m.loading = true
			return m, m.loadItems(m.detailOrder.Order.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.view == ViewOrderDetail {
			m.view = ViewBoard
			m.detailOrder = nil
			m.detailItems = nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		if m.view == ViewOrderDetail && m.detailOrder != nil {
			return m, tea.Batch(m.loadOrders(), m.loadItems(m.detailOrder.Order.ID))
		}
		return m, m.loadOrders()
	}

	return m, nil
}
