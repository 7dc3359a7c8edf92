// Package tui renders a live order board for the terminal: orders per
// lifecycle status, with a detail view showing the snapshotted lines.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/repository/sqlite"
)

// ViewType selects the current screen.
type ViewType int

const (
	ViewBoard ViewType = iota
	ViewOrderDetail
)

// statusTabs is the fixed tab order on the board.
var statusTabs = []repository.OrderStatus{
	repository.OrderStatusPending,
	repository.OrderStatusConfirmed,
	repository.OrderStatusShipped,
	repository.OrderStatusDelivered,
	repository.OrderStatusCancelled,
}

const boardPageSize = 200

// OrderRow pairs an order with its resolved company name.
type OrderRow struct {
	Order   *repository.Order
	Company string
}

// Model is the root bubbletea model.
type Model struct {
	store *sqlite.Store

	tab      int
	rows     []OrderRow
	counts   map[repository.OrderStatus]int64
	selected int

	view        ViewType
	detailOrder *OrderRow
	detailItems []*repository.OrderItem

	width  int
	height int

	loading bool
	err     error

	keys keyMap
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Back    key.Binding
	Quit    key.Binding
	Refresh key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev status"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/l", "next status"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// NewModel creates the order board model.
func NewModel(store *sqlite.Store) Model {
	return Model{
		store:   store,
		view:    ViewBoard,
		counts:  map[repository.OrderStatus]int64{},
		keys:    defaultKeyMap(),
		loading: true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadOrders(),
		tickCmd(),
	)
}

type ordersLoadedMsg struct {
	rows   []OrderRow
	counts map[repository.OrderStatus]int64
}

type itemsLoadedMsg struct {
	items []*repository.OrderItem
}

type errorMsg struct {
	err error
}

type tickMsg time.Time

func (m Model) loadOrders() tea.Cmd {
	status := statusTabs[m.tab]
	return func() tea.Msg {
		ctx := context.Background()

		orders, err := m.store.Orders().List(ctx, repository.OrderFilter{
			Status: &status,
			Limit:  boardPageSize,
		})
		if err != nil {
			return errorMsg{err: err}
		}

		statusCounts, err := m.store.Orders().CountByStatus(ctx)
		if err != nil {
			return errorMsg{err: err}
		}
		counts := make(map[repository.OrderStatus]int64, len(statusCounts))
		for _, c := range statusCounts {
			counts[c.Status] = c.Count
		}

		// Company names resolved once per account, not per row.
		companies := map[int64]string{}
		rows := make([]OrderRow, len(orders))
		for i, order := range orders {
			name, ok := companies[order.AccountID]
			if !ok {
				if account, err := m.store.Accounts().FindByID(ctx, order.AccountID); err == nil {
					name = account.CompanyName
				}
				companies[order.AccountID] = name
			}
			rows[i] = OrderRow{Order: order, Company: name}
		}

		return ordersLoadedMsg{rows: rows, counts: counts}
	}
}

func (m Model) loadItems(orderID int64) tea.Cmd {
	return func() tea.Msg {
		items, err := m.store.Orders().ItemsByOrderID(context.Background(), orderID)
		if err != nil {
			return errorMsg{err: err}
		}
		return itemsLoadedMsg{items: items}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
