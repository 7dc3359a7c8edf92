package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/amniuelmohamed/freshconcept/internal/bootstrap"
	"github.com/amniuelmohamed/freshconcept/internal/config"
	"github.com/amniuelmohamed/freshconcept/internal/migrations"
	"github.com/amniuelmohamed/freshconcept/internal/repository/sqlite"
	"github.com/amniuelmohamed/freshconcept/internal/tui"
)

var ordersTUICmd = &cobra.Command{
	Use:   "orders-tui",
	Short: "Launch the interactive order board",
	Long:  "Launch a terminal UI that shows live orders per lifecycle status with a detail view.",
	RunE:  runOrdersTUI,
}

func init() {
	rootCmd.AddCommand(ordersTUICmd)
}

func runOrdersTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := bootstrap.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	store := sqlite.NewStore(db)

	p := tea.NewProgram(
		tui.NewModel(store),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
