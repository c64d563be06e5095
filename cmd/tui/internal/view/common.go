package view

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type CommonModel struct {
	Width  int
	Height int
}

// Session identifies the tenant and operator every console action runs as.
type Session struct {
	CustomerID string
	Actor      string
	Loc        *time.Location
	// DueDays prefills the due date of new bills.
	DueDays int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
