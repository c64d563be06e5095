package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
)

const dbTimeout = 5 * time.Second

var (
	faint    = lipgloss.NewStyle().Faint(true)
	selected = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	padded   = lipgloss.NewStyle().Padding(1)
)

func billStatusLabel(s bill.Status) string {
	switch s {
	case bill.StatusDraft:
		return "draft"
	case bill.StatusSent:
		return "sent"
	case bill.StatusCancelledSend:
		return "cancelled"
	case bill.StatusDeleted:
		return "deleted"
	}

	return "unknown"
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
