package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
	"github.com/MrJamesThe3rd/condobill/internal/notification"
	"github.com/MrJamesThe3rd/condobill/internal/pagination"
)

// RoomsModel lists the unit charges of one bill with their observed status.
type RoomsModel struct {
	CommonModel
	svc      *bill.Service
	notifier *notification.Service
	session  Session
	bill     *bill.Bill

	table table.Model
	rooms []*bill.Room

	loading bool
	status  string
}

func NewRoomsModel(svc *bill.Service, notifier *notification.Service, session Session, b *bill.Bill) RoomsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Invoice", Width: 20},
			{Title: "Unit", Width: 10},
			{Title: "Member", Width: 22},
			{Title: "Amount", Width: 12},
			{Title: "Paid", Width: 12},
			{Title: "Status", Width: 16},
			{Title: "Notify", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	styles := table.DefaultStyles()
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("205")).Bold(true)
	t.SetStyles(styles)

	return RoomsModel{svc: svc, notifier: notifier, session: session, bill: b, table: t, loading: true}
}

func (m RoomsModel) Title() string { return "Unit charges of " + m.bill.BillNo }

func (m RoomsModel) ShortHelp() string { return "Esc: back | n: resend notification | r: reload" }

func (m RoomsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func notifyCell(r *bill.Room) string {
	if r.CanSendNotification {
		return "ready"
	}

	if r.RemainingMinutes != nil {
		return fmt.Sprintf("in %dm", *r.RemainingMinutes)
	}

	return "-"
}

func (m RoomsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRoomsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.rooms = msg.rooms

		rows := make([]table.Row, len(msg.rooms))
		for i, r := range msg.rooms {
			rows[i] = table.Row{
				r.InvoiceNo,
				r.HouseNo,
				r.MemberName,
				bill.FormatPrice(r.TotalPrice),
				bill.FormatPrice(r.PaidSum),
				r.Observed.Label(),
				notifyCell(r),
			}
		}

		m.table.SetRows(rows)

		return m, nil

	case resendMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = "Notification queued for " + msg.houseNo
		m.loading = true

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			if i := m.table.Cursor(); i >= 0 && i < len(m.rooms) {
				return m, m.resendCmd(m.rooms[i])
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RoomsModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(m.Title()) + "\n" +
		faint.Render(fmt.Sprintf("%s  |  due %s  |  %s",
			m.bill.Title,
			bill.FormatDueDate(m.bill.ExpireDate),
			billStatusLabel(m.bill.Status),
		)) + "\n\n"

	if m.loading {
		return padded.Render(header + "Loading unit charges...")
	}

	statusLine := ""
	if m.status != "" {
		statusLine = "\n" + faint.Render(m.status)
	}

	return padded.Render(header + m.table.View() + statusLine + "\n" + faint.Render(m.ShortHelp()))
}

// Messages

type loadRoomsMsg struct {
	rooms []*bill.Room
	err   error
}

func (m RoomsModel) loadCmd() tea.Cmd {
	svc, customerID, billID := m.svc, m.session.CustomerID, m.bill.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rooms, _, err := svc.Rooms(ctx, bill.RoomFilter{
			CustomerID: customerID,
			BillID:     &billID,
			Page:       pagination.Params{Page: 1, Limit: pagination.MaxLimit},
		})

		return loadRoomsMsg{rooms: rooms, err: err}
	}
}

type resendMsg struct {
	houseNo string
	err     error
}

func (m RoomsModel) resendCmd(r *bill.Room) tea.Cmd {
	notifier, session := m.notifier, m.session

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := notifier.Resend(ctx, notification.ResendParams{
			TableName:  notification.TableBillRoom,
			RowsID:     r.ID,
			CustomerID: session.CustomerID,
			Actor:      session.Actor,
		})

		return resendMsg{houseNo: r.HouseNo + " (" + strconv.FormatInt(r.ID, 10) + ")", err: err}
	}
}
