package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
	"github.com/MrJamesThe3rd/condobill/internal/pagination"
)

type billsState int

const (
	billsStateList billsState = iota
	billsStateConfirmDelete
)

// billItem wraps a bill to implement list.Item.
type billItem struct {
	b *bill.Bill
}

func (i billItem) Title() string {
	status := faint.Render(fmt.Sprintf("[%s]", billStatusLabel(i.b.Status)))
	return fmt.Sprintf("%s  %s  %s", i.b.BillNo, status, i.b.Title)
}

func (i billItem) Description() string {
	return fmt.Sprintf("due %s  |  %d units  |  %s  |  paid %d/%d",
		bill.FormatDueDate(i.b.ExpireDate),
		i.b.RoomCount,
		bill.FormatPrice(i.b.TotalPrice),
		i.b.PaidCount, i.b.RoomCount,
	)
}

func (i billItem) FilterValue() string { return i.b.BillNo + " " + i.b.Title }

// OpenRoomsMsg asks the console to show the unit charges of a bill.
type OpenRoomsMsg struct {
	Bill *bill.Bill
}

type BillsModel struct {
	CommonModel
	svc     *bill.Service
	session Session

	state   billsState
	list    list.Model
	confirm *huh.Form
	target  *bill.Bill
	sure    *bool

	loading bool
	status  string
}

func NewBillsModel(svc *bill.Service, session Session) BillsModel {
	l := list.New([]list.Item{}, billDelegate{}, 0, 0)
	l.Title = "Bills"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return BillsModel{svc: svc, session: session, list: l, loading: true}
}

func (m BillsModel) Title() string { return "Bills" }

func (m BillsModel) ShortHelp() string {
	if m.state == billsStateConfirmDelete {
		return "Esc: cancel | Enter: confirm"
	}

	return "Esc: back | Enter: unit charges | s: send | c: cancel send | x: delete | r: reload | /: filter"
}

func (m BillsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BillsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBillsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		items := make([]list.Item, len(msg.bills))
		for i, b := range msg.bills {
			items[i] = billItem{b: b}
		}

		m.list.SetItems(items)

		if len(msg.bills) == 0 {
			m.status = "No bills yet."
		}

		return m, nil

	case billActionMsg:
		m.state = billsStateList
		m.confirm = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.done
		m.loading = true

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	if m.state == billsStateConfirmDelete {
		return m.updateConfirm(msg)
	}

	return m.updateList(msg)
}

func (m BillsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && m.list.FilterState() != list.Filtering {
		item, hasItem := m.list.SelectedItem().(billItem)

		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "enter":
			if hasItem {
				return m, func() tea.Msg { return OpenRoomsMsg{Bill: item.b} }
			}
		case "s":
			if hasItem {
				return m, m.sendCmd(item.b.ID)
			}
		case "c":
			if hasItem {
				return m, m.cancelSendCmd(item.b.ID)
			}
		case "x":
			if hasItem {
				return m.startConfirm(item.b)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m BillsModel) startConfirm(b *bill.Bill) (tea.Model, tea.Cmd) {
	m.target = b
	m.sure = new(false)
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s and all of its unit charges?", b.BillNo)).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.sure),
		),
	).WithWidth(60).WithShowHelp(false)
	m.state = billsStateConfirmDelete

	return m, m.confirm.Init()
}

func (m BillsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = billsStateList
		m.confirm = nil

		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.sure {
		m.state = billsStateList
		m.confirm = nil
		m.status = "Kept."

		return m, nil
	}

	return m, m.deleteCmd(m.target.ID)
}

func (m BillsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading bills...")
	}

	if m.state == billsStateConfirmDelete && m.confirm != nil {
		return padded.Render(m.confirm.View())
	}

	statusLine := ""
	if m.status != "" {
		statusLine = faint.Render(m.status) + "\n"
	}

	return padded.Render(statusLine + m.list.View() + "\n" + faint.Render(m.ShortHelp()))
}

// Messages

type loadBillsMsg struct {
	bills []*bill.Bill
	err   error
}

func (m BillsModel) loadCmd() tea.Cmd {
	svc, customerID := m.svc, m.session.CustomerID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bills, _, err := svc.List(ctx, bill.ListFilter{
			CustomerID: customerID,
			Page:       pagination.Params{Page: 1, Limit: pagination.MaxLimit},
		})

		return loadBillsMsg{bills: bills, err: err}
	}
}

type billActionMsg struct {
	done string
	err  error
}

func fanOutNote(r *bill.FanOutResult) string {
	if r == nil {
		return ""
	}

	if r.Error != "" {
		return fmt.Sprintf(" (notification failed: %s)", r.Error)
	}

	return fmt.Sprintf(" (%d notified)", r.Sent)
}

func (m BillsModel) sendCmd(id int64) tea.Cmd {
	svc, actor := m.svc, m.session.Actor

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := svc.Send(ctx, id, actor)
		if err != nil {
			return billActionMsg{err: err}
		}

		return billActionMsg{done: "Sent " + res.Bill.BillNo + fanOutNote(res.Notification)}
	}
}

func (m BillsModel) cancelSendCmd(id int64) tea.Cmd {
	svc, actor := m.svc, m.session.Actor

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := svc.CancelSend(ctx, id, actor)
		if err != nil {
			return billActionMsg{err: err}
		}

		return billActionMsg{done: "Cancelled sending " + res.Bill.BillNo}
	}
}

func (m BillsModel) deleteCmd(id int64) tea.Cmd {
	svc, actor := m.svc, m.session.Actor

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := svc.Delete(ctx, id, actor); err != nil {
			return billActionMsg{err: err}
		}

		return billActionMsg{done: "Deleted."}
	}
}

// billDelegate renders items in the list.
type billDelegate struct{}

func (d billDelegate) Height() int                             { return 2 }
func (d billDelegate) Spacing() int                            { return 0 }
func (d billDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d billDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(billItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = selected.Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faint.Render(i.Description()))
}
