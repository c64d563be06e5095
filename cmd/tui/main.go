package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/condobill/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/condobill/internal/bill"
	billStore "github.com/MrJamesThe3rd/condobill/internal/bill/store"
	"github.com/MrJamesThe3rd/condobill/internal/config"
	"github.com/MrJamesThe3rd/condobill/internal/database"
	"github.com/MrJamesThe3rd/condobill/internal/importer"
	"github.com/MrJamesThe3rd/condobill/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/condobill/internal/notification/store"
	"github.com/MrJamesThe3rd/condobill/internal/tenantconfig"
	configStore "github.com/MrJamesThe3rd/condobill/internal/tenantconfig/store"
)

type model struct {
	billService         *bill.Service
	notificationService *notification.Service
	session             view.Session

	currentView View
	size        tea.WindowSizeMsg

	billsView  view.BillsModel
	roomsView  view.RoomsModel
	createView view.CreateModel
}

type View int

const (
	ViewMenu   View = 0
	ViewBills  View = 1
	ViewRooms  View = 2
	ViewCreate View = 3
)

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fail("failed to load config", err)
	}

	if cfg.TUI.CustomerID == "" {
		fail("failed to start console", fmt.Errorf("TUI_CUSTOMER_ID is required"))
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		fail("failed to connect to database", err)
	}

	// The console owns the terminal, so service logs are dropped.
	log := zap.NewNop()
	loc := cfg.Location()

	configSvc := tenantconfig.NewService(configStore.New(db))
	notifySvc := notification.NewService(notificationStore.New(db), configSvc, nil, log)
	impSvc := importer.NewService(importer.NewHTTPFetcher(cfg.Upload.Dir, cfg.Upload.FetchTimeout, cfg.Upload.FetchRetries))
	billSvc := bill.NewService(billStore.New(db), impSvc, notifySvc, log, loc)

	return model{
		billService:         billSvc,
		notificationService: notifySvc,
		session: view.Session{
			CustomerID: cfg.TUI.CustomerID,
			Actor:      cfg.TUI.Actor,
			Loc:        loc,
			DueDays:    dueDays(configSvc, cfg.TUI.CustomerID),
		},
		currentView: ViewMenu,
	}
}

const fallbackDueDays = 15

func dueDays(svc *tenantconfig.Service, customerID string) int {
	ctx, cancel := view.DbCtx()
	defer cancel()

	v, err := svc.Lookup(ctx, customerID, tenantconfig.KeyDefaultDueDays)
	if err != nil {
		return fallbackDueDays
	}

	n, err := v.Number()
	if err != nil || !n.IsPositive() {
		return fallbackDueDays
	}

	return int(n.IntPart())
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewBills
				m.billsView = view.NewBillsModel(m.billService, m.session)

				return m, tea.Batch(m.billsView.Init(), m.resize())
			case "2":
				m.currentView = ViewCreate
				m.createView = view.NewCreateModel(m.billService, m.session)

				return m, m.createView.Init()
			}
		}
	case view.OpenRoomsMsg:
		m.currentView = ViewRooms
		m.roomsView = view.NewRoomsModel(m.billService, m.notificationService, m.session, msg.Bill)

		return m, tea.Batch(m.roomsView.Init(), m.resize())
	case view.BackMsg:
		if m.currentView == ViewRooms {
			m.currentView = ViewBills
			return m, m.billsView.Init()
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewBills:
		var newModel tea.Model
		newModel, cmd = m.billsView.Update(msg)
		m.billsView = newModel.(view.BillsModel)
	case ViewRooms:
		var newModel tea.Model
		newModel, cmd = m.roomsView.Update(msg)
		m.roomsView = newModel.(view.RoomsModel)
	case ViewCreate:
		var newModel tea.Model
		newModel, cmd = m.createView.Update(msg)
		m.createView = newModel.(view.CreateModel)
	}

	return m, cmd
}

// resize replays the last window size to a freshly built view.
func (m model) resize() tea.Cmd {
	if m.size.Width == 0 {
		return nil
	}

	size := m.size

	return func() tea.Msg { return size }
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Condobill console  (" + m.session.CustomerID + ")\n\n" +
				"1. Bills\n" +
				"2. Create bill from upload\n\n" +
				"q. Quit",
		)
	case ViewBills:
		return m.billsView.View()
	case ViewRooms:
		return m.roomsView.View()
	case ViewCreate:
		return m.createView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fail("failed to run console", err)
	}
}
