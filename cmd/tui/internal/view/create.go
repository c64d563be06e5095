package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
	"github.com/MrJamesThe3rd/condobill/internal/importer"
)

const createTimeout = 2 * time.Minute

type createState int

const (
	createStateForm createState = iota
	createStateRunning
	createStateResult
)

// CreateModel materializes a bill from an uploaded charge sheet.
type CreateModel struct {
	CommonModel
	svc     *bill.Service
	session Session

	state createState
	form  *huh.Form
	input *createInput

	result *bill.MaterializeResult
	err    error
}

// createInput holds the form bindings; it lives behind a pointer so copies of the model share it.
type createInput struct {
	uploadKey string
	title     string
	typeID    string
	detail    string
	dueDate   string
	status    bill.Status
}

func NewCreateModel(svc *bill.Service, session Session) CreateModel {
	in := &createInput{
		dueDate: time.Now().In(session.Loc).AddDate(0, 0, session.DueDays).Format(time.DateOnly),
		status:  bill.StatusDraft,
	}

	return CreateModel{svc: svc, session: session, input: in, form: newCreateForm(in)}
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", label)
		}

		return nil
	}
}

func newCreateForm(in *createInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Upload key").Value(&in.uploadKey).Validate(required("upload key")),
			huh.NewInput().Title("Title").Value(&in.title).Validate(required("title")),
			huh.NewInput().Title("Bill type id").Value(&in.typeID).Validate(func(s string) error {
				if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil || n <= 0 {
					return fmt.Errorf("bill type id must be a positive number")
				}

				return nil
			}),
			huh.NewText().Title("Detail (optional)").Value(&in.detail),
			huh.NewInput().Title("Due date (YYYY-MM-DD)").Value(&in.dueDate).Validate(func(s string) error {
				if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
					return fmt.Errorf("use YYYY-MM-DD")
				}

				return nil
			}),
			huh.NewSelect[bill.Status]().
				Title("Status").
				Options(
					huh.NewOption("Save as draft", bill.StatusDraft),
					huh.NewOption("Send now", bill.StatusSent),
				).
				Value(&in.status),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m CreateModel) Title() string { return "Create bill from upload" }

func (m CreateModel) ShortHelp() string {
	if m.state == createStateResult {
		return "Esc/Enter: back"
	}

	return "Esc: back | Enter/Tab: navigate form"
}

func (m CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createResultMsg:
		m.state = createStateResult
		m.result, m.err = msg.result, msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == createStateResult && msg.Type == tea.KeyEnter {
			return m, Back
		}
	}

	if m.state != createStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = createStateRunning

	return m, m.materializeCmd()
}

func (m CreateModel) View() string {
	switch m.state {
	case createStateRunning:
		return padded.Render("Reading " + m.input.uploadKey + "...")
	case createStateResult:
		return padded.Render(m.resultView() + "\n\n" + faint.Render(m.ShortHelp()))
	}

	return padded.Render(m.form.View())
}

func (m CreateModel) resultView() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v", m.err)
	}

	r := m.result

	var b strings.Builder
	fmt.Fprintf(&b, "Created %s with %d unit charges (%s).\n",
		r.Bill.BillNo, len(r.Rooms), billStatusLabel(r.Bill.Status))
	fmt.Fprintf(&b, "Valid rows: %d  |  invalid rows: %d  |  total %s\n",
		r.Check.ValidCount, r.Check.InvalidCount, bill.FormatPrice(r.Check.Total))

	if n := fanOutNote(r.Notification); n != "" {
		b.WriteString(strings.TrimSpace(n) + "\n")
	}

	for _, s := range r.Check.Skipped {
		b.WriteString(faint.Render(skippedLine(s)) + "\n")
	}

	return b.String()
}

func skippedLine(s importer.SkippedRow) string {
	return fmt.Sprintf("  row %d skipped: %s (%s / %s / %s)", s.Row, s.Reason, s.Unit, s.Member, s.Amount)
}

type createResultMsg struct {
	result *bill.MaterializeResult
	err    error
}

func (m CreateModel) materializeCmd() tea.Cmd {
	svc, session, in := m.svc, m.session, m.input
	typeID, _ := strconv.ParseInt(strings.TrimSpace(in.typeID), 10, 64)
	due, _ := time.Parse(time.DateOnly, strings.TrimSpace(in.dueDate))

	p := bill.MaterializeParams{
		UploadKey:  strings.TrimSpace(in.uploadKey),
		CustomerID: session.CustomerID,
		Title:      strings.TrimSpace(in.title),
		TypeID:     typeID,
		Detail:     in.detail,
		ExpireDate: due,
		Status:     in.status,
		Actor:      session.Actor,
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), createTimeout)
		defer cancel()

		res, err := svc.Materialize(ctx, p)

		return createResultMsg{result: res, err: err}
	}
}
