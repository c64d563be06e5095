package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	sheetName   = "Sheet1"
)

var header = []string{"เลขที่บิล", "เลขห้อง", "ชื่อลูกบ้าน", "ยอดเงิน", "วันครบกำหนด", "สถานะชำระ"}

//go:generate mockgen -source=service.go -destination=source_mock.go -package=export
type Source interface {
	ExportRooms(ctx context.Context, customerID string, billID int64) (*bill.Bill, []*bill.Room, error)
}

// File is a rendered workbook ready to be streamed.
type File struct {
	Name string
	Data []byte
}

// Service renders the unit charges of a bill as a spreadsheet.
type Service struct {
	source Source
	loc    *time.Location
	now    func() time.Time
}

func NewService(source Source, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{source: source, loc: loc, now: time.Now}
}

// WithClock replaces the clock that stamps file names.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Rooms exports every live unit charge of a bill, one row each, with its observed status.
func (s *Service) Rooms(ctx context.Context, customerID string, billID int64) (*File, error) {
	b, rooms, err := s.source.ExportRooms(ctx, customerID, billID)
	if err != nil {
		return nil, fmt.Errorf("loading bill %d: %w", billID, err)
	}

	data, err := Workbook(b, rooms)
	if err != nil {
		return nil, err
	}

	return &File{Name: Filename(b.ID, s.now(), s.loc), Data: data}, nil
}

// Filename is bill_room_list_<id>_<YYYYMMDD>.xlsx, dated in loc.
func Filename(billID int64, at time.Time, loc *time.Location) string {
	return fmt.Sprintf("bill_room_list_%d_%s.xlsx", billID, at.In(loc).Format("20060102"))
}

// Workbook writes the header row and one row per unit charge to a fresh xlsx file. The due
// column carries the calendar date of the bill's due date.
func Workbook(b *bill.Bill, rooms []*bill.Room) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, fmt.Errorf("opening sheet writer: %w", err)
	}

	if err := sw.SetColWidth(1, len(header), 18); err != nil {
		return nil, fmt.Errorf("sizing columns: %w", err)
	}

	if err := sw.SetRow("A1", toCells(header)); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	due := bill.FormatDueDate(b.ExpireDate)

	for i, r := range rooms {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		row := []string{
			b.BillNo,
			r.HouseNo,
			r.MemberName,
			bill.FormatPrice(r.TotalPrice),
			due,
			r.Observed.Label(),
		}

		if err := sw.SetRow(cell, toCells(row)); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flushing sheet: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}

	return cells
}
