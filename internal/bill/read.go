package bill

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/MrJamesThe3rd/condobill/internal/importer"
	"github.com/MrJamesThe3rd/condobill/internal/pagination"
)

type ListFilter struct {
	CustomerID string
	Keyword    string
	Status     *Status
	TypeID     *int64
	Page       pagination.Params
}

// RoomFilter selects unit charges. Statuses match the observed status at Now.
type RoomFilter struct {
	CustomerID  string
	BillID      *int64
	HouseNo     string
	Keyword     string
	Statuses    []RoomStatus
	SentOnly    bool
	NewestFirst bool
	Now         time.Time
	Page        pagination.Params
}

// PendingStatuses are the observed statuses that still expect a payment.
var PendingStatuses = []RoomStatus{RoomPending, RoomOverdue, RoomPartial}

// StatusCounts counts non-deleted unit charges by observed status.
type StatusCounts struct {
	Pending int64
	Paid    int64
	Overdue int64
	Partial int64
	Total   int64
}

// Counter pairs an all-time count with the count created this calendar month.
type Counter struct {
	Total int64
	New   int64
}

type Summary struct {
	Bills        Counter
	SentBills    Counter
	PendingRooms Counter
	PaidRooms    Counter
	Rooms        Counter
	RoomsPercent int
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Bill, pagination.Meta, error) {
	bills, total, err := s.repo.ListBills(ctx, f)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("list bills: %w", err)
	}

	return bills, pagination.BuildMeta(total, f.Page), nil
}

// Get returns a non-deleted bill; customerID narrows the lookup when set.
func (s *Service) Get(ctx context.Context, id int64, customerID string) (*Bill, error) {
	b, err := s.repo.GetBill(ctx, id, customerID)
	if err != nil {
		return nil, fmt.Errorf("get bill %d: %w", id, err)
	}

	return b, nil
}

// Rooms lists unit charges with their observed status and resend window.
func (s *Service) Rooms(ctx context.Context, f RoomFilter) ([]*Room, pagination.Meta, error) {
	f.Now = s.now()

	rooms, total, err := s.repo.ListRooms(ctx, f)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("list unit charges: %w", err)
	}

	if err := s.decorate(ctx, f.CustomerID, f.Now, rooms); err != nil {
		return nil, pagination.Meta{}, err
	}

	return rooms, pagination.BuildMeta(total, f.Page), nil
}

func (s *Service) decorate(ctx context.Context, customerID string, now time.Time, rooms []*Room) error {
	ids := make([]int64, len(rooms))

	for i, r := range rooms {
		ids[i] = r.ID

		expire := now
		if r.Bill != nil {
			expire = r.Bill.ExpireDate
		}

		r.Observed = Project(r.Status, r.TotalPrice, r.PaidSum, expire, now)
	}

	windows, err := s.notifier.Windows(ctx, customerID, ids)
	if err != nil {
		return fmt.Errorf("notification windows: %w", err)
	}

	for _, r := range rooms {
		w := windows[r.ID]
		r.CanSendNotification = w.CanSend
		r.RemainingMinutes = w.RemainingMinutes
	}

	return nil
}

// ExportRooms returns a bill with every one of its non-deleted unit charges. The bill must
// belong to customerID.
func (s *Service) ExportRooms(ctx context.Context, customerID string, billID int64) (*Bill, []*Room, error) {
	if customerID == "" {
		return nil, nil, ErrCustomerRequired
	}

	b, err := s.Get(ctx, billID, customerID)
	if err != nil {
		return nil, nil, err
	}

	rooms, _, err := s.Rooms(ctx, RoomFilter{CustomerID: b.CustomerID, BillID: &b.ID})
	if err != nil {
		return nil, nil, err
	}

	return b, rooms, nil
}

// Preview validates the sheet behind an upload key without writing anything.
func (s *Service) Preview(ctx context.Context, uploadKey string, excluded []int) (*Attachment, *importer.Result, error) {
	att, err := s.repo.LatestAttachment(ctx, uploadKey)
	if err != nil {
		return nil, nil, fmt.Errorf("latest attachment: %w", err)
	}

	res, err := s.loader.Check(ctx, importer.Source{Path: att.FilePath, Ext: att.FileExt}, excluded)
	if err != nil {
		return nil, nil, fmt.Errorf("read upload %s: %w", uploadKey, err)
	}

	return att, res, nil
}

func (s *Service) StatusCounts(ctx context.Context, customerID string, billID *int64) (*StatusCounts, error) {
	c, err := s.repo.CountRoomStatus(ctx, customerID, billID, s.now())
	if err != nil {
		return nil, fmt.Errorf("count unit charge status: %w", err)
	}

	return c, nil
}

func (s *Service) Summary(ctx context.Context, customerID string) (*Summary, error) {
	sum, err := s.repo.Summary(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	sum.RoomsPercent = percent(sum.Rooms.New, sum.Rooms.Total)

	return sum, nil
}

func percent(part, total int64) int {
	if total <= 0 {
		return 0
	}

	return int(math.Round(float64(part) / float64(total) * 100))
}
