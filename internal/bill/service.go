package bill

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/condobill/internal/apperr"
	"github.com/MrJamesThe3rd/condobill/internal/importer"
	"github.com/MrJamesThe3rd/condobill/internal/notification"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=bill
type Repository interface {
	// LatestAttachment returns the newest non-deleted file for an upload key, or ErrAttachmentMissing.
	LatestAttachment(ctx context.Context, uploadKey string) (*Attachment, error)
	Begin(ctx context.Context) (Tx, error)

	GetBill(ctx context.Context, id int64, customerID string) (*Bill, error)
	ListBills(ctx context.Context, filter ListFilter) ([]*Bill, int64, error)
	ListRooms(ctx context.Context, filter RoomFilter) ([]*Room, int64, error)
	CountRoomStatus(ctx context.Context, customerID string, billID *int64, now time.Time) (*StatusCounts, error)
	Summary(ctx context.Context, customerID string) (*Summary, error)
}

// Tx is a write transaction. Rollback after Commit is a no-op.
type Tx interface {
	// NextNumbers allocates k identifiers of a series, holding the series lock until the transaction ends.
	NextNumbers(ctx context.Context, p Prefix, customerID, day string, k int) ([]string, error)
	InsertBill(ctx context.Context, b *Bill) error
	InsertRooms(ctx context.Context, rooms []*Room) error
	AppendAudit(ctx context.Context, billID int64, status Status, actor string) error

	// LockBill reads a non-deleted bill FOR UPDATE, or returns ErrNotFound.
	LockBill(ctx context.Context, id int64) (*Bill, error)
	UpdateBill(ctx context.Context, b *Bill, actor string) error
	// ListRoomIDs returns non-deleted unit charge ids ordered by creation.
	ListRoomIDs(ctx context.Context, billID int64) ([]int64, error)
	DeleteRooms(ctx context.Context, ids []int64, actor string) error
	// DeleteBill soft-deletes a bill together with its unit charges.
	DeleteBill(ctx context.Context, id int64, actor string) error

	Commit() error
	Rollback() error
}

// Loader reads and validates an uploaded charge sheet.
type Loader interface {
	Check(ctx context.Context, src importer.Source, excluded []int) (*importer.Result, error)
}

// Notifier writes notification audits and reports resend windows.
type Notifier interface {
	FanOut(ctx context.Context, billID int64, customerID, remark, actor string) (int, error)
	Windows(ctx context.Context, customerID string, ids []int64) (map[int64]notification.Window, error)
}

type Service struct {
	repo     Repository
	loader   Loader
	notifier Notifier
	log      *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewService wires the engine. loc is the zone identifiers take their calendar day from.
func NewService(repo Repository, loader Loader, notifier Notifier, log *zap.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{repo: repo, loader: loader, notifier: notifier, log: log, loc: loc, now: time.Now}
}

// WithClock replaces the wall clock, for tests and replays.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Location() *time.Location { return s.loc }

// FanOutResult reports the best-effort notification step that follows a commit.
type FanOutResult struct {
	Sent  int
	Error string
}

type MaterializeParams struct {
	UploadKey    string
	CustomerID   string
	Title        string
	TypeID       int64
	Detail       string
	ExpireDate   time.Time
	Status       Status
	Actor        string
	ExcludedRows []int
}

type MaterializeResult struct {
	Bill         *Bill
	Rooms        []*Room
	Check        *importer.Result
	Notification *FanOutResult
}

// Materialize turns an uploaded sheet into a bill and its unit charges in one transaction.
func (s *Service) Materialize(ctx context.Context, p MaterializeParams) (*MaterializeResult, error) {
	if p.Status != StatusDraft && p.Status != StatusSent {
		return nil, ErrInvalidTransition.With("status", p.Status)
	}

	att, err := s.repo.LatestAttachment(ctx, p.UploadKey)
	if err != nil {
		return nil, fmt.Errorf("latest attachment: %w", err)
	}

	check, err := s.loader.Check(ctx, importer.Source{Path: att.FilePath, Ext: att.FileExt}, p.ExcludedRows)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", p.UploadKey, err)
	}

	if len(check.Valid) == 0 {
		return nil, ErrNoValidData.
			With("skipped_rows", check.Skipped).
			With("excluded_rows", check.Excluded)
	}

	b := &Bill{
		CustomerID: p.CustomerID,
		UploadKey:  p.UploadKey,
		Title:      p.Title,
		TypeID:     p.TypeID,
		Detail:     p.Detail,
		ExpireDate: EndOfDayUTC(p.ExpireDate),
		Status:     p.Status,
		CreateBy:   p.Actor,
	}

	rooms, err := s.create(ctx, b, check.Valid)
	if err != nil {
		return nil, err
	}

	res := &MaterializeResult{Bill: b, Rooms: rooms, Check: check}

	if b.Status == StatusSent {
		res.Notification = s.fanOut(ctx, b, notification.RemarkCreateAndSend, p.Actor)
	}

	return res, nil
}

type CreateParams struct {
	CustomerID string
	Title      string
	TypeID     int64
	Detail     string
	ExpireDate time.Time
	Status     Status
	Remark     *string
	Actor      string
}

// Create inserts a bill without unit charges.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Bill, error) {
	if p.Status != StatusDraft && p.Status != StatusSent {
		return nil, ErrInvalidTransition.With("status", p.Status)
	}

	b := &Bill{
		CustomerID: p.CustomerID,
		Title:      p.Title,
		TypeID:     p.TypeID,
		Detail:     p.Detail,
		ExpireDate: EndOfDayUTC(p.ExpireDate),
		Status:     p.Status,
		Remark:     p.Remark,
		CreateBy:   p.Actor,
	}

	if _, err := s.create(ctx, b, nil); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) create(ctx context.Context, b *Bill, rows []importer.ValidRow) ([]*Room, error) {
	now := s.now()
	day := DayKey(now, s.loc)

	b.CreateDate = now
	if b.Status == StatusSent {
		b.SendDate = &now
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	nos, err := tx.NextNumbers(ctx, PrefixBill, b.CustomerID, day, 1)
	if err != nil {
		return nil, fmt.Errorf("mint bill number: %w", err)
	}

	b.BillNo = nos[0]

	if err := tx.InsertBill(ctx, b); err != nil {
		return nil, fmt.Errorf("insert bill: %w", err)
	}

	if err := tx.AppendAudit(ctx, b.ID, b.Status, b.CreateBy); err != nil {
		return nil, fmt.Errorf("audit bill: %w", err)
	}

	var rooms []*Room

	if len(rows) > 0 {
		invoices, err := tx.NextNumbers(ctx, PrefixInvoice, b.CustomerID, day, len(rows))
		if err != nil {
			return nil, fmt.Errorf("mint invoice numbers: %w", err)
		}

		rooms = make([]*Room, len(rows))
		for i, r := range rows {
			rooms[i] = &Room{
				BillID:     b.ID,
				InvoiceNo:  invoices[i],
				CustomerID: b.CustomerID,
				HouseNo:    r.Unit,
				MemberName: r.Member,
				TotalPrice: r.Amount,
				Remark:     r.Remark,
				Status:     RoomPending,
				CreateDate: now,
				CreateBy:   b.CreateBy,
			}
		}

		if err := tx.InsertRooms(ctx, rooms); err != nil {
			return nil, fmt.Errorf("insert unit charges: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	return rooms, nil
}

type TransitionResult struct {
	Bill         *Bill
	Notification *FanOutResult
}

// Send moves a draft or cancelled bill to sent and notifies every unit.
func (s *Service) Send(ctx context.Context, id int64, actor string) (*TransitionResult, error) {
	b, err := s.transition(ctx, id, actor, func(b *Bill) error {
		if b.Status == StatusSent {
			return conflict(ErrAlreadySent, b.Status)
		}

		now := s.now()
		b.Status = StatusSent
		b.SendDate = &now

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &TransitionResult{Bill: b, Notification: s.fanOut(ctx, b, notification.RemarkSend, actor)}, nil
}

// CancelSend withdraws a sent bill.
func (s *Service) CancelSend(ctx context.Context, id int64, actor string) (*TransitionResult, error) {
	b, err := s.transition(ctx, id, actor, func(b *Bill) error {
		if b.Status != StatusSent {
			return conflict(ErrNotSent, b.Status)
		}

		b.Status = StatusCancelledSend
		b.SendDate = nil

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &TransitionResult{Bill: b}, nil
}

// transition locks a bill, applies fn, persists and audits the new status in one transaction.
func (s *Service) transition(ctx context.Context, id int64, actor string, fn func(b *Bill) error) (*Bill, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback()

	b, err := tx.LockBill(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lock bill %d: %w", id, err)
	}

	if err := fn(b); err != nil {
		return nil, err
	}

	if err := tx.UpdateBill(ctx, b, actor); err != nil {
		return nil, fmt.Errorf("update bill: %w", err)
	}

	if err := tx.AppendAudit(ctx, b.ID, b.Status, actor); err != nil {
		return nil, fmt.Errorf("audit bill: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}

	return b, nil
}

// Delete soft-deletes a bill and its unit charges.
func (s *Service) Delete(ctx context.Context, id int64, actor string) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.LockBill(ctx, id); err != nil {
		return fmt.Errorf("lock bill %d: %w", id, err)
	}

	if err := tx.DeleteBill(ctx, id, actor); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}

	if err := tx.AppendAudit(ctx, id, StatusDeleted, actor); err != nil {
		return fmt.Errorf("audit bill: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	return nil
}

type UpdateParams struct {
	ID         int64
	Title      string
	TypeID     int64
	Detail     string
	ExpireDate time.Time
	Status     Status
	Remark     *string
	Actor      string
	// DeleteRows are 1-based positions among the bill's unit charges, oldest first.
	DeleteRows []int
}

// Update edits a bill, optionally removing some of its unit charges.
func (s *Service) Update(ctx context.Context, p UpdateParams) (*TransitionResult, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	b, err := tx.LockBill(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("lock bill %d: %w", p.ID, err)
	}

	prev := b.Status

	if !canTransition(prev, p.Status) {
		return nil, ErrInvalidTransition.
			Withf(fmt.Sprintf("cannot change bill status from %d to %d", prev, p.Status)).
			With("from", prev).
			With("to", p.Status)
	}

	if len(p.DeleteRows) > 0 {
		ids, err := tx.ListRoomIDs(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("list unit charges: %w", err)
		}

		victims, err := pickRows(ids, p.DeleteRows)
		if err != nil {
			return nil, err
		}

		if len(victims) >= len(ids) {
			return nil, ErrDeleteAllForbidden.With("row_count", len(ids))
		}

		if err := tx.DeleteRooms(ctx, victims, p.Actor); err != nil {
			return nil, fmt.Errorf("delete unit charges: %w", err)
		}
	}

	b.Title = p.Title
	b.TypeID = p.TypeID
	b.Detail = p.Detail
	b.ExpireDate = EndOfDayUTC(p.ExpireDate)
	b.Remark = p.Remark
	b.Status = p.Status

	switch p.Status {
	case StatusSent:
		if b.SendDate == nil {
			now := s.now()
			b.SendDate = &now
		}
	case StatusDraft, StatusCancelledSend:
		b.SendDate = nil
	}

	if err := tx.UpdateBill(ctx, b, p.Actor); err != nil {
		return nil, fmt.Errorf("update bill: %w", err)
	}

	if prev != b.Status {
		if err := tx.AppendAudit(ctx, b.ID, b.Status, p.Actor); err != nil {
			return nil, fmt.Errorf("audit bill: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	res := &TransitionResult{Bill: b}

	if prev != StatusSent && b.Status == StatusSent {
		res.Notification = s.fanOut(ctx, b, notification.RemarkSend, p.Actor)
	}

	return res, nil
}

// pickRows maps 1-based positions onto ids, ignoring repeats.
func pickRows(ids []int64, positions []int) ([]int64, error) {
	picked := make([]int64, 0, len(positions))

	for _, pos := range positions {
		if pos < 1 || pos > len(ids) {
			return nil, ErrInvalidDeleteRows.
				With("delete_rows", positions).
				With("row_count", len(ids))
		}

		if id := ids[pos-1]; !slices.Contains(picked, id) {
			picked = append(picked, id)
		}
	}

	return picked, nil
}

func (s *Service) fanOut(ctx context.Context, b *Bill, remark, actor string) *FanOutResult {
	n, err := s.notifier.FanOut(ctx, b.ID, b.CustomerID, remark, actor)
	if err != nil {
		s.log.Warn("notification fan-out failed",
			zap.Int64("bill_id", b.ID),
			zap.String("customer_id", b.CustomerID),
			zap.Error(err))

		return &FanOutResult{Error: err.Error()}
	}

	return &FanOutResult{Sent: n}
}

// conflict annotates a state error with the bill's current status.
func conflict(e *apperr.Error, status Status) error {
	return e.Withf(fmt.Sprintf("%s (current status %d)", e.Message, status)).With("status", status)
}
