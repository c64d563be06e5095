package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=notification
type Repository interface {
	// BeginResend opens a transaction serialized on (table, rowsID, customerID).
	BeginResend(ctx context.Context, table string, rowsID int64, customerID string) (ResendTx, error)
	ActiveRoomIDs(ctx context.Context, billID int64, customerID string) ([]int64, error)
	AppendMany(ctx context.Context, audits []*Audit) error
	LatestSent(ctx context.Context, table, customerID string, ids []int64) (map[int64]time.Time, error)
}

type ResendTx interface {
	RowExists(ctx context.Context, table string, rowsID int64, customerID string) (bool, error)
	Latest(ctx context.Context, table string, rowsID int64, customerID string) (*time.Time, error)
	Append(ctx context.Context, a *Audit) error
	Commit() error
	Rollback() error
}

// IntervalSource resolves the per-tenant resend interval.
type IntervalSource interface {
	ResendInterval(ctx context.Context, customerID string) (time.Duration, error)
}

// Publisher mirrors appended audits to an out-of-band queue.
type Publisher interface {
	Publish(ctx context.Context, audits []*Audit) error
}

type Service struct {
	repo      Repository
	intervals IntervalSource
	pub       Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, intervals IntervalSource, pub Publisher, log *zap.Logger) *Service {
	if pub == nil {
		pub = NopPublisher{}
	}

	return &Service{repo: repo, intervals: intervals, pub: pub, log: log, now: time.Now}
}

// WithClock replaces the wall clock, for tests and replays.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type ResendParams struct {
	TableName  string
	RowsID     int64
	CustomerID string
	Actor      string
}

// Resend appends one resend audit for a unit charge unless the previous notification is
// younger than the tenant's interval.
func (s *Service) Resend(ctx context.Context, p ResendParams) (*Audit, error) {
	if p.TableName != TableBillRoom {
		return nil, ErrUnsupportedTable.With("table_name", p.TableName)
	}

	interval := s.interval(ctx, p.CustomerID)

	rtx, err := s.repo.BeginResend(ctx, p.TableName, p.RowsID, p.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("begin resend: %w", err)
	}
	defer rtx.Rollback()

	ok, err := rtx.RowExists(ctx, p.TableName, p.RowsID, p.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check row: %w", err)
	}

	if !ok {
		return nil, ErrUnitChargeNotFound.With("id", p.RowsID)
	}

	last, err := rtx.Latest(ctx, p.TableName, p.RowsID, p.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("latest notification: %w", err)
	}

	now := s.now()

	if w := WindowAt(last, now, interval); !w.CanSend {
		return nil, ErrThrottled.
			Withf(fmt.Sprintf("a notification was sent recently; try again in %d minutes", *w.RemainingMinutes)).
			With("remaining_minutes", *w.RemainingMinutes)
	}

	audit := &Audit{
		TableName:  p.TableName,
		RowsID:     p.RowsID,
		CustomerID: p.CustomerID,
		Remark:     RemarkResend,
		CreateBy:   p.Actor,
		CreateDate: now,
	}

	if err := rtx.Append(ctx, audit); err != nil {
		return nil, fmt.Errorf("append notification: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit resend: %w", err)
	}

	s.publish(ctx, []*Audit{audit})

	return audit, nil
}

// FanOut appends one audit per non-deleted unit charge of a bill and returns how many were written.
func (s *Service) FanOut(ctx context.Context, billID int64, customerID, remark, actor string) (int, error) {
	ids, err := s.repo.ActiveRoomIDs(ctx, billID, customerID)
	if err != nil {
		return 0, fmt.Errorf("list unit charges: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	now := s.now()
	audits := make([]*Audit, len(ids))

	for i, id := range ids {
		audits[i] = &Audit{
			TableName:  TableBillRoom,
			RowsID:     id,
			CustomerID: customerID,
			Remark:     remark,
			CreateBy:   actor,
			CreateDate: now,
		}
	}

	if err := s.repo.AppendMany(ctx, audits); err != nil {
		return 0, fmt.Errorf("append notifications: %w", err)
	}

	s.publish(ctx, audits)

	return len(audits), nil
}

// Windows reports the resend window of each unit charge id.
func (s *Service) Windows(ctx context.Context, customerID string, ids []int64) (map[int64]Window, error) {
	out := make(map[int64]Window, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	interval := s.interval(ctx, customerID)

	latest, err := s.repo.LatestSent(ctx, TableBillRoom, customerID, ids)
	if err != nil {
		return nil, fmt.Errorf("latest notifications: %w", err)
	}

	now := s.now()

	for _, id := range ids {
		var last *time.Time
		if t, ok := latest[id]; ok {
			last = &t
		}

		out[id] = WindowAt(last, now, interval)
	}

	return out, nil
}

func (s *Service) interval(ctx context.Context, customerID string) time.Duration {
	if s.intervals == nil {
		return DefaultInterval
	}

	d, err := s.intervals.ResendInterval(ctx, customerID)
	if err != nil || d < 0 {
		s.log.Warn("resend interval unavailable, using default",
			zap.String("customer_id", customerID), zap.Error(err))

		return DefaultInterval
	}

	return d
}

func (s *Service) publish(ctx context.Context, audits []*Audit) {
	if err := s.pub.Publish(ctx, audits); err != nil {
		s.log.Error("publishing notification events",
			zap.Int("count", len(audits)), zap.Error(err))
	}
}
