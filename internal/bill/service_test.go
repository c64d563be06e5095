package bill_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/condobill/internal/apperr"
	"github.com/MrJamesThe3rd/condobill/internal/bill"
	"github.com/MrJamesThe3rd/condobill/internal/importer"
	"github.com/MrJamesThe3rd/condobill/internal/notification"
)

var (
	ict   = time.FixedZone("ICT", 7*3600)
	clock = time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
)

type mocks struct {
	repo     *bill.MockRepository
	tx       *bill.MockTx
	loader   *bill.MockLoader
	notifier *bill.MockNotifier
}

func newService(t *testing.T) (*bill.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:     bill.NewMockRepository(ctrl),
		tx:       bill.NewMockTx(ctrl),
		loader:   bill.NewMockLoader(ctrl),
		notifier: bill.NewMockNotifier(ctrl),
	}

	svc := bill.NewService(m.repo, m.loader, m.notifier, zap.NewNop(), ict).
		WithClock(func() time.Time { return clock })

	return svc, m
}

func validRow(row int, unit, member, amount string, remark *string) importer.ValidRow {
	return importer.ValidRow{Row: row, Unit: unit, Member: member, Amount: decimal.RequireFromString(amount), Remark: remark}
}

func TestService_Materialize(t *testing.T) {
	late := "late"
	attachment := &bill.Attachment{UploadKey: "U1", FilePath: "bill/u1.csv", FileExt: "csv"}
	params := bill.MaterializeParams{
		UploadKey:  "U1",
		CustomerID: "c1",
		Title:      "June",
		TypeID:     2,
		ExpireDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:     bill.StatusSent,
		Actor:      "u1",
	}

	t.Run("SentWithSkippedRow", func(t *testing.T) {
		svc, m := newService(t)

		check := &importer.Result{
			Valid: []importer.ValidRow{
				validRow(1, "10/05", "Alice", "1500", nil),
				validRow(2, "10/06", "Bob", "2000", &late),
			},
			Skipped:      []importer.SkippedRow{{Row: 3, Reason: importer.ReasonNonNumeric, Unit: "10/07", Member: "Carol", Amount: "abc"}},
			Excluded:     []int{},
			ValidCount:   2,
			InvalidCount: 1,
			Total:        decimal.NewFromInt(3500),
		}

		gomock.InOrder(
			m.repo.EXPECT().LatestAttachment(gomock.Any(), "U1").Return(attachment, nil),
			m.loader.EXPECT().Check(gomock.Any(), importer.Source{Path: "bill/u1.csv", Ext: "csv"}, []int(nil)).Return(check, nil),
			m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil),
			m.tx.EXPECT().NextNumbers(gomock.Any(), bill.PrefixBill, "c1", "2025-0601", 1).
				Return([]string{"BILL-2025-0601-000"}, nil),
			m.tx.EXPECT().InsertBill(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *bill.Bill) error {
				assert.Equal(t, "BILL-2025-0601-000", b.BillNo)
				assert.Equal(t, time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC), b.ExpireDate)
				require.NotNil(t, b.SendDate)
				assert.Equal(t, clock, *b.SendDate)
				b.ID = 10

				return nil
			}),
			m.tx.EXPECT().AppendAudit(gomock.Any(), int64(10), bill.StatusSent, "u1").Return(nil),
			m.tx.EXPECT().NextNumbers(gomock.Any(), bill.PrefixInvoice, "c1", "2025-0601", 2).
				Return([]string{"INV-2025-0601-000", "INV-2025-0601-001"}, nil),
			m.tx.EXPECT().InsertRooms(gomock.Any(), gomock.Len(2)).DoAndReturn(func(_ context.Context, rooms []*bill.Room) error {
				assert.Equal(t, "INV-2025-0601-001", rooms[1].InvoiceNo)
				assert.Equal(t, "10/06", rooms[1].HouseNo)
				assert.Equal(t, &late, rooms[1].Remark)
				assert.Nil(t, rooms[0].Remark)

				for _, r := range rooms {
					assert.Equal(t, int64(10), r.BillID)
					assert.Equal(t, bill.RoomPending, r.Status)
					assert.Equal(t, "u1", r.CreateBy)
				}

				return nil
			}),
			m.tx.EXPECT().Commit().Return(nil),
			m.tx.EXPECT().Rollback().Return(nil),
			m.notifier.EXPECT().FanOut(gomock.Any(), int64(10), "c1", notification.RemarkCreateAndSend, "u1").Return(2, nil),
		)

		got, err := svc.Materialize(context.Background(), params)
		require.NoError(t, err)

		assert.Equal(t, "BILL-2025-0601-000", got.Bill.BillNo)
		assert.Len(t, got.Rooms, 2)
		assert.Equal(t, 1, got.Check.InvalidCount)
		require.NotNil(t, got.Notification)
		assert.Equal(t, 2, got.Notification.Sent)
	})

	t.Run("FanOutFailureKeepsBill", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().LatestAttachment(gomock.Any(), "U1").Return(attachment, nil)
		m.loader.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any()).Return(&importer.Result{
			Valid: []importer.ValidRow{validRow(2, "10/06", "Bob", "2000", nil)},
		}, nil)
		m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().NextNumbers(gomock.Any(), bill.PrefixBill, gomock.Any(), gomock.Any(), 1).Return([]string{"BILL-2025-0601-004"}, nil)
		m.tx.EXPECT().InsertBill(gomock.Any(), gomock.Any()).Return(nil)
		m.tx.EXPECT().AppendAudit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.tx.EXPECT().NextNumbers(gomock.Any(), bill.PrefixInvoice, gomock.Any(), gomock.Any(), 1).Return([]string{"INV-2025-0601-010"}, nil)
		m.tx.EXPECT().InsertRooms(gomock.Any(), gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit().Return(nil)
		m.tx.EXPECT().Rollback().Return(nil)
		m.notifier.EXPECT().FanOut(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(0, errors.New("audit table locked"))

		got, err := svc.Materialize(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "audit table locked", got.Notification.Error)
	})

	t.Run("DraftSkipsFanOut", func(t *testing.T) {
		svc, m := newService(t)

		draft := params
		draft.Status = bill.StatusDraft

		m.repo.EXPECT().LatestAttachment(gomock.Any(), "U1").Return(attachment, nil)
		m.loader.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any()).Return(&importer.Result{
			Valid: []importer.ValidRow{validRow(1, "10/05", "Alice", "1500", nil)},
		}, nil)
		m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().NextNumbers(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]string{"X"}, nil).Times(2)
		m.tx.EXPECT().InsertBill(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *bill.Bill) error {
			assert.Nil(t, b.SendDate)
			return nil
		})
		m.tx.EXPECT().AppendAudit(gomock.Any(), gomock.Any(), bill.StatusDraft, gomock.Any()).Return(nil)
		m.tx.EXPECT().InsertRooms(gomock.Any(), gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit().Return(nil)
		m.tx.EXPECT().Rollback().Return(nil)

		got, err := svc.Materialize(context.Background(), draft)
		require.NoError(t, err)
		assert.Nil(t, got.Notification)
	})

	t.Run("NoValidRows", func(t *testing.T) {
		svc, m := newService(t)

		skipped := []importer.SkippedRow{{Row: 1, Reason: importer.ReasonMissing}}

		m.repo.EXPECT().LatestAttachment(gomock.Any(), "U1").Return(attachment, nil)
		m.loader.EXPECT().Check(gomock.Any(), gomock.Any(), []int{2}).Return(&importer.Result{
			Valid:    []importer.ValidRow{},
			Skipped:  skipped,
			Excluded: []int{2},
		}, nil)

		p := params
		p.ExcludedRows = []int{2}

		_, err := svc.Materialize(context.Background(), p)
		require.Error(t, err)
		assert.ErrorIs(t, err, bill.ErrNoValidData)

		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, skipped, appErr.Details["skipped_rows"])
	})

	t.Run("AttachmentMissing", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().LatestAttachment(gomock.Any(), "U1").Return(nil, bill.ErrAttachmentMissing)

		_, err := svc.Materialize(context.Background(), params)
		assert.ErrorIs(t, err, bill.ErrAttachmentMissing)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("InsertFailureRollsBack", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().LatestAttachment(gomock.Any(), "U1").Return(attachment, nil)
		m.loader.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any()).Return(&importer.Result{
			Valid: []importer.ValidRow{validRow(1, "10/05", "Alice", "1500", nil)},
		}, nil)
		m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().NextNumbers(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]string{"X"}, nil).Times(2)
		m.tx.EXPECT().InsertBill(gomock.Any(), gomock.Any()).Return(nil)
		m.tx.EXPECT().AppendAudit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.tx.EXPECT().InsertRooms(gomock.Any(), gomock.Any()).Return(errors.New("unique violation"))
		m.tx.EXPECT().Rollback().Return(nil)

		_, err := svc.Materialize(context.Background(), params)
		assert.Error(t, err)
	})

	t.Run("RejectsCancelledStatus", func(t *testing.T) {
		svc, _ := newService(t)

		p := params
		p.Status = bill.StatusCancelledSend

		_, err := svc.Materialize(context.Background(), p)
		assert.ErrorIs(t, err, bill.ErrInvalidTransition)
	})
}

func TestService_Create(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().NextNumbers(gomock.Any(), bill.PrefixBill, "c1", "2025-0601", 1).Return([]string{"BILL-2025-0601-003"}, nil)
	m.tx.EXPECT().InsertBill(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *bill.Bill) error {
		b.ID = 5
		return nil
	})
	m.tx.EXPECT().AppendAudit(gomock.Any(), int64(5), bill.StatusDraft, "u1").Return(nil)
	m.tx.EXPECT().Commit().Return(nil)
	m.tx.EXPECT().Rollback().Return(nil)

	b, err := svc.Create(context.Background(), bill.CreateParams{
		CustomerID: "c1",
		Title:      "Legacy",
		ExpireDate: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		Status:     bill.StatusDraft,
		Actor:      "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, "BILL-2025-0601-003", b.BillNo)
	assert.Nil(t, b.SendDate)
}

func TestService_Send(t *testing.T) {
	type testCase struct {
		name       string
		current    bill.Status
		wantErr    error
		wantFanOut bool
	}

	tests := []testCase{
		{name: "FromDraft", current: bill.StatusDraft, wantFanOut: true},
		{name: "FromCancelled", current: bill.StatusCancelledSend, wantFanOut: true},
		{name: "AlreadySent", current: bill.StatusSent, wantErr: bill.ErrAlreadySent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
			m.tx.EXPECT().LockBill(gomock.Any(), int64(7)).Return(&bill.Bill{ID: 7, CustomerID: "c1", Status: tt.current}, nil)
			m.tx.EXPECT().Rollback().Return(nil)

			if tt.wantErr == nil {
				m.tx.EXPECT().UpdateBill(gomock.Any(), gomock.Any(), "u1").DoAndReturn(func(_ context.Context, b *bill.Bill, _ string) error {
					assert.Equal(t, bill.StatusSent, b.Status)
					require.NotNil(t, b.SendDate)

					return nil
				})
				m.tx.EXPECT().AppendAudit(gomock.Any(), int64(7), bill.StatusSent, "u1").Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
				m.notifier.EXPECT().FanOut(gomock.Any(), int64(7), "c1", notification.RemarkSend, "u1").Return(3, nil)
			}

			got, err := svc.Send(context.Background(), 7, "u1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, apperr.KindStateConflict, apperr.KindOf(err))
				assert.Contains(t, err.Error(), "current status 1")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 3, got.Notification.Sent)
		})
	}
}

func TestService_CancelSend(t *testing.T) {
	t.Run("ClearsSendDate", func(t *testing.T) {
		svc, m := newService(t)

		sent := clock.Add(-time.Hour)

		m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().LockBill(gomock.Any(), int64(7)).Return(&bill.Bill{ID: 7, Status: bill.StatusSent, SendDate: &sent}, nil)
		m.tx.EXPECT().UpdateBill(gomock.Any(), gomock.Any(), "u1").DoAndReturn(func(_ context.Context, b *bill.Bill, _ string) error {
			assert.Equal(t, bill.StatusCancelledSend, b.Status)
			assert.Nil(t, b.SendDate)

			return nil
		})
		m.tx.EXPECT().AppendAudit(gomock.Any(), int64(7), bill.StatusCancelledSend, "u1").Return(nil)
		m.tx.EXPECT().Commit().Return(nil)
		m.tx.EXPECT().Rollback().Return(nil)

		_, err := svc.CancelSend(context.Background(), 7, "u1")
		require.NoError(t, err)
	})

	t.Run("NotSent", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().LockBill(gomock.Any(), int64(7)).Return(&bill.Bill{ID: 7, Status: bill.StatusDraft}, nil)
		m.tx.EXPECT().Rollback().Return(nil)

		_, err := svc.CancelSend(context.Background(), 7, "u1")
		assert.ErrorIs(t, err, bill.ErrNotSent)
	})

	t.Run("Missing", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().LockBill(gomock.Any(), int64(7)).Return(nil, bill.ErrNotFound)
		m.tx.EXPECT().Rollback().Return(nil)

		_, err := svc.CancelSend(context.Background(), 7, "u1")
		assert.ErrorIs(t, err, bill.ErrNotFound)
		assert.Equal(t, 404, apperr.HTTPStatus(err))
	})
}

func TestService_Delete(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().LockBill(gomock.Any(), int64(7)).Return(&bill.Bill{ID: 7, Status: bill.StatusSent}, nil)
	m.tx.EXPECT().DeleteBill(gomock.Any(), int64(7), "u1").Return(nil)
	m.tx.EXPECT().AppendAudit(gomock.Any(), int64(7), bill.StatusDeleted, "u1").Return(nil)
	m.tx.EXPECT().Commit().Return(nil)
	m.tx.EXPECT().Rollback().Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 7, "u1"))
}

func TestService_Update(t *testing.T) {
	base := bill.UpdateParams{
		ID:         7,
		Title:      "June (edited)",
		TypeID:     2,
		ExpireDate: time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		Actor:      "u1",
	}

	type testCase struct {
		name      string
		current   bill.Status
		to        bill.Status
		rows      []int
		setupMock func(m mocks)
		wantErr   error
		check     func(t *testing.T, res *bill.TransitionResult)
	}

	tests := []testCase{
		{
			name:    "DeleteAllForbidden",
			current: bill.StatusSent,
			to:      bill.StatusSent,
			rows:    []int{1, 2, 3},
			setupMock: func(m mocks) {
				m.tx.EXPECT().ListRoomIDs(gomock.Any(), int64(7)).Return([]int64{31, 32, 33}, nil)
			},
			wantErr: bill.ErrDeleteAllForbidden,
		},
		{
			name:    "DeleteRowOutOfRange",
			current: bill.StatusDraft,
			to:      bill.StatusDraft,
			rows:    []int{4},
			setupMock: func(m mocks) {
				m.tx.EXPECT().ListRoomIDs(gomock.Any(), int64(7)).Return([]int64{31, 32, 33}, nil)
			},
			wantErr: bill.ErrInvalidDeleteRows,
		},
		{
			name:    "DeletesSubsetWithoutAudit",
			current: bill.StatusSent,
			to:      bill.StatusSent,
			rows:    []int{1, 3, 3},
			setupMock: func(m mocks) {
				m.tx.EXPECT().ListRoomIDs(gomock.Any(), int64(7)).Return([]int64{31, 32, 33}, nil)
				m.tx.EXPECT().DeleteRooms(gomock.Any(), []int64{31, 33}, "u1").Return(nil)
				m.tx.EXPECT().UpdateBill(gomock.Any(), gomock.Any(), "u1").DoAndReturn(func(_ context.Context, b *bill.Bill, _ string) error {
					assert.Equal(t, "June (edited)", b.Title)
					assert.Equal(t, time.Date(2025, 7, 5, 23, 59, 59, 0, time.UTC), b.ExpireDate)
					assert.NotNil(t, b.SendDate)

					return nil
				})
				m.tx.EXPECT().Commit().Return(nil)
			},
			check: func(t *testing.T, res *bill.TransitionResult) {
				assert.Nil(t, res.Notification)
			},
		},
		{
			name:    "DraftToSentFansOut",
			current: bill.StatusDraft,
			to:      bill.StatusSent,
			setupMock: func(m mocks) {
				m.tx.EXPECT().UpdateBill(gomock.Any(), gomock.Any(), "u1").DoAndReturn(func(_ context.Context, b *bill.Bill, _ string) error {
					require.NotNil(t, b.SendDate)
					assert.Equal(t, clock, *b.SendDate)

					return nil
				})
				m.tx.EXPECT().AppendAudit(gomock.Any(), int64(7), bill.StatusSent, "u1").Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
				m.notifier.EXPECT().FanOut(gomock.Any(), int64(7), "c1", notification.RemarkSend, "u1").Return(2, nil)
			},
			check: func(t *testing.T, res *bill.TransitionResult) {
				require.NotNil(t, res.Notification)
				assert.Equal(t, 2, res.Notification.Sent)
			},
		},
		{
			name:    "CancelledToDraftClearsSendDate",
			current: bill.StatusCancelledSend,
			to:      bill.StatusDraft,
			setupMock: func(m mocks) {
				m.tx.EXPECT().UpdateBill(gomock.Any(), gomock.Any(), "u1").DoAndReturn(func(_ context.Context, b *bill.Bill, _ string) error {
					assert.Nil(t, b.SendDate)
					return nil
				})
				m.tx.EXPECT().AppendAudit(gomock.Any(), int64(7), bill.StatusDraft, "u1").Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:    "SentToDraftRejected",
			current: bill.StatusSent,
			to:      bill.StatusDraft,
			wantErr: bill.ErrInvalidTransition,
		},
		{
			name:    "ToDeletedRejected",
			current: bill.StatusDraft,
			to:      bill.StatusDeleted,
			wantErr: bill.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			current := &bill.Bill{ID: 7, CustomerID: "c1", Status: tt.current, Title: "June"}
			if tt.current == bill.StatusSent {
				sent := clock.Add(-time.Hour)
				current.SendDate = &sent
			}

			m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
			m.tx.EXPECT().LockBill(gomock.Any(), int64(7)).Return(current, nil)
			m.tx.EXPECT().Rollback().Return(nil)

			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			p := base
			p.Status = tt.to
			p.DeleteRows = tt.rows

			got, err := svc.Update(context.Background(), p)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
