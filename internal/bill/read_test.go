package bill_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
	"github.com/MrJamesThe3rd/condobill/internal/importer"
	"github.com/MrJamesThe3rd/condobill/internal/notification"
	"github.com/MrJamesThe3rd/condobill/internal/pagination"
)

func TestService_Rooms(t *testing.T) {
	svc, m := newService(t)

	parent := &bill.Bill{ID: 7, ExpireDate: clock.Add(-time.Hour)}
	rooms := []*bill.Room{
		{ID: 1, Status: bill.RoomPending, TotalPrice: decimal.NewFromInt(1000), PaidSum: decimal.NewFromInt(400), Bill: parent},
		{ID: 2, Status: bill.RoomPending, TotalPrice: decimal.NewFromInt(1000), Bill: parent},
		{ID: 3, Status: bill.RoomPaid, TotalPrice: decimal.NewFromInt(1000), PaidSum: decimal.NewFromInt(1000), Bill: parent},
	}

	m.repo.EXPECT().ListRooms(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f bill.RoomFilter) ([]*bill.Room, int64, error) {
		assert.Equal(t, clock, f.Now)
		return rooms, 21, nil
	})
	m.notifier.EXPECT().Windows(gomock.Any(), "c1", []int64{1, 2, 3}).Return(map[int64]notification.Window{
		1: {CanSend: false, RemainingMinutes: new(20)},
		2: {CanSend: true},
	}, nil)

	got, meta, err := svc.Rooms(context.Background(), bill.RoomFilter{
		CustomerID: "c1",
		Page:       pagination.Params{Page: 2, Limit: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, bill.RoomPartial, got[0].Observed)
	assert.Equal(t, bill.RoomOverdue, got[1].Observed)
	assert.Equal(t, bill.RoomPaid, got[2].Observed)

	assert.False(t, got[0].CanSendNotification)
	require.NotNil(t, got[0].RemainingMinutes)
	assert.Equal(t, 20, *got[0].RemainingMinutes)
	assert.True(t, got[1].CanSendNotification)
	assert.Nil(t, got[1].RemainingMinutes)

	assert.Equal(t, int64(21), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestService_ExportRooms(t *testing.T) {
	t.Run("Scoped", func(t *testing.T) {
		svc, m := newService(t)

		b := &bill.Bill{ID: 7, CustomerID: "c1", ExpireDate: clock.Add(24 * time.Hour)}

		m.repo.EXPECT().GetBill(gomock.Any(), int64(7), "c1").Return(b, nil)
		m.repo.EXPECT().ListRooms(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f bill.RoomFilter) ([]*bill.Room, int64, error) {
			require.NotNil(t, f.BillID)
			assert.Equal(t, int64(7), *f.BillID)
			assert.Equal(t, "c1", f.CustomerID)
			assert.Zero(t, f.Page.Limit)

			return []*bill.Room{{ID: 1, Status: bill.RoomPending, TotalPrice: decimal.NewFromInt(10), Bill: b}}, 1, nil
		})
		m.notifier.EXPECT().Windows(gomock.Any(), "c1", []int64{1}).Return(map[int64]notification.Window{}, nil)

		got, rooms, err := svc.ExportRooms(context.Background(), "c1", 7)
		require.NoError(t, err)
		assert.Same(t, b, got)
		require.Len(t, rooms, 1)
		assert.Equal(t, bill.RoomPending, rooms[0].Observed)
	})

	t.Run("NoCustomer", func(t *testing.T) {
		svc, _ := newService(t)

		_, _, err := svc.ExportRooms(context.Background(), "", 7)
		assert.ErrorIs(t, err, bill.ErrCustomerRequired)
	})
}

func TestService_Preview(t *testing.T) {
	svc, m := newService(t)

	att := &bill.Attachment{UploadKey: "U1", FilePath: "a/b.xlsx", FileExt: "xlsx"}
	res := &importer.Result{ValidCount: 3}

	m.repo.EXPECT().LatestAttachment(gomock.Any(), "U1").Return(att, nil)
	m.loader.EXPECT().Check(gomock.Any(), importer.Source{Path: "a/b.xlsx", Ext: "xlsx"}, []int{4}).Return(res, nil)

	gotAtt, gotRes, err := svc.Preview(context.Background(), "U1", []int{4})
	require.NoError(t, err)
	assert.Same(t, att, gotAtt)
	assert.Same(t, res, gotRes)
}

func TestService_Summary(t *testing.T) {
	type testCase struct {
		name  string
		rooms bill.Counter
		want  int
	}

	tests := []testCase{
		{name: "Rounds", rooms: bill.Counter{Total: 3, New: 2}, want: 67},
		{name: "AllNew", rooms: bill.Counter{Total: 5, New: 5}, want: 100},
		{name: "Empty", rooms: bill.Counter{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			m.repo.EXPECT().Summary(gomock.Any(), "c1").Return(&bill.Summary{Rooms: tt.rooms}, nil)

			got, err := svc.Summary(context.Background(), "c1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.RoomsPercent)
		})
	}
}

func TestService_StatusCounts(t *testing.T) {
	svc, m := newService(t)

	billID := int64(7)
	want := &bill.StatusCounts{Pending: 2, Overdue: 1, Total: 3}

	m.repo.EXPECT().CountRoomStatus(gomock.Any(), "c1", &billID, clock).Return(want, nil)

	got, err := svc.StatusCounts(context.Background(), "c1", &billID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
