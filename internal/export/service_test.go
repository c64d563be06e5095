package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
	"github.com/MrJamesThe3rd/condobill/internal/export"
)

var ict = time.FixedZone("ICT", 7*3600)

func TestService_Rooms(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := export.NewMockSource(ctrl)

	b := &bill.Bill{ID: 7, BillNo: "BILL-2025-0601-000", ExpireDate: time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)}
	rooms := []*bill.Room{
		{HouseNo: "10/05", MemberName: "Alice", TotalPrice: decimal.NewFromInt(1500), Observed: bill.RoomPending},
		{HouseNo: "10/06", MemberName: "Bob", TotalPrice: decimal.RequireFromString("2000.5"), Observed: bill.RoomPartial},
	}

	source.EXPECT().ExportRooms(gomock.Any(), "c1", int64(7)).Return(b, rooms, nil)

	// 18:00 UTC is already the next day in ICT. The due date stays on its calendar day.
	svc := export.NewService(source, ict).
		WithClock(func() time.Time { return time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC) })

	file, err := svc.Rooms(context.Background(), "c1", 7)
	require.NoError(t, err)
	assert.Equal(t, "bill_room_list_7_20250702.xlsx", file.Name)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(wb.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"เลขที่บิล", "เลขห้อง", "ชื่อลูกบ้าน", "ยอดเงิน", "วันครบกำหนด", "สถานะชำระ"}, rows[0])
	assert.Equal(t, []string{"BILL-2025-0601-000", "10/05", "Alice", "฿1,500", "30/06/2025", "รอชำระ"}, rows[1])
	assert.Equal(t, []string{"BILL-2025-0601-000", "10/06", "Bob", "฿2,000.50", "30/06/2025", "ชำระบางส่วน"}, rows[2])
}

func TestService_RoomsMissingBill(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := export.NewMockSource(ctrl)

	source.EXPECT().ExportRooms(gomock.Any(), "c1", int64(9)).Return(nil, nil, bill.ErrNotFound)

	_, err := export.NewService(source, ict).Rooms(context.Background(), "c1", 9)
	assert.ErrorIs(t, err, bill.ErrNotFound)
}

func TestWorkbook_HeaderOnly(t *testing.T) {
	data, err := export.Workbook(&bill.Bill{BillNo: "BILL-2025-0601-001"}, nil)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(wb.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
