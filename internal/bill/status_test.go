package bill_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
)

func TestProject(t *testing.T) {
	expire := time.Date(2020, 1, 1, 23, 59, 59, 0, time.UTC)
	before := time.Date(2019, 12, 31, 12, 0, 0, 0, time.UTC)
	after := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	total := decimal.NewFromInt(1000)

	tests := []struct {
		name   string
		stored bill.RoomStatus
		paid   decimal.Decimal
		now    time.Time
		want   bill.RoomStatus
	}{
		{name: "PendingBeforeExpiry", stored: bill.RoomPending, paid: decimal.Zero, now: before, want: bill.RoomPending},
		{name: "PendingAtExpiry", stored: bill.RoomPending, paid: decimal.Zero, now: expire, want: bill.RoomPending},
		{name: "Overdue", stored: bill.RoomPending, paid: decimal.Zero, now: after, want: bill.RoomOverdue},
		{name: "HalfPaidOverdueIsPartial", stored: bill.RoomPending, paid: decimal.NewFromInt(500), now: after, want: bill.RoomPartial},
		{name: "HalfPaidBeforeExpiry", stored: bill.RoomPending, paid: decimal.NewFromInt(500), now: before, want: bill.RoomPartial},
		{name: "FullyPaidButStillPendingIsOverdue", stored: bill.RoomPending, paid: total, now: after, want: bill.RoomOverdue},
		{name: "Paid", stored: bill.RoomPaid, paid: total, now: after, want: bill.RoomPaid},
		{name: "StoredPartial", stored: bill.RoomPartial, paid: decimal.NewFromInt(1), now: after, want: bill.RoomPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bill.Project(tt.stored, total, tt.paid, expire, tt.now)
			assert.Equal(t, tt.want, got)

			again := bill.Project(got, total, tt.paid, expire, tt.now)
			assert.Equal(t, got, again, "projection is idempotent")
		})
	}
}

func TestEndOfDayUTC(t *testing.T) {
	ict := time.FixedZone("ICT", 7*3600)

	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{in: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), want: time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)},
		{in: time.Date(2025, 6, 30, 1, 0, 0, 0, ict), want: time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)},
		{in: time.Date(2025, 6, 30, 23, 59, 59, 999, time.UTC), want: time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, bill.EndOfDayUTC(tt.in))
	}
}
