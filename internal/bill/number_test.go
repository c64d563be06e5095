package bill_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
)

func TestDayKey(t *testing.T) {
	ict := time.FixedZone("ICT", 7*3600)

	assert.Equal(t, "2025-0630", bill.DayKey(time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC), ict))
	assert.Equal(t, "2025-0701", bill.DayKey(time.Date(2025, 6, 30, 18, 0, 0, 0, time.UTC), ict))
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name    string
		latest  string
		k       int
		want    []string
		wantErr error
	}{
		{
			name: "FirstOfDay",
			k:    2,
			want: []string{"INV-2025-0630-000", "INV-2025-0630-001"},
		},
		{
			name:   "ContinuesFromLatest",
			latest: "INV-2025-0630-041",
			k:      1,
			want:   []string{"INV-2025-0630-042"},
		},
		{
			name:   "WrapsModuloThousand",
			latest: "INV-2025-0630-998",
			k:      3,
			want:   []string{"INV-2025-0630-999", "INV-2025-0630-000", "INV-2025-0630-001"},
		},
		{
			name:    "BatchWiderThanSpan",
			k:       1001,
			wantErr: bill.ErrIdentifierExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bill.Sequence(bill.PrefixInvoice, "2025-0630", tt.latest, tt.k)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSequence_Malformed(t *testing.T) {
	_, err := bill.Sequence(bill.PrefixBill, "2025-0630", "BILL-2025-0630-abc", 1)
	assert.Error(t, err)
}

func TestParseCounter(t *testing.T) {
	n, ok := bill.ParseCounter("BILL-2025-0630-007")
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = bill.ParseCounter("garbage")
	assert.False(t, ok)
}

func TestSeriesPattern(t *testing.T) {
	assert.Equal(t, "BILL-2025-0630-%", bill.SeriesPattern(bill.PrefixBill, "2025-0630"))
}
