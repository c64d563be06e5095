package notification

import (
	"math"
	"time"

	"github.com/MrJamesThe3rd/condobill/internal/apperr"
)

// TableBillRoom is the only table notifications are tracked for.
const TableBillRoom = "bill_room_information"

// Audit remarks.
const (
	RemarkCreateAndSend = "สร้างและส่งบิล"
	RemarkSend          = "ส่งบิล"
	RemarkResend        = "ส่งอีกครั้ง"
)

// DefaultInterval applies when no resend interval is configured.
const DefaultInterval = 30 * time.Minute

var (
	ErrThrottled          = apperr.Throttled("THROTTLED", "a notification was sent recently; try again later")
	ErrUnitChargeNotFound = apperr.NotFound("UNIT_CHARGE_NOT_FOUND", "unit charge not found")
	ErrUnsupportedTable   = apperr.Validation("UNSUPPORTED_TABLE", "notifications are not tracked for this table")
)

// Audit is one append-only notification attempt.
type Audit struct {
	ID         int64
	TableName  string
	RowsID     int64
	CustomerID string
	Remark     string
	CreateBy   string
	CreateDate time.Time
}

// Window tells whether a row may be notified now. RemainingMinutes is set only while throttled.
type Window struct {
	CanSend          bool
	RemainingMinutes *int
}

// WindowAt applies the resend interval to the time of the last notification. A nil last means
// the row was never notified. Remaining minutes round up.
func WindowAt(last *time.Time, now time.Time, interval time.Duration) Window {
	if last == nil {
		return Window{CanSend: true}
	}

	gap := now.Sub(*last)
	if gap >= interval {
		return Window{CanSend: true}
	}

	remaining := int(math.Ceil((interval - gap).Minutes()))

	return Window{RemainingMinutes: &remaining}
}
