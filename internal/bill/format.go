package bill

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPrice renders ฿ followed by a thousand-grouped amount, without decimals when integral
// and with two decimals otherwise.
func FormatPrice(d decimal.Decimal) string {
	if d.IsInteger() {
		return printer.Sprintf("฿%d", d.IntPart())
	}

	return printer.Sprintf("฿%.2f", d.Round(2).InexactFloat64())
}

const (
	layoutDateTime = "02/01/2006 15:04:05"
	layoutDate     = "02/01/2006"
)

// FormatDateTime renders DD/MM/YYYY HH:mm:ss in loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layoutDateTime)
}

// FormatDate renders DD/MM/YYYY in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layoutDate)
}

// Due dates are date-only values kept as the last second of the day in UTC. They are rendered
// in UTC so the calendar date never shifts with the display zone.

func FormatDueDate(t time.Time) string { return FormatDate(t, time.UTC) }

func FormatDueDateTime(t time.Time) string { return FormatDateTime(t, time.UTC) }

// Label is the Thai payment-state caption shown to operators.
func (s RoomStatus) Label() string {
	switch s {
	case RoomPending:
		return "รอชำระ"
	case RoomPaid:
		return "ชำระแล้ว"
	case RoomDeleted:
		return "ลบแล้ว"
	case RoomOverdue:
		return "เกินกำหนดชำระ"
	case RoomPartial:
		return "ชำระบางส่วน"
	}

	return ""
}
