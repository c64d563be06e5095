package bill

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project derives the observable status of a unit charge. A pending charge that is partly paid
// reads as partial; otherwise a pending charge past its bill's expiry reads as overdue. Every
// other stored status is returned as is, so projecting twice is the same as projecting once.
func Project(stored RoomStatus, total, paid decimal.Decimal, expire, now time.Time) RoomStatus {
	if stored != RoomPending {
		return stored
	}

	if paid.IsPositive() && paid.LessThan(total) {
		return RoomPartial
	}

	if now.After(expire) {
		return RoomOverdue
	}

	return RoomPending
}

// EndOfDayUTC returns 23:59:59 UTC on the calendar date of t as written in its own zone.
func EndOfDayUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

// canTransition reports whether an edit may move a bill from one status to another.
func canTransition(from, to Status) bool {
	if from == to {
		return from != StatusDeleted
	}

	switch from {
	case StatusDraft:
		return to == StatusSent
	case StatusSent:
		return to == StatusCancelledSend
	case StatusCancelledSend:
		return to == StatusSent || to == StatusDraft
	}

	return false
}
