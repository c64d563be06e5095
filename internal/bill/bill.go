package bill

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a bill.
type Status int

const (
	StatusDraft         Status = 0
	StatusSent          Status = 1
	StatusDeleted       Status = 2
	StatusCancelledSend Status = 3
)

func (s Status) Valid() bool {
	return s >= StatusDraft && s <= StatusCancelledSend
}

// RoomStatus is the state of a unit charge. Overdue is never stored; the projector derives it.
type RoomStatus int

const (
	RoomPending RoomStatus = 0
	RoomPaid    RoomStatus = 1
	RoomDeleted RoomStatus = 2
	RoomOverdue RoomStatus = 3
	RoomPartial RoomStatus = 4
)

// Bill is a sendable batch of unit charges for one tenant.
type Bill struct {
	ID         int64
	BillNo     string
	CustomerID string
	UploadKey  string
	Title      string
	TypeID     int64
	TypeName   string // Loaded via JOIN
	Detail     string
	ExpireDate time.Time
	SendDate   *time.Time
	Remark     *string
	Status     Status
	CreateDate time.Time
	CreateBy   string
	UpdateDate *time.Time
	UpdateBy   *string

	// Aggregates over non-deleted unit charges, filled by list and detail reads.
	RoomCount  int
	TotalPrice decimal.Decimal
	PaidCount  int
}

// Room is one unit charge ("bill room") of a bill.
type Room struct {
	ID         int64
	BillID     int64
	InvoiceNo  string
	CustomerID string
	HouseNo    string
	MemberName string
	TotalPrice decimal.Decimal
	Remark     *string
	Status     RoomStatus
	CreateDate time.Time
	CreateBy   string

	// Read-side fields.
	PaidSum             decimal.Decimal
	Bill                *Bill // parent summary: no, title, expiry, send date
	Observed            RoomStatus
	CanSendNotification bool
	RemainingMinutes    *int
}

// Attachment is the latest uploaded file registered under an upload key.
type Attachment struct {
	UploadKey string
	FileName  string
	FilePath  string
	FileExt   string
	FileSize  int64
}
