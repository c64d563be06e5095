package bill

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
)

type billResponse struct {
	ID                  int64           `json:"id"`
	BillNo              string          `json:"bill_no"`
	CustomerID          string          `json:"customer_id"`
	UploadKey           string          `json:"upload_key,omitempty"`
	Title               string          `json:"title"`
	BillTypeID          int64           `json:"bill_type_id"`
	BillTypeName        string          `json:"bill_type_name"`
	Detail              string          `json:"detail"`
	ExpireDate          time.Time       `json:"expire_date"`
	ExpireDateFormatted string          `json:"expire_date_formatted"`
	SendDate            *time.Time      `json:"send_date"`
	SendDateFormatted   *string         `json:"send_date_formatted"`
	Remark              *string         `json:"remark"`
	Status              bill.Status     `json:"status"`
	CreateDate          time.Time       `json:"create_date"`
	CreateDateFormatted string          `json:"create_date_formatted"`
	CreateBy            string          `json:"create_by"`
	UpdateDate          *time.Time      `json:"update_date"`
	UpdateBy            *string         `json:"update_by"`
	RoomCount           int             `json:"bill_room_count"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	TotalPriceFormatted string          `json:"total_price_formatted"`
	PaidCount           int             `json:"paid_count"`
}

func formatOpt(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}

	return new(bill.FormatDateTime(*t, loc))
}

func toBillResponse(b *bill.Bill, loc *time.Location) billResponse {
	return billResponse{
		ID:                  b.ID,
		BillNo:              b.BillNo,
		CustomerID:          b.CustomerID,
		UploadKey:           b.UploadKey,
		Title:               b.Title,
		BillTypeID:          b.TypeID,
		BillTypeName:        b.TypeName,
		Detail:              b.Detail,
		ExpireDate:          b.ExpireDate,
		ExpireDateFormatted: bill.FormatDueDateTime(b.ExpireDate),
		SendDate:            b.SendDate,
		SendDateFormatted:   formatOpt(b.SendDate, loc),
		Remark:              b.Remark,
		Status:              b.Status,
		CreateDate:          b.CreateDate,
		CreateDateFormatted: bill.FormatDateTime(b.CreateDate, loc),
		CreateBy:            b.CreateBy,
		UpdateDate:          b.UpdateDate,
		UpdateBy:            b.UpdateBy,
		RoomCount:           b.RoomCount,
		TotalPrice:          b.TotalPrice,
		TotalPriceFormatted: bill.FormatPrice(b.TotalPrice),
		PaidCount:           b.PaidCount,
	}
}

func toBillResponseList(bills []*bill.Bill, loc *time.Location) []billResponse {
	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = toBillResponse(b, loc)
	}

	return resp
}

type roomResponse struct {
	ID                  int64           `json:"id"`
	BillID              int64           `json:"bill_id"`
	InvoiceNo           string          `json:"bill_room_no"`
	CustomerID          string          `json:"customer_id"`
	HouseNo             string          `json:"house_no"`
	MemberName          string          `json:"member_name"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	TotalPriceFormatted string          `json:"total_price_formatted"`
	PaidAmount          decimal.Decimal `json:"paid_amount"`
	Remark              *string         `json:"remark"`
	Status              bill.RoomStatus `json:"status"`
	StatusLabel         string          `json:"status_label"`
	CreateDate          time.Time       `json:"create_date"`
	CreateDateFormatted string          `json:"create_date_formatted"`

	BillNo              string     `json:"bill_no,omitempty"`
	BillTitle           string     `json:"bill_title,omitempty"`
	ExpireDate          *time.Time `json:"expire_date,omitempty"`
	ExpireDateFormatted *string    `json:"expire_date_formatted,omitempty"`
	SendDate            *time.Time `json:"send_date,omitempty"`
	SendDateFormatted   *string    `json:"send_date_formatted,omitempty"`

	CanSendNotification bool `json:"can_send_notification"`
	RemainingMinutes    *int `json:"remaining_minutes"`
}

func toRoomResponse(r *bill.Room, loc *time.Location) roomResponse {
	resp := roomResponse{
		ID:                  r.ID,
		BillID:              r.BillID,
		InvoiceNo:           r.InvoiceNo,
		CustomerID:          r.CustomerID,
		HouseNo:             r.HouseNo,
		MemberName:          r.MemberName,
		TotalPrice:          r.TotalPrice,
		TotalPriceFormatted: bill.FormatPrice(r.TotalPrice),
		PaidAmount:          r.PaidSum,
		Remark:              r.Remark,
		Status:              r.Observed,
		StatusLabel:         r.Observed.Label(),
		CreateDate:          r.CreateDate,
		CreateDateFormatted: bill.FormatDateTime(r.CreateDate, loc),
		CanSendNotification: r.CanSendNotification,
		RemainingMinutes:    r.RemainingMinutes,
	}

	if p := r.Bill; p != nil {
		resp.BillNo = p.BillNo
		resp.BillTitle = p.Title
		resp.ExpireDate = &p.ExpireDate
		resp.ExpireDateFormatted = new(bill.FormatDueDateTime(p.ExpireDate))
		resp.SendDate = p.SendDate
		resp.SendDateFormatted = formatOpt(p.SendDate, loc)
	}

	return resp
}

func toRoomResponseList(rooms []*bill.Room, loc *time.Location) []roomResponse {
	resp := make([]roomResponse, len(rooms))
	for i, r := range rooms {
		resp[i] = toRoomResponse(r, loc)
	}

	return resp
}

type transitionResponse struct {
	Bill         billResponse          `json:"bill"`
	Notification *notificationResponse `json:"notification,omitempty"`
}

type notificationResponse struct {
	Sent  int    `json:"sent"`
	Error string `json:"error,omitempty"`
}

func toNotificationResponse(r *bill.FanOutResult) *notificationResponse {
	if r == nil {
		return nil
	}

	return &notificationResponse{Sent: r.Sent, Error: r.Error}
}

type counterResponse struct {
	Total int64 `json:"total"`
	New   int64 `json:"new"`
}

type summaryResponse struct {
	Bills        counterResponse `json:"bill"`
	SentBills    counterResponse `json:"bill_sent"`
	PendingRooms counterResponse `json:"bill_room_pending"`
	PaidRooms    counterResponse `json:"bill_room_paid"`
	Rooms        counterResponse `json:"room"`
	RoomsPercent int             `json:"room_percent"`
}

func toSummaryResponse(s *bill.Summary) summaryResponse {
	c := func(v bill.Counter) counterResponse { return counterResponse(v) }

	return summaryResponse{
		Bills:        c(s.Bills),
		SentBills:    c(s.SentBills),
		PendingRooms: c(s.PendingRooms),
		PaidRooms:    c(s.PaidRooms),
		Rooms:        c(s.Rooms),
		RoomsPercent: s.RoomsPercent,
	}
}

type statusCountsResponse struct {
	Status0 int64 `json:"status_0"`
	Status1 int64 `json:"status_1"`
	Status3 int64 `json:"status_3"`
	Status4 int64 `json:"status_4"`
	Total   int64 `json:"total"`
}
