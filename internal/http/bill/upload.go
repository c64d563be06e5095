package bill

import (
	"net/http"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
	"github.com/MrJamesThe3rd/condobill/internal/http/middleware"
	"github.com/MrJamesThe3rd/condobill/internal/http/request"
	"github.com/MrJamesThe3rd/condobill/internal/http/respond"
	"github.com/MrJamesThe3rd/condobill/internal/importer"
)

type insertWithExcelRequest struct {
	UploadKey    string `json:"upload_key" validate:"required"`
	CustomerID   string `json:"customer_id" validate:"required"`
	Title        string `json:"title" validate:"required"`
	BillTypeID   int64  `json:"bill_type_id" validate:"required"`
	Detail       string `json:"detail"`
	ExpireDate   string `json:"expire_date" validate:"required"`
	Status       *int   `json:"status" validate:"required,oneof=0 1"`
	UID          string `json:"uid"`
	ExcludedRows []int  `json:"excluded_rows" validate:"omitempty,dive,min=1"`
}

type insertWithExcelResponse struct {
	Bill         billResponse          `json:"bill"`
	RoomCount    int                   `json:"bill_room_count"`
	ValidCount   int                   `json:"valid_count"`
	InvalidCount int                   `json:"invalid_count"`
	SkippedRows  []importer.SkippedRow `json:"skipped_rows"`
	ExcludedRows []int                 `json:"excluded_rows"`
	Notification *notificationResponse `json:"notification,omitempty"`
}

// insertWithExcel materializes the sheet behind an upload key into a bill with one unit charge
// per valid row.
func (h *Handler) insertWithExcel(w http.ResponseWriter, r *http.Request) {
	var req insertWithExcelRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	expire, err := request.Date("expire_date", req.ExpireDate)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	actor, err := middleware.RequireActor(r.Context(), req.UID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	res, err := h.svc.Materialize(r.Context(), bill.MaterializeParams{
		UploadKey:    req.UploadKey,
		CustomerID:   req.CustomerID,
		Title:        req.Title,
		TypeID:       req.BillTypeID,
		Detail:       req.Detail,
		ExpireDate:   expire,
		Status:       bill.Status(*req.Status),
		Actor:        actor,
		ExcludedRows: req.ExcludedRows,
	})
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.Created(w, "bill created", insertWithExcelResponse{
		Bill:         toBillResponse(res.Bill, h.loc()),
		RoomCount:    len(res.Rooms),
		ValidCount:   res.Check.ValidCount,
		InvalidCount: res.Check.InvalidCount,
		SkippedRows:  res.Check.Skipped,
		ExcludedRows: res.Check.Excluded,
		Notification: toNotificationResponse(res.Notification),
	})
}

type previewResponse struct {
	UploadKey string `json:"upload_key"`
	FileName  string `json:"file_name"`
	*importer.Result
}

// preview validates an uploaded sheet without writing anything.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := request.Require(q, "upload_key"); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	excluded, err := request.Ints(q, "excluded_rows")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	att, res, err := h.svc.Preview(r.Context(), q.Get("upload_key"), excluded)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.OK(w, "upload preview", previewResponse{UploadKey: att.UploadKey, FileName: att.FileName, Result: res})
}
