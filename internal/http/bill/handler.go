package bill

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
	"github.com/MrJamesThe3rd/condobill/internal/http/middleware"
	"github.com/MrJamesThe3rd/condobill/internal/http/request"
	"github.com/MrJamesThe3rd/condobill/internal/http/respond"
	"github.com/MrJamesThe3rd/condobill/internal/pagination"
)

type Handler struct {
	svc   *bill.Service
	excel func(http.Handler) http.Handler
	log   *zap.Logger
}

// NewHandler builds the bill handler. excel, when set, wraps the unit-charge list so that
// ?type=excel can be answered with a workbook.
func NewHandler(svc *bill.Service, excel func(http.Handler) http.Handler, log *zap.Logger) *Handler {
	if excel == nil {
		excel = func(next http.Handler) http.Handler { return next }
	}

	return &Handler{svc: svc, excel: excel, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/insert_with_excel", h.insertWithExcel)
	r.Post("/insert", h.create)
	r.Put("/update", h.update)
	r.Post("/send", h.send)
	r.Post("/cancel_send", h.cancelSend)
	r.Delete("/delete", h.delete)

	r.Get("/list", h.list)
	r.Get("/bill_excel_list", h.preview)
	r.With(h.excel).Get("/bill_room_list", h.roomList)
	r.Get("/bill_room_each_list", h.roomHistory)
	r.Get("/bill_room_pending_list", h.pendingList)
	r.Get("/get_summary_data", h.summary)
	r.Get("/bill_status", h.statusCounts)
	r.Get("/{id:[0-9]+}", h.get)
}

func (h *Handler) loc() *time.Location { return h.svc.Location() }

type createRequest struct {
	CustomerID string  `json:"customer_id" validate:"required"`
	Title      string  `json:"title" validate:"required"`
	BillTypeID int64   `json:"bill_type_id" validate:"required"`
	Detail     string  `json:"detail"`
	ExpireDate string  `json:"expire_date" validate:"required"`
	Status     *int    `json:"status" validate:"required,oneof=0 1"`
	Remark     *string `json:"remark"`
	UID        string  `json:"uid"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
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

	b, err := h.svc.Create(r.Context(), bill.CreateParams{
		CustomerID: req.CustomerID,
		Title:      req.Title,
		TypeID:     req.BillTypeID,
		Detail:     req.Detail,
		ExpireDate: expire,
		Status:     bill.Status(*req.Status),
		Remark:     req.Remark,
		Actor:      actor,
	})
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.Created(w, "bill created", toBillResponse(b, h.loc()))
}

type updateRequest struct {
	ID         int64   `json:"id" validate:"required"`
	Title      string  `json:"title" validate:"required"`
	BillTypeID int64   `json:"bill_type_id" validate:"required"`
	Detail     string  `json:"detail"`
	ExpireDate string  `json:"expire_date" validate:"required"`
	Status     *int    `json:"status" validate:"required,oneof=0 1 3"`
	Remark     *string `json:"remark"`
	UID        string  `json:"uid"`
	DeleteRows []int   `json:"delete_rows" validate:"omitempty,dive,min=1"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
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

	res, err := h.svc.Update(r.Context(), bill.UpdateParams{
		ID:         req.ID,
		Title:      req.Title,
		TypeID:     req.BillTypeID,
		Detail:     req.Detail,
		ExpireDate: expire,
		Status:     bill.Status(*req.Status),
		Remark:     req.Remark,
		Actor:      actor,
		DeleteRows: req.DeleteRows,
	})
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.OK(w, "bill updated", h.transition(res))
}

type idRequest struct {
	ID  int64  `json:"id" validate:"required"`
	UID string `json:"uid"`
}

func (h *Handler) decodeID(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	var req idRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, h.log, err)
		return 0, "", false
	}

	actor, err := middleware.RequireActor(r.Context(), req.UID)
	if err != nil {
		respond.Error(w, h.log, err)
		return 0, "", false
	}

	return req.ID, actor, true
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.decodeID(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Send(r.Context(), id, actor)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.OK(w, "bill sent", h.transition(res))
}

func (h *Handler) cancelSend(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.decodeID(w, r)
	if !ok {
		return
	}

	res, err := h.svc.CancelSend(r.Context(), id, actor)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.OK(w, "bill send cancelled", h.transition(res))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.decodeID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id, actor); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.OK(w, "bill deleted", map[string]int64{"id": id})
}

func (h *Handler) transition(res *bill.TransitionResult) transitionResponse {
	return transitionResponse{
		Bill:         toBillResponse(res.Bill, h.loc()),
		Notification: toNotificationResponse(res.Notification),
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := request.Require(q, "customer_id"); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	filter := bill.ListFilter{
		CustomerID: q.Get("customer_id"),
		Keyword:    strings.TrimSpace(q.Get("keyword")),
		Page:       pagination.Parse(q),
	}

	status, err := request.Int64(q, "status")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	if status != nil {
		filter.Status = new(bill.Status(*status))
	}

	if filter.TypeID, err = request.Int64(q, "bill_type_id"); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	bills, meta, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.Page(w, "bills", toBillResponseList(bills, h.loc()), meta)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, h.log, request.ErrInvalid.With("fields", map[string]string{"id": "integer"}))
		return
	}

	b, err := h.svc.Get(r.Context(), id, r.URL.Query().Get("customer_id"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.OK(w, "bill", toBillResponse(b, h.loc()))
}

func (h *Handler) roomList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := request.Require(q, "customer_id"); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	billID, err := request.Int64(q, "bill_id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	statuses, err := request.Ints(q, "status")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	filter := bill.RoomFilter{
		CustomerID: q.Get("customer_id"),
		BillID:     billID,
		Keyword:    strings.TrimSpace(q.Get("keyword")),
		Page:       pagination.Parse(q),
	}

	for _, s := range statuses {
		filter.Statuses = append(filter.Statuses, bill.RoomStatus(s))
	}

	h.rooms(w, r, "unit charges", filter)
}

// roomHistory lists one unit's charges across sent bills, newest first.
func (h *Handler) roomHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := request.Require(q, "customer_id", "house_no"); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	h.rooms(w, r, "unit charge history", bill.RoomFilter{
		CustomerID:  q.Get("customer_id"),
		HouseNo:     strings.TrimSpace(q.Get("house_no")),
		SentOnly:    true,
		NewestFirst: true,
		Page:        pagination.Parse(q),
	})
}

func (h *Handler) pendingList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := request.Require(q, "customer_id"); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	h.rooms(w, r, "pending unit charges", bill.RoomFilter{
		CustomerID:  q.Get("customer_id"),
		Keyword:     strings.TrimSpace(q.Get("keyword")),
		Statuses:    bill.PendingStatuses,
		SentOnly:    true,
		NewestFirst: true,
		Page:        pagination.Parse(q),
	})
}

func (h *Handler) rooms(w http.ResponseWriter, r *http.Request, message string, filter bill.RoomFilter) {
	rooms, meta, err := h.svc.Rooms(r.Context(), filter)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.Page(w, message, toRoomResponseList(rooms, h.loc()), meta)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := request.Require(q, "customer_id"); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	sum, err := h.svc.Summary(r.Context(), q.Get("customer_id"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.OK(w, "summary", toSummaryResponse(sum))
}

func (h *Handler) statusCounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := request.Require(q, "customer_id"); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	billID, err := request.Int64(q, "bill_id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	c, err := h.svc.StatusCounts(r.Context(), q.Get("customer_id"), billID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.OK(w, "status counts", statusCountsResponse{
		Status0: c.Pending,
		Status1: c.Paid,
		Status3: c.Overdue,
		Status4: c.Partial,
		Total:   c.Total,
	})
}
