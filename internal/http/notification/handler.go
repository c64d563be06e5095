package notification

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/condobill/internal/http/middleware"
	"github.com/MrJamesThe3rd/condobill/internal/http/request"
	"github.com/MrJamesThe3rd/condobill/internal/http/respond"
	"github.com/MrJamesThe3rd/condobill/internal/notification"
)

type Handler struct {
	svc *notification.Service
	log *zap.Logger
}

func NewHandler(svc *notification.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/send_notification_each", h.resend)
}

type resendRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	TableName  string `json:"table_name" validate:"required"`
	ID         int64  `json:"id" validate:"required"`
	UID        string `json:"uid"`
}

type auditResponse struct {
	ID         int64     `json:"id"`
	TableName  string    `json:"table_name"`
	RowsID     int64     `json:"rows_id"`
	CustomerID string    `json:"customer_id"`
	Remark     string    `json:"remark"`
	CreateBy   string    `json:"create_by"`
	CreateDate time.Time `json:"create_date"`
}

func (h *Handler) resend(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	actor, err := middleware.RequireActor(r.Context(), req.UID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	a, err := h.svc.Resend(r.Context(), notification.ResendParams{
		TableName:  req.TableName,
		RowsID:     req.ID,
		CustomerID: req.CustomerID,
		Actor:      actor,
	})
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.OK(w, "notification sent", auditResponse{
		ID:         a.ID,
		TableName:  a.TableName,
		RowsID:     a.RowsID,
		CustomerID: a.CustomerID,
		Remark:     a.Remark,
		CreateBy:   a.CreateBy,
		CreateDate: a.CreateDate,
	})
}
