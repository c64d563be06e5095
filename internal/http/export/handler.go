package export

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/condobill/internal/export"
	"github.com/MrJamesThe3rd/condobill/internal/http/request"
	"github.com/MrJamesThe3rd/condobill/internal/http/respond"
)

type Handler struct {
	svc *export.Service
	log *zap.Logger
}

func NewHandler(svc *export.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Excel answers a unit-charge list request with a workbook when it carries type=excel and
// passes every other request through.
func (h *Handler) Excel(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") != "excel" {
			next.ServeHTTP(w, r)
			return
		}

		h.rooms(w, r)
	})
}

func (h *Handler) rooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := request.Require(q, "customer_id", "bill_id"); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	billID, err := request.Int64(q, "bill_id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	file, err := h.svc.Rooms(r.Context(), q.Get("customer_id"), *billID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(file.Data); err != nil {
		h.log.Warn("failed to write workbook", zap.Error(err))
	}
}
