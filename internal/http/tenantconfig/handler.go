package tenantconfig

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/condobill/internal/http/middleware"
	"github.com/MrJamesThe3rd/condobill/internal/http/request"
	"github.com/MrJamesThe3rd/condobill/internal/http/respond"
	"github.com/MrJamesThe3rd/condobill/internal/tenantconfig"
)

type Handler struct {
	svc *tenantconfig.Service
	log *zap.Logger
}

func NewHandler(svc *tenantconfig.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/init_config", h.init)
	r.Put("/update", h.update)
	r.Get("/list", h.list)
}

type itemResponse struct {
	CustomerID   string          `json:"customer_id"`
	ConfigKey    string          `json:"config_key"`
	Value        any             `json:"value"`
	RawValue     string          `json:"raw_value"`
	DataType     string          `json:"data_type"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	UpdateDate   *time.Time      `json:"update_date"`
	UpdateBy     *string         `json:"update_by"`
	ParseWarning string          `json:"parse_warning,omitempty"`
}

func toItemResponse(it *tenantconfig.Item) itemResponse {
	return itemResponse{
		CustomerID:   it.CustomerID,
		ConfigKey:    it.Key,
		Value:        it.Typed,
		RawValue:     it.Value.Raw,
		DataType:     string(it.Value.Kind),
		Metadata:     it.Metadata,
		UpdateDate:   it.UpdateDate,
		UpdateBy:     it.UpdateBy,
		ParseWarning: it.ParseWarning,
	}
}

type initRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

func (h *Handler) init(w http.ResponseWriter, r *http.Request) {
	var req initRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	n, err := h.svc.Init(r.Context(), req.CustomerID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.OK(w, "config initialized", map[string]int{"inserted": n})
}

type updateRequest struct {
	CustomerID string          `json:"customer_id" validate:"required"`
	ConfigKey  string          `json:"config_key" validate:"required"`
	Value      any             `json:"value"`
	DataType   string          `json:"data_type" validate:"omitempty,oneof=string number boolean json"`
	Metadata   json.RawMessage `json:"metadata"`
	UID        string          `json:"uid"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	// false and 0 are valid values; only an absent one is refused.
	if req.Value == nil {
		respond.Error(w, h.log, request.ErrMissing.With("required", []string{"value"}))
		return
	}

	actor, err := middleware.RequireActor(r.Context(), req.UID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	it, err := h.svc.Update(r.Context(), tenantconfig.UpdateParams{
		CustomerID: req.CustomerID,
		Key:        req.ConfigKey,
		Value:      req.Value,
		DataType:   req.DataType,
		Metadata:   req.Metadata,
		Actor:      actor,
	})
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.OK(w, "config updated", toItemResponse(it))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := request.Require(q, "customer_id"); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	items, err := h.svc.List(r.Context(), q.Get("customer_id"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	resp := make([]itemResponse, len(items))
	for i, it := range items {
		resp[i] = toItemResponse(it)
	}

	respond.OK(w, "config", resp)
}
