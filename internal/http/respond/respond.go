package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/condobill/internal/apperr"
	"github.com/MrJamesThe3rd/condobill/internal/pagination"
)

type envelope struct {
	Success    bool             `json:"success"`
	Data       any              `json:"data,omitempty"`
	Error      *errorBody       `json:"error,omitempty"`
	Message    string           `json:"message"`
	Timestamp  time.Time        `json:"timestamp"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

type errorBody struct {
	Code    string         `json:"code"`
	Kind    string         `json:"kind"`
	Details map[string]any `json:"details,omitempty"`
}

var now = time.Now

func write(w http.ResponseWriter, status int, body envelope) {
	body.Timestamp = now().UTC()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func OK(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func Created(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusCreated, envelope{Success: true, Data: data, Message: message})
}

// Page writes one page of a list together with its pagination block.
func Page(w http.ResponseWriter, message string, data any, meta pagination.Meta) {
	write(w, http.StatusOK, envelope{Success: true, Data: data, Message: message, Pagination: &meta})
}

// Error maps err onto the envelope with err's text as the message. Unclassified errors are
// logged and answered with 500.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)

	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.ErrInternal
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}

	write(w, status, envelope{
		Message: err.Error(),
		Error:   &errorBody{Code: e.Code, Kind: e.Kind.String(), Details: e.Details},
	})
}

// Status writes a bare error envelope with an explicit status, for failures raised before a
// service is reached.
func Status(w http.ResponseWriter, status int, code, message string) {
	write(w, status, envelope{Message: message, Error: &errorBody{Code: code}})
}
