package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"crime-insights-go/internal/auth"
	"crime-insights-go/internal/dataset"
	"crime-insights-go/internal/logger"
	"crime-insights-go/internal/processor"
	"crime-insights-go/internal/types"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.WithRequest(r).WithError(err).Error("failed to write response")
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, processor.ErrLoginRequired),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, processor.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, processor.ErrStore):
		return http.StatusBadGateway
	case errors.Is(err, processor.ErrInvalidInput),
		errors.Is(err, processor.ErrNotCSV),
		errors.Is(err, processor.ErrNothingToSave),
		errors.Is(err, dataset.ErrNoDataRows),
		errors.Is(err, types.ErrInvalidIncident),
		errors.Is(err, types.ErrInvalidSeverity),
		errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

// statusClientClosedRequest is the non-standard code proxies log when the
// client hangs up before the response is written.
const statusClientClosedRequest = 499

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := s.log.WithRequest(r).WithField("status", status)
	msg := err.Error()
	switch {
	case status >= 500:
		entry.WithError(err).Error("request failed")
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	default:
		entry.WithError(err).Warn("request rejected")
	}
	if errors.Is(err, processor.ErrLoginRequired) {
		msg = processor.ErrLoginRequired.Error()
	}
	writeJSON(w, s.log, r, status, errorBody{Error: msg})
}
