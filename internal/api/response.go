package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Error is the error part of a response envelope
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope wraps every JSON response
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// FieldIssue is one rejected input field
type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func writeJSON(log *zap.Logger, w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn("write json failed", zap.Error(err), zap.String("request_id", payload.RequestID))
	}
}

func (s *Server) success(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(s.logger, w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: GetRequestID(r.Context())})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.failWithDetails(w, r, status, code, message, nil)
}

func (s *Server) failWithDetails(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	writeJSON(s.logger, w, status, Envelope{
		Success:   false,
		Error:     &Error{Code: code, Message: message, Details: details},
		RequestID: GetRequestID(r.Context()),
	})
}
