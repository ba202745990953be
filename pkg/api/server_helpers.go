package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dd0wney/promptflow/pkg/graph"
	"github.com/dd0wney/promptflow/pkg/logging"
	"github.com/dd0wney/promptflow/pkg/session"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	s.respondJSON(w, status, response)
}

// statusFor maps session and graph errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, graph.ErrInvalidEndpoint):
		return http.StatusNotFound
	case errors.Is(err, graph.ErrSelfLoop):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrManagerClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondFailure writes err with its mapped status. Unexpected errors are
// logged and replaced with a generic message.
func (s *Server) respondFailure(w http.ResponseWriter, err error, operation string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(operation+" failed", logging.Operation(operation), logging.Error(err))
		s.respondError(w, status, operation+" failed")
		return
	}
	s.respondError(w, status, err.Error())
}
