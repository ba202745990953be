package api

import (
	"net/http"

	"github.com/dd0wney/promptflow/pkg/validation"
)

// handleConnect answers 201 for a new edge and 200 for one that already
// existed. Unknown endpoints are 404 and self-loops 422.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	var req validation.EdgeRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).ValidateEdge(&req).RespondError() {
		return
	}

	snap, added, err := sess.Connect(req.Source, req.Target)
	if err != nil {
		s.respondFailure(w, err, "connect")
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, snap)
}
