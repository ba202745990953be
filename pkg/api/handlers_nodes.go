package api

import (
	"net/http"

	"github.com/dd0wney/promptflow/pkg/validation"
)

// handleAddNode answers 201 with the new snapshot, or 200 with the
// unchanged one when the prompt was blank.
func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	var req validation.PromptRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).ValidatePrompt(&req).RespondError() {
		return
	}

	snap, added := sess.AddNode(req.Prompt)
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, snap)
}
