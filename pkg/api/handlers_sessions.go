package api

import (
	"net/http"

	"github.com/dd0wney/promptflow/pkg/logging"
	"github.com/dd0wney/promptflow/pkg/session"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Create()
	if err != nil {
		s.respondFailure(w, err, "create session")
		return
	}
	s.respondJSON(w, http.StatusCreated, sessionResponse(sess))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list := s.manager.List()
	infos := make([]session.Info, 0, len(list))
	for _, sess := range list {
		infos = append(infos, sess.Info())
	}
	s.respondJSON(w, http.StatusOK, SessionListResponse{Sessions: infos, Count: len(infos)})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, sessionResponse(sess))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	data, err := sess.Visualization().ExportJSON()
	if err != nil {
		s.respondFailure(w, err, "export layout")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("layout write failed", logging.SessionID(sess.ID()), logging.Error(err))
	}
}

func sessionResponse(sess *session.Session) SessionResponse {
	return SessionResponse{
		ID:        sess.ID(),
		CreatedAt: sess.CreatedAt(),
		Snapshot:  sess.Snapshot(),
	}
}
