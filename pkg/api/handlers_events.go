package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dd0wney/promptflow/pkg/graph"
	"github.com/dd0wney/promptflow/pkg/logging"
)

// handleEvents streams snapshots as server-sent events. The current
// snapshot is sent first, then one "snapshot" event per commit. The
// stream ends when the client goes away or the manager closes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	current, sub, err := sess.Subscribe(r.Context())
	if err != nil {
		s.respondFailure(w, err, "subscribe")
		return
	}
	defer sub.Unsubscribe()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	logger := s.logger.With(logging.SessionID(sess.ID()))
	logger.Debug("event stream opened")
	defer logger.Debug("event stream closed")

	if err := writeSnapshotEvent(w, current); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		logger.Warn("event stream cannot flush", logging.Error(err))
		return
	}

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-sub.Channel():
			if !ok {
				return
			}
			err = writeSnapshotEvent(w, snap)
		case <-ticker.C:
			_, err = io.WriteString(w, ": ping\n\n")
		}
		if err == nil {
			err = rc.Flush()
		}
		if err != nil {
			return
		}
	}
}

func writeSnapshotEvent(w io.Writer, snap graph.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", snap.Version, data)
	return err
}
