package api

import (
	"time"

	"github.com/dd0wney/promptflow/pkg/graph"
	"github.com/dd0wney/promptflow/pkg/session"
)

// SessionResponse is returned when a session is created or fetched.
type SessionResponse struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Snapshot  graph.Snapshot `json:"snapshot"`
}

// SessionListResponse lists session summaries, oldest first.
type SessionListResponse struct {
	Sessions []session.Info `json:"sessions"`
	Count    int            `json:"count"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
