package api

import (
	"time"

	"github.com/dd0wney/promptflow/pkg/graphql"
	"github.com/dd0wney/promptflow/pkg/health"
	"github.com/dd0wney/promptflow/pkg/logging"
	"github.com/dd0wney/promptflow/pkg/metrics"
	"github.com/dd0wney/promptflow/pkg/session"
)

// Server serves the flow API over a session manager.
type Server struct {
	manager        *session.Manager
	graphqlHandler *graphql.GraphQLHandler
	healthChecker  *health.HealthChecker
	metrics        *metrics.Registry
	logger         logging.Logger

	allowedOrigins []string
	maxBodyBytes   int64
	heartbeat      time.Duration
	startTime      time.Time
}

// Config wires a Server. Only Manager is required.
type Config struct {
	Manager        *session.Manager
	Logger         logging.Logger
	AllowedOrigins []string
	MaxBodyBytes   int64
	Version        string
	GraphQLLimits  *graphql.LimitConfig
	// Heartbeat is the idle interval between event stream comments.
	Heartbeat time.Duration
}

const (
	defaultMaxBodyBytes = 64 << 10
	defaultHeartbeat    = 15 * time.Second
	maxGoroutines       = 10000
)
