package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/promptflow/pkg/graph"
	"github.com/dd0wney/promptflow/pkg/logging"
	"github.com/dd0wney/promptflow/pkg/metrics"
	"github.com/dd0wney/promptflow/pkg/pubsub"
	"github.com/dd0wney/promptflow/pkg/visualization"
)

var (
	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrManagerClosed is returned once Close has been called.
	ErrManagerClosed = errors.New("session manager is closed")
)

// Options configures a Manager. Zero fields take defaults.
type Options struct {
	Layout      visualization.Layout
	Dimensions  graph.Dimensions
	Logger      logging.Logger
	Metrics     *metrics.Registry
	EventBuffer int
	// NewID overrides session id generation (tests).
	NewID func() string
	Now   func() time.Time
}

// Manager creates and indexes sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool

	layout  visualization.Layout
	dims    graph.Dimensions
	broker  *pubsub.Broker[graph.Snapshot]
	logger  logging.Logger
	metrics *metrics.Registry
	newID   func() string
	now     func() time.Time
}

// NewManager creates an empty manager.
func NewManager(opts Options) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		layout:   opts.Layout,
		dims:     opts.Dimensions,
		broker:   pubsub.NewBroker[graph.Snapshot](opts.EventBuffer, pubsub.WithCopy(graph.Snapshot.Clone)),
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		newID:    opts.NewID,
		now:      opts.Now,
	}
	if m.layout == nil {
		m.layout = visualization.NewRankedLayout(visualization.DefaultLayoutConfig())
	}
	if m.logger == nil {
		m.logger = logging.NewNopLogger()
	}
	if m.metrics == nil {
		m.metrics = metrics.NewRegistry()
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.logger = m.logger.With(logging.Component("session"))
	return m
}

// Create starts a new empty session.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}

	id := m.newID()
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session id collision: " + id)
	}

	s := newSession(id, m.now(), m)
	m.sessions[id] = s
	m.metrics.SessionsActive.Set(float64(len(m.sessions)))
	m.logger.Info("session created", logging.SessionID(id))
	return s, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// List returns all sessions, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	m.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].created.Equal(list[j].created) {
			return list[i].id < list[j].id
		}
		return list[i].created.Before(list[j].created)
	})
	return list
}

// State reports the number of sessions and whether Close has been called.
func (m *Manager) State() (active int, closed bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), m.closed
}

// Metrics returns the registry sessions record into.
func (m *Manager) Metrics() *metrics.Registry {
	return m.metrics
}

// Close ends every event subscription and rejects new sessions.
// Existing sessions stay readable.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.broker.Shutdown()
	m.logger.Info("session manager closed")
}
