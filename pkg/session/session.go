// Package session hosts live flows. A Session wraps one graph.Store,
// serialises its mutations and publishes every committed snapshot.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dd0wney/promptflow/pkg/graph"
	"github.com/dd0wney/promptflow/pkg/logging"
	"github.com/dd0wney/promptflow/pkg/metrics"
	"github.com/dd0wney/promptflow/pkg/pubsub"
	"github.com/dd0wney/promptflow/pkg/visualization"
)

// Session is one user's flow.
type Session struct {
	id      string
	created time.Time

	mu     sync.Mutex
	store  *graph.Store
	layout visualization.Layout

	broker  *pubsub.Broker[graph.Snapshot]
	logger  logging.Logger
	metrics *metrics.Registry
}

// Info summarises a session for listings.
type Info struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Version   uint64    `json:"version"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
}

func newSession(id string, created time.Time, m *Manager) *Session {
	s := &Session{
		id:      id,
		created: created,
		layout:  m.layout,
		broker:  m.broker,
		logger:  m.logger.With(logging.SessionID(id)),
		metrics: m.metrics,
	}
	s.store = graph.NewStore(graph.LayoutFunc(s.timedLayout), graph.WithDimensions(m.dims))
	return s
}

// timedLayout runs under s.mu from inside Store.commit.
func (s *Session) timedLayout(g graph.Graph) map[string]graph.Position {
	timer := logging.StartTimer(s.logger, "layout", logging.Count(len(g.Nodes)))
	positions := s.layout.Layout(g)
	s.metrics.ObserveLayout(len(g.Nodes), timer.End())
	return positions
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.created }

// AddNode appends a node for prompt. Blank prompts return the current
// snapshot and false without publishing anything.
func (s *Session) AddNode(prompt string) (graph.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chained := !s.store.Graph().Empty()
	snap, added := s.store.AddNode(prompt)
	if !added {
		s.metrics.RecordMutation("add_node", metrics.ResultNoop)
		return snap, false
	}

	s.metrics.RecordMutation("add_node", metrics.ResultAdded)
	s.metrics.RecordNodeAdded(chained)

	last := snap.Nodes[len(snap.Nodes)-1]
	s.logger.Debug("node added",
		logging.NodeID(last.ID),
		logging.Prompt(last.Payload.Prompt),
		logging.Version(snap.Version),
	)
	s.publish(snap)
	return snap, true
}

// Connect adds a user edge. added is false for a duplicate, which is not
// an error. Rejections return the unchanged snapshot with the store error.
func (s *Session) Connect(source, target string) (snap graph.Snapshot, added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.store.CurrentSnapshot().Version
	snap, err = s.store.AddUserEdge(source, target)
	fields := []logging.Field{logging.Source(source), logging.Target(target)}

	switch {
	case err != nil:
		s.metrics.RecordMutation("connect", metrics.ResultRejected)
		s.logger.Info("edge rejected", append(fields, logging.Error(err))...)
		return snap, false, err
	case snap.Version == before:
		s.metrics.RecordMutation("connect", metrics.ResultDuplicate)
		s.logger.Debug("edge already present", fields...)
		return snap, false, nil
	}

	s.metrics.RecordMutation("connect", metrics.ResultAdded)
	s.metrics.RecordUserEdge()
	s.logger.Debug("edge added",
		append(fields, logging.EdgeID(graph.EdgeID(source, target)), logging.Version(snap.Version))...)
	s.publish(snap)
	return snap, true, nil
}

// Snapshot returns the last published snapshot.
func (s *Session) Snapshot() graph.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CurrentSnapshot()
}

// Visualization pairs the current snapshot with its layout ranks.
func (s *Session) Visualization() *visualization.Visualization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return visualization.NewVisualization(s.layout, s.store.CurrentSnapshot())
}

// Info returns a summary of the session.
func (s *Session) Info() Info {
	snap := s.Snapshot()
	return Info{
		ID:        s.id,
		CreatedAt: s.created,
		Version:   snap.Version,
		Nodes:     snap.NodeCount(),
		Edges:     snap.EdgeCount(),
	}
}

// Subscribe streams every snapshot published after the call. The current
// snapshot is returned alongside so a subscriber can render immediately
// without missing an update in between.
func (s *Session) Subscribe(ctx context.Context) (graph.Snapshot, *pubsub.Subscription[graph.Snapshot], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.broker.Subscribe(ctx, s.id)
	if err != nil {
		if errors.Is(err, pubsub.ErrClosed) {
			return graph.Snapshot{}, nil, ErrManagerClosed
		}
		return graph.Snapshot{}, nil, err
	}
	return s.store.CurrentSnapshot(), sub, nil
}

// publish must be called with s.mu held so snapshots go out in version order.
func (s *Session) publish(snap graph.Snapshot) {
	subscribers := s.broker.SubscriberCount(s.id)
	delivered := s.broker.Publish(s.id, snap)
	s.metrics.RecordPublish(subscribers, delivered)
	if delivered < subscribers {
		s.logger.Warn("snapshot dropped for slow subscribers",
			logging.Version(snap.Version), logging.Count(subscribers-delivered))
	}
}
