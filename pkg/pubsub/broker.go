package pubsub

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when subscribing to a broker that has shut down.
var ErrClosed = errors.New("pubsub: broker is shut down")

// DefaultBuffer is the per-subscription channel capacity.
const DefaultBuffer = 16

// Broker fans published values out to the subscribers of a topic.
// Slow subscribers lose messages rather than block the publisher.
type Broker[T any] struct {
	subscribers map[string]map[*Subscription[T]]bool
	mu          sync.RWMutex
	buffer      int
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
	clone       func(T) T
}

// Option configures a Broker.
type Option[T any] func(*Broker[T])

// WithCopy makes Publish hand each subscriber fn(value) instead of the
// shared value.
func WithCopy[T any](fn func(T) T) Option[T] {
	return func(b *Broker[T]) {
		b.clone = fn
	}
}

// Subscription represents a subscription to a topic
type Subscription[T any] struct {
	topic     string
	channel   chan T
	broker    *Broker[T]
	cancel    context.CancelFunc
	closeOnce sync.Once // Ensures channel is only closed once
}

// NewBroker creates a broker whose subscriptions buffer up to buffer values.
func NewBroker[T any](buffer int, opts ...Option[T]) *Broker[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	b := &Broker[T]{
		subscribers: make(map[string]map[*Subscription[T]]bool),
		buffer:      buffer,
		shutdown:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe creates a new subscription to a topic. The subscription ends
// when ctx is cancelled, Unsubscribe is called, or the broker shuts down;
// in every case the channel is closed.
func (b *Broker[T]) Subscribe(ctx context.Context, topic string) (*Subscription[T], error) {
	b.shutdownMu.Lock()
	defer b.shutdownMu.Unlock()
	if b.isShutdown {
		return nil, ErrClosed
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		topic:   topic,
		channel: make(chan T, b.buffer),
		broker:  b,
		cancel:  cancel,
	}

	b.mu.Lock()
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription[T]]bool)
	}
	b.subscribers[topic][sub] = true
	b.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			sub.cancel()
		}
	}()

	return sub, nil
}

// Publish sends a value to all subscribers of a topic and reports how many
// accepted it. Full subscriber buffers are skipped.
func (b *Broker[T]) Publish(topic string, value T) int {
	// Hold the read lock across sends so Unsubscribe cannot close a
	// channel mid-send. Sends never block, so the hold is short.
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for sub := range b.subscribers[topic] {
		v := value
		if b.clone != nil {
			v = b.clone(value)
		}
		select {
		case sub.channel <- v:
			delivered++
		default:
		}
	}
	return delivered
}

// SubscriberCount returns the number of subscribers for a topic
func (b *Broker[T]) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Shutdown closes all subscriptions and rejects new ones.
func (b *Broker[T]) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	close(b.shutdown)
	b.shutdownMu.Unlock()

	b.mu.Lock()
	for topic, subs := range b.subscribers {
		for sub := range subs {
			sub.close()
		}
		delete(b.subscribers, topic)
	}
	b.mu.Unlock()
}

// Channel returns the subscription's message channel
func (s *Subscription[T]) Channel() <-chan T {
	return s.channel
}

// Topic returns the subscribed topic.
func (s *Subscription[T]) Topic() string {
	return s.topic
}

// Unsubscribe removes the subscription and closes its channel. It is safe
// to call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.cancel()

	b := s.broker
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs := b.subscribers[s.topic]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(b.subscribers, s.topic)
		}
	}
	s.close()
}

func (s *Subscription[T]) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
