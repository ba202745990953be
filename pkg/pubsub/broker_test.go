package pubsub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// TestBasicPubSub tests basic publish/subscribe functionality
func TestBasicPubSub(t *testing.T) {
	b := NewBroker[string](1)
	defer b.Shutdown()

	sub, err := b.Subscribe(context.Background(), "test-topic")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	if n := b.Publish("test-topic", "Hello, World!"); n != 1 {
		t.Errorf("Expected 1 delivery, got %d", n)
	}

	select {
	case msg := <-sub.Channel():
		if msg != "Hello, World!" {
			t.Errorf("Expected 'Hello, World!', got %v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

// TestMultipleSubscribers tests multiple subscribers to the same topic
func TestMultipleSubscribers(t *testing.T) {
	b := NewBroker[int](0)
	defer b.Shutdown()

	const numSubscribers = 5
	subs := make([]*Subscription[int], numSubscribers)
	for i := range subs {
		sub, err := b.Subscribe(context.Background(), "broadcast")
		if err != nil {
			t.Fatalf("Failed to subscribe %d: %v", i, err)
		}
		subs[i] = sub
	}

	if got := b.SubscriberCount("broadcast"); got != numSubscribers {
		t.Errorf("Expected %d subscribers, got %d", numSubscribers, got)
	}

	b.Publish("broadcast", 42)
	for i, sub := range subs {
		select {
		case v := <-sub.Channel():
			if v != 42 {
				t.Errorf("Subscriber %d got %d", i, v)
			}
		case <-time.After(time.Second):
			t.Fatalf("Subscriber %d timed out", i)
		}
	}
}

func TestTopicIsolation(t *testing.T) {
	b := NewBroker[string](1)
	defer b.Shutdown()

	sub, _ := b.Subscribe(context.Background(), "a")
	defer sub.Unsubscribe()

	if n := b.Publish("b", "other"); n != 0 {
		t.Errorf("Expected no delivery to other topic, got %d", n)
	}
	select {
	case msg := <-sub.Channel():
		t.Errorf("Received message from wrong topic: %v", msg)
	default:
	}
}

// TestSlowSubscriberDropsMessages tests that a full buffer never blocks Publish
func TestSlowSubscriberDropsMessages(t *testing.T) {
	b := NewBroker[int](2)
	defer b.Shutdown()

	sub, _ := b.Subscribe(context.Background(), "t")
	defer sub.Unsubscribe()

	delivered := 0
	for i := 0; i < 5; i++ {
		delivered += b.Publish("t", i)
	}
	if delivered != 2 {
		t.Errorf("Expected 2 deliveries into a buffer of 2, got %d", delivered)
	}
	if v := <-sub.Channel(); v != 0 {
		t.Errorf("Expected oldest value 0, got %d", v)
	}
}

func TestContextCancellationUnsubscribes(t *testing.T) {
	b := NewBroker[string](1)
	defer b.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	sub, _ := b.Subscribe(ctx, "t")
	cancel()

	select {
	case _, ok := <-sub.Channel():
		if ok {
			t.Error("Expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("Channel not closed after cancel")
	}

	if got := b.SubscriberCount("t"); got != 0 {
		t.Errorf("Expected 0 subscribers, got %d", got)
	}
}

func TestShutdown(t *testing.T) {
	b := NewBroker[string](1)
	sub, _ := b.Subscribe(context.Background(), "t")

	b.Shutdown()
	b.Shutdown()

	if _, ok := <-sub.Channel(); ok {
		t.Error("Expected channel closed by shutdown")
	}
	if _, err := b.Subscribe(context.Background(), "t"); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if n := b.Publish("t", "late"); n != 0 {
		t.Errorf("Expected no delivery after shutdown, got %d", n)
	}

	// Unsubscribing after shutdown must not panic.
	sub.Unsubscribe()
}

// TestConcurrentPublishUnsubscribe tests for send-on-closed-channel races
func TestConcurrentPublishUnsubscribe(t *testing.T) {
	b := NewBroker[int](4)
	defer b.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		sub, err := b.Subscribe(context.Background(), "t")
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Publish("t", j)
			}
		}()
		go func() {
			defer wg.Done()
			sub.Unsubscribe()
		}()
	}
	wg.Wait()
}

// TestWithCopy tests that each subscriber receives its own copy
func TestWithCopy(t *testing.T) {
	b := NewBroker(1, WithCopy(func(v []int) []int {
		return append([]int(nil), v...)
	}))
	defer b.Shutdown()

	first, _ := b.Subscribe(context.Background(), "t")
	second, _ := b.Subscribe(context.Background(), "t")

	value := []int{1, 2}
	if n := b.Publish("t", value); n != 2 {
		t.Fatalf("Expected 2 deliveries, got %d", n)
	}

	got := <-first.Channel()
	got[0] = 99
	other := <-second.Channel()

	if other[0] != 1 || value[0] != 1 {
		t.Errorf("Write through one delivery leaked: other=%v value=%v", other, value)
	}
}
