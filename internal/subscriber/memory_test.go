package subscriber

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemorySubscriber_Subscribe(t *testing.T) {
	sub, err := NewMemorySubscriber()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = sub.Close() }()

	ctx := context.Background()
	var received atomic.Int32

	err = sub.Subscribe(ctx, "meters/solar", func(ctx context.Context, topic string, data []byte) error {
		received.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	PublishToMemory("meters/solar", []byte(`{"P": 100, "DC": 200}`))
	time.Sleep(100 * time.Millisecond)

	if received.Load() != 1 {
		t.Errorf("expected 1 message received, got %d", received.Load())
	}
}

func TestMemorySubscriber_SubscribeDuplicate(t *testing.T) {
	sub, err := NewMemorySubscriber()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = sub.Close() }()

	handler := func(ctx context.Context, topic string, data []byte) error { return nil }

	if err := sub.Subscribe(context.Background(), "dup.topic", handler); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sub.Subscribe(context.Background(), "dup.topic", handler); err == nil {
		t.Fatal("expected error for duplicate subscription")
	}
}

func TestMemorySubscriber_OrderedDelivery(t *testing.T) {
	sub, err := NewMemorySubscriber()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = sub.Close() }()

	var mu sync.Mutex
	var got []byte

	err = sub.Subscribe(context.Background(), "ordered.topic", func(ctx context.Context, topic string, data []byte) error {
		mu.Lock()
		got = append(got, data[0])
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, b := range []byte("abcdef") {
		PublishToMemory("ordered.topic", []byte{b})
	}
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if string(got) != "abcdef" {
		t.Errorf("expected in-order delivery, got %q", string(got))
	}
}

func TestMemorySubscriber_Unsubscribe(t *testing.T) {
	sub, err := NewMemorySubscriber()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = sub.Close() }()

	var received atomic.Int32
	err = sub.Subscribe(context.Background(), "unsub.topic", func(ctx context.Context, topic string, data []byte) error {
		received.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sub.Unsubscribe("unsub.topic"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	PublishToMemory("unsub.topic", []byte("late"))
	time.Sleep(100 * time.Millisecond)

	if received.Load() != 0 {
		t.Errorf("expected no messages after unsubscribe, got %d", received.Load())
	}
}

func TestMemorySubscriber_UnsubscribeUnknown(t *testing.T) {
	sub, err := NewMemorySubscriber()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = sub.Close() }()

	if err := sub.Unsubscribe("never.subscribed"); err == nil {
		t.Fatal("expected error for unknown topic")
	}
}
