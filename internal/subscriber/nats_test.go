package subscriber

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// setupTestNATS creates an embedded NATS server for testing
func setupTestNATS(t *testing.T) (string, func()) {
	t.Helper()

	opts := &server.Options{
		Host: "127.0.0.1",
		Port: -1, // Random port
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("Failed to create NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	cleanup := func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	}

	return ns.ClientURL(), cleanup
}

func TestNATSSubscriber_New_InvalidURL(t *testing.T) {
	_, err := NewNATSSubscriber("nats://invalid-host:9999", "test")
	if err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestNATSSubscriber_RoundTrip(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	sub, err := NewNATSSubscriber(url, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = sub.Close() }()

	var received atomic.Int32
	err = sub.Subscribe(context.Background(), "meters.solar", func(ctx context.Context, subject string, data []byte) error {
		received.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conn, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer conn.Close()

	if err := conn.Publish("meters.solar", []byte(`{"P": 100, "DC": 200}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = conn.Flush()

	deadline := time.Now().Add(2 * time.Second)
	for received.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if received.Load() != 1 {
		t.Errorf("expected 1 message received, got %d", received.Load())
	}
}

func TestNATSSubscriber_SubscribeDuplicate(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	sub, err := NewNATSSubscriber(url, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = sub.Close() }()

	handler := func(ctx context.Context, subject string, data []byte) error { return nil }

	if err := sub.Subscribe(context.Background(), "dup.subject", handler); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sub.Subscribe(context.Background(), "dup.subject", handler); err == nil {
		t.Fatal("expected error for duplicate subscription")
	}
}

func TestNATSSubscriber_Unsubscribe(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	sub, err := NewNATSSubscriber(url, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = sub.Close() }()

	handler := func(ctx context.Context, subject string, data []byte) error { return nil }

	if err := sub.Subscribe(context.Background(), "unsub.subject", handler); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sub.Unsubscribe("unsub.subject"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sub.Unsubscribe("unsub.subject"); err == nil {
		t.Fatal("expected error for double unsubscribe")
	}
}
