package subscriber

import (
	"testing"

	"github.com/heliodash/heliodash/internal/config"
)

func TestNewSubscriber_Memory(t *testing.T) {
	sub, err := NewSubscriber(config.QueueConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = sub.Close() }()

	if _, ok := sub.(*MemorySubscriber); !ok {
		t.Errorf("expected *MemorySubscriber, got %T", sub)
	}
}

func TestNewSubscriber_UnknownType(t *testing.T) {
	_, err := NewSubscriber(config.QueueConfig{Type: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected error for unknown transport type")
	}
}

func TestNewSubscriber_MQTTUnreachable(t *testing.T) {
	_, err := NewSubscriber(config.QueueConfig{
		Type:     "mqtt",
		URL:      "tcp://127.0.0.1:1",
		ClientID: "test",
	})
	if err == nil {
		t.Fatal("expected connect error for unreachable broker")
	}
}
