package subscriber

import (
	"context"
	"fmt"
	"sync"

	"github.com/heliodash/heliodash/internal/logging"
)

func memoryLog() *logging.Logger {
	return logging.Global().With("component", "subscriber.memory")
}

// memorySubscription represents an active subscription
type memorySubscription struct {
	handler MessageHandler
	ctx     context.Context
	cancel  context.CancelFunc
	ch      chan memoryMessage
}

type memoryMessage struct {
	topic string
	data  []byte
}

// MemorySubscriber implements Subscriber for an in-process broker, used in
// tests and by the simulate tool's direct mode.
type MemorySubscriber struct {
	subscriptions map[string]*memorySubscription
	mu            sync.RWMutex
}

var (
	memBroker     *memoryBroker
	memBrokerOnce sync.Once
)

type memoryBroker struct {
	subscribers map[string][]*memorySubscription
	mu          sync.RWMutex
}

func getMemoryBroker() *memoryBroker {
	memBrokerOnce.Do(func() {
		memBroker = &memoryBroker{
			subscribers: make(map[string][]*memorySubscription),
		}
	})
	return memBroker
}

// PublishToMemory publishes a message to all memory subscribers.
func PublishToMemory(topic string, data []byte) {
	b := getMemoryBroker()
	b.mu.RLock()
	subs := b.subscribers[topic]
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.ch <- memoryMessage{topic: topic, data: data}:
		default:
			memoryLog().Warn("Subscriber channel full, dropping message", "topic", topic)
		}
	}
}

// NewMemorySubscriber creates a new in-memory subscriber
func NewMemorySubscriber() (*MemorySubscriber, error) {
	return &MemorySubscriber{
		subscriptions: make(map[string]*memorySubscription),
	}, nil
}

// Subscribe subscribes to a topic with the given handler
func (s *MemorySubscriber) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subscriptions[topic]; exists {
		return fmt.Errorf("already subscribed to topic: %s", topic)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &memorySubscription{
		handler: handler,
		ctx:     subCtx,
		cancel:  cancel,
		ch:      make(chan memoryMessage, 1000),
	}

	s.subscriptions[topic] = sub

	b := getMemoryBroker()
	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], sub)
	b.mu.Unlock()

	go s.consume(sub)

	return nil
}

// consume reads messages and processes them, one at a time.
func (s *MemorySubscriber) consume(sub *memorySubscription) {
	for {
		select {
		case <-sub.ctx.Done():
			return
		case msg := <-sub.ch:
			if err := sub.handler(sub.ctx, msg.topic, msg.data); err != nil {
				memoryLog().Error("Failed to handle message", "topic", msg.topic, "error", err)
			}
		}
	}
}

// Unsubscribe unsubscribes from a topic
func (s *MemorySubscriber) Unsubscribe(topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.subscriptions[topic]
	if !exists {
		return fmt.Errorf("not subscribed to topic: %s", topic)
	}

	sub.cancel()
	delete(s.subscriptions, topic)
	s.detach(topic, sub)
	return nil
}

// Close closes all subscriptions
func (s *MemorySubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for topic, sub := range s.subscriptions {
		sub.cancel()
		s.detach(topic, sub)
	}
	s.subscriptions = make(map[string]*memorySubscription)
	return nil
}

// detach unregisters a subscription from the global broker.
func (s *MemorySubscriber) detach(topic string, sub *memorySubscription) {
	b := getMemoryBroker()
	b.mu.Lock()
	subs := b.subscribers[topic]
	for i, bs := range subs {
		if bs == sub {
			b.subscribers[topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
}
