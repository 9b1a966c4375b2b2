package subscriber

import (
	"context"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/heliodash/heliodash/internal/logging"
)

func mqttLog() *logging.Logger {
	return logging.Global().With("component", "subscriber.mqtt")
}

// mqttSubscribeQoS asks the broker for exactly-once delivery.
const mqttSubscribeQoS = 2

// MQTTSubscriber implements Subscriber over an MQTT broker. Paho delivers
// messages on a single router goroutine with ordering enabled, so handlers
// see one message at a time in arrival order.
type MQTTSubscriber struct {
	client mqtt.Client
	topics map[string]struct{}
	mu     sync.Mutex
}

// NewMQTTSubscriber connects to the broker at url (e.g.
// tcp://localhost:1883). The client identity is clientID with a random
// suffix so a restarted daemon never collides with its previous session.
func NewMQTTSubscriber(url, clientID, username, password string) (*MQTTSubscriber, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(url).
		SetClientID(fmt.Sprintf("%s-%s", clientID, uuid.NewString()[:8])).
		SetOrderMatters(true).
		SetKeepAlive(60 * time.Second).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			mqttLog().Warn("MQTT connection lost", "error", err)
		}).
		SetOnConnectHandler(func(_ mqtt.Client) {
			mqttLog().Info("MQTT connected", "url", url)
		})

	if username != "" {
		opts.SetUsername(username)
		opts.SetPassword(password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTSubscriber{
		client: client,
		topics: make(map[string]struct{}),
	}, nil
}

// Subscribe subscribes to a topic with the given handler
func (s *MQTTSubscriber) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.topics[topic]; exists {
		return fmt.Errorf("already subscribed to topic: %s", topic)
	}

	token := s.client.Subscribe(topic, mqttSubscribeQoS, func(_ mqtt.Client, msg mqtt.Message) {
		if ctx.Err() != nil {
			return
		}

		if err := handler(ctx, msg.Topic(), msg.Payload()); err != nil {
			mqttLog().Error("Failed to handle message",
				"topic", msg.Topic(),
				"error", err,
				"payload_preview", string(msg.Payload()[:min(100, len(msg.Payload()))]))
		}
	})

	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, token.Error())
	}

	s.topics[topic] = struct{}{}
	mqttLog().Info("Subscribed to topic", "topic", topic)
	return nil
}

// Unsubscribe unsubscribes from a topic
func (s *MQTTSubscriber) Unsubscribe(topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.topics[topic]; !exists {
		return fmt.Errorf("not subscribed to topic: %s", topic)
	}

	token := s.client.Unsubscribe(topic)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", topic, token.Error())
	}

	delete(s.topics, topic)
	mqttLog().Info("Unsubscribed from topic", "topic", topic)
	return nil
}

// Close disconnects from the broker after letting in-flight work settle.
func (s *MQTTSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.client.Disconnect(250)
	s.topics = make(map[string]struct{})
	mqttLog().Info("MQTT subscriber closed")
	return nil
}
