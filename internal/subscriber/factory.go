package subscriber

import (
	"fmt"
	"strings"

	"github.com/heliodash/heliodash/internal/config"
)

// NewSubscriber creates a Subscriber based on the transport configuration.
func NewSubscriber(cfg config.QueueConfig) (Subscriber, error) {
	transport := strings.ToLower(cfg.Type)

	// Default to MQTT if not specified; the meters speak MQTT.
	if transport == "" {
		transport = "mqtt"
	}

	switch transport {
	case "mqtt":
		return NewMQTTSubscriber(cfg.URL, cfg.ClientID, cfg.Username, cfg.Password)
	case "nats":
		clientName := cfg.ClientID
		if clientName == "" {
			clientName = "heliodash"
		}
		return NewNATSSubscriber(cfg.URL, clientName)
	case "memory":
		return NewMemorySubscriber()
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", transport)
	}
}
