package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/noise-meter/internal/logic"
)

// bufferCapacity bounds how many window peaks we hold while the broker is
// unreachable. At the default 10s window that is roughly 40 minutes.
const bufferCapacity = 256

// RealPublisher publishes to an actual MQTT broker, buffering state
// messages while disconnected and replaying them on reconnect.
type RealPublisher struct {
	client paho.Client

	mu     sync.Mutex
	buffer *ringBuffer
}

// NewRealPublisher creates a publisher connected to the given broker.
// The broker's last-will marks the sensor offline if the daemon dies.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{buffer: newRingBuffer(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("noise-meter").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(TopicAvailability, "offline", 1, true).
		SetOnConnectHandler(p.onConnect)

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// onConnect runs on the initial connect and on every reconnect:
// re-announce availability, re-publish the retained discovery config, and
// replay buffered state messages in arrival order.
func (p *RealPublisher) onConnect(c paho.Client) {
	if cfg, err := FormatDiscoveryConfig(); err == nil {
		c.Publish(TopicConfig, 1, true, cfg)
	}
	c.Publish(TopicAvailability, 1, true, []byte("online"))

	p.mu.Lock()
	msgs := p.buffer.drainAll()
	p.mu.Unlock()

	for _, m := range msgs {
		c.Publish(m.topic, m.qos, m.retained, m.payload)
	}
	if len(msgs) > 0 {
		log.Printf("mqtt: replayed %d buffered messages", len(msgs))
	}
}

// PublishPeak sends a window peak to the state topic. While disconnected
// the message is buffered instead of failing.
func (p *RealPublisher) PublishPeak(peak logic.Peak) error {
	payload, err := FormatStatePayload(peak)
	if err != nil {
		return fmt.Errorf("format state payload: %w", err)
	}

	if !p.client.IsConnected() {
		p.mu.Lock()
		p.buffer.push(bufferedMsg{topic: TopicState, payload: payload, qos: 0})
		n := p.buffer.len()
		p.mu.Unlock()
		log.Printf("mqtt: disconnected, buffered peak (%d pending)", n)
		return nil
	}

	// QoS 0 (at-most-once), not retained
	token := p.client.Publish(TopicState, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// PublishSystem sends a daemon lifecycle event to the broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	token := p.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}

	return nil
}

// IsConnected reports whether the client currently has a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close marks the sensor offline and disconnects from the broker.
func (p *RealPublisher) Close() error {
	if p.client.IsConnected() {
		token := p.client.Publish(TopicAvailability, 1, true, []byte("offline"))
		token.WaitTimeout(2 * time.Second)
	}
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
