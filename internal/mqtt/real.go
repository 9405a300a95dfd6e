package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/GeekMada/hydropi/internal/logic"
)

// bufferCapacity is how many messages are held while the broker is
// unreachable. At one transition every few minutes this covers days of
// outage.
const bufferCapacity = 512

// RealPublisher publishes to an actual MQTT broker. The initial connect
// happens in the background; messages published while disconnected are
// queued and replayed in order once the connection is up.
type RealPublisher struct {
	client paho.Client

	mu            sync.Mutex
	queue         *replayQueue
	connectedOnce bool
}

// NewRealPublisher creates a publisher for the given broker. It returns
// immediately: a grow controller must drive its relays whether or not the
// broker is reachable, so connection and retry run in the background.
func NewRealPublisher(broker string) *RealPublisher {
	p := &RealPublisher{queue: newReplayQueue(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("hydropi").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetBinaryWill(TopicSystem, WillPayload(), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// onConnect drains the replay queue and, on anything but the first connect,
// announces the recovery.
func (p *RealPublisher) onConnect(client paho.Client) {
	p.mu.Lock()
	first := !p.connectedOnce
	p.connectedOnce = true
	queued := p.queue.drain()
	p.mu.Unlock()

	if len(queued) > 0 {
		log.Printf("mqtt: connected, replaying %d buffered messages", len(queued))
	} else {
		log.Printf("mqtt: connected")
	}

	for _, m := range queued {
		client.Publish(m.topic, m.qos, m.retained, m.payload)
	}

	if !first {
		payload, err := FormatSystemPayload(SystemEvent{
			Timestamp: time.Now(),
			Event:     "RECONNECTED",
		})
		if err == nil {
			client.Publish(TopicSystem, 1, false, payload)
		}
	}
}

// publish delivers one message, or queues it when disconnected. Queuing is
// not an error: the message is still on its way.
func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.queue.push(queuedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Publish sends an enclosure event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.publish(Topic, 0, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	return p.publish(TopicSystem, 1, event.Retained, payload)
}

// IsConnected reports whether the broker connection is currently up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
