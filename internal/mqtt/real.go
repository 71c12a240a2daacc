package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// outboxCapacity bounds how many messages are held while disconnected.
// At one liveness report a minute this covers several hours of outage.
const outboxCapacity = 256

// RealReporter publishes to an actual MQTT broker. The initial connect is
// asynchronous: messages published before the connection is up are queued
// in the outbox and replayed by the on-connect handler.
type RealReporter struct {
	client paho.Client

	mu      sync.Mutex
	pending *outbox
}

// NewRealReporter creates a reporter that connects to the given broker in
// the background, retrying until it succeeds.
func NewRealReporter(broker string) *RealReporter {
	r := &RealReporter{pending: newOutbox(outboxCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("heartbeatd").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(r.onConnect)

	r.client = paho.NewClient(opts)
	r.client.Connect()
	return r
}

// onConnect replays messages queued while the broker was unreachable.
func (r *RealReporter) onConnect(client paho.Client) {
	r.mu.Lock()
	queued := r.pending.drainAll()
	r.mu.Unlock()

	if len(queued) == 0 {
		return
	}
	log.Printf("mqtt: connected, replaying %d queued messages", len(queued))
	for _, msg := range queued {
		token := client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: replay timeout on %s", msg.topic)
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: replay error on %s: %v", msg.topic, err)
			return
		}
	}
}

// publish sends one message, queueing it instead if the broker is down.
func (r *RealReporter) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !r.client.IsConnected() {
		r.mu.Lock()
		r.pending.push(queuedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := r.pending.len()
		r.mu.Unlock()
		log.Printf("mqtt: broker unreachable, queued message for %s (%d pending)", topic, n)
		return nil
	}

	token := r.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PublishLiveness sends a periodic heartbeat report.
func (r *RealReporter) PublishLiveness(event LivenessEvent) error {
	payload, err := FormatLivenessPayload(event)
	if err != nil {
		return fmt.Errorf("format liveness payload: %w", err)
	}
	// QoS 0: the next report supersedes a lost one.
	return r.publish(TopicLiveness, 0, false, payload)
}

// PublishSystem sends a lifecycle event.
func (r *RealReporter) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1: lifecycle events should survive a flaky link.
	return r.publish(TopicSystem, 1, event.Retained, payload)
}

// IsConnected reports whether the broker connection is up.
func (r *RealReporter) IsConnected() bool {
	return r.client.IsConnected()
}

// Close disconnects from the broker.
func (r *RealReporter) Close() error {
	r.client.Disconnect(1000) // milliseconds to flush in-flight messages
	return nil
}
