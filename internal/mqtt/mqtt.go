// Package mqtt publishes daemon liveness over MQTT, with abstraction for
// testing. Publishing is optional: the daemon blinks regardless of broker
// availability, so every failure here is soft.
package mqtt

import (
	"encoding/json"
	"time"
)

// TopicLiveness is the MQTT topic for periodic heartbeat reports.
const TopicLiveness = "devices/heartbeatd/liveness"

// TopicSystem is the MQTT topic for lifecycle events.
const TopicSystem = "devices/heartbeatd/system"

// Reporter publishes daemon events to MQTT.
type Reporter interface {
	// PublishLiveness sends a periodic heartbeat report.
	// Returns error if publishing fails (must not crash the process).
	PublishLiveness(event LivenessEvent) error

	// PublishSystem sends a lifecycle event (startup, halt, shutdown).
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a lifecycle event.
type SystemEvent struct {
	Timestamp time.Time
	Event     string // "STARTUP", "HALTED", "SHUTDOWN"
	Reason    string // e.g. "SIGTERM", or the init gate diagnostic
	Retained  bool   // whether the broker should retain the message
}

// LivenessEvent is the periodic heartbeat report.
type LivenessEvent struct {
	Timestamp  time.Time
	Uptime     time.Duration
	Toggles    int64
	LineActive bool
}

// livenessPayload is the wire shape of a liveness report.
type livenessPayload struct {
	Heartbeat livenessInner `json:"heartbeat"`
}

type livenessInner struct {
	Timestamp     string `json:"timestamp"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Toggles       int64  `json:"toggles"`
	LED           string `json:"led"`
}

// FormatLivenessPayload creates the JSON payload for a liveness report.
func FormatLivenessPayload(event LivenessEvent) ([]byte, error) {
	led := "OFF"
	if event.LineActive {
		led = "ON"
	}
	payload := livenessPayload{
		Heartbeat: livenessInner{
			Timestamp:     event.Timestamp.UTC().Format(time.RFC3339),
			UptimeSeconds: int64(event.Uptime.Seconds()),
			Toggles:       event.Toggles,
			LED:           led,
		},
	}
	return json.Marshal(payload)
}

// systemPayload is the wire shape of a lifecycle event.
type systemPayload struct {
	System systemInner `json:"system"`
}

type systemInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := systemPayload{
		System: systemInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// NopReporter discards everything. Used when no broker is configured.
type NopReporter struct{}

// PublishLiveness discards the event.
func (NopReporter) PublishLiveness(LivenessEvent) error { return nil }

// PublishSystem discards the event.
func (NopReporter) PublishSystem(SystemEvent) error { return nil }

// Close does nothing.
func (NopReporter) Close() error { return nil }

// IsConnected always reports false.
func (NopReporter) IsConnected() bool { return false }
