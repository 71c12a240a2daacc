package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/heartbeatd/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	LED           string     `json:"led"`
	Toggles       int64      `json:"toggles"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Tasks         []TaskJSON `json:"tasks"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// TaskJSON is the JSON representation of one task table entry.
type TaskJSON struct {
	Name       string `json:"name"`
	Priority   int    `json:"priority"`
	IntervalMs int64  `json:"interval_ms"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Chip        string `json:"chip"`
	Pin         int    `json:"pin"`
	ActiveLow   bool   `json:"active_low"`
	InitCheck   bool   `json:"init_check"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	SerialMs    int64  `json:"serial_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

func formatJSON(snap status.Snapshot) []byte {
	led := "OFF"
	if snap.LineActive {
		led = "ON"
	}

	tasks := make([]TaskJSON, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		tasks = append(tasks, TaskJSON{
			Name:       t.Name,
			Priority:   t.Priority,
			IntervalMs: t.IntervalMs,
		})
	}

	sj := StatusJSON{
		Status: StatusInner{
			LED:           led,
			Toggles:       snap.Toggles,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			Tasks:         tasks,
			Config: ConfigJSON{
				Chip:        snap.Config.Chip,
				Pin:         snap.Config.Pin,
				ActiveLow:   snap.Config.ActiveLow,
				InitCheck:   snap.Config.InitCheck,
				HeartbeatMs: snap.Config.HeartbeatMs,
				SerialMs:    snap.Config.SerialMs,
				Broker:      snap.Config.Broker,
				HTTPAddr:    snap.Config.HTTPAddr,
			},
		},
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
