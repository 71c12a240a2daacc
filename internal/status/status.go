// Package status provides a thread-safe status tracker for the heartbeatd
// daemon. It is written by the heartbeat task's toggle hook and read by the
// HTTP server and the MQTT liveness reporter.
package status

import (
	"sync"
	"time"
)

// Config contains daemon configuration for display.
type Config struct {
	Chip        string
	Pin         int
	ActiveLow   bool
	InitCheck   bool
	HeartbeatMs int64
	SerialMs    int64
	Broker      string // empty = MQTT disabled
	HTTPAddr    string // empty = HTTP disabled
	ReportEvery int    // toggles between liveness reports
}

// TaskInfo describes one entry of the static task table.
type TaskInfo struct {
	Name       string
	Priority   int
	IntervalMs int64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	LineActive    bool
	Toggles       int64
	Tasks         []TaskInfo
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetTasks records the task table started by the boot sequencer.
func (t *Tracker) SetTasks(tasks []TaskInfo) {
	t.mu.Lock()
	t.snap.Tasks = tasks
	t.mu.Unlock()
}

// RecordToggle notes one heartbeat toggle and the resulting line state.
// Called from the heartbeat task on every blink.
func (t *Tracker) RecordToggle(active bool) {
	t.mu.Lock()
	t.snap.LineActive = active
	t.snap.Toggles++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
