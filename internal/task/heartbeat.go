package task

import (
	"time"

	"github.com/sweeney/heartbeatd/internal/gpio"
)

// Heartbeat toggles the bound LED line once per tick to signal the daemon
// is alive.
type Heartbeat struct {
	// Line is the output line to toggle. Configured by the init gate
	// before the task starts; the task is its only user afterwards.
	Line gpio.Line

	// OnToggle, if set, is called after every toggle with the new logical
	// state. Used to feed the status tracker and liveness reporter.
	OnToggle func(active bool)
}

// Run toggles the line immediately, then once per tick until the channel
// is closed. Toggle failures are ignored: a dead LED should not take the
// daemon down, and there is nothing useful to do about it mid-blink.
func (h *Heartbeat) Run(tick <-chan time.Time) {
	h.toggle()
	for range tick {
		h.toggle()
	}
}

func (h *Heartbeat) toggle() {
	_ = h.Line.Toggle()
	if h.OnToggle != nil {
		h.OnToggle(h.Line.Active())
	}
}
