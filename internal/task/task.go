// Package task contains the daemon's long-running tasks. Each task is an
// independently scheduled loop driven by a tick channel; the entry points
// return only when that channel is closed, which the daemon never does.
package task

import "time"

// Fixed task priorities. Lower is scheduled first by the boot sequencer,
// so the heartbeat always starts ahead of the serial placeholder.
const (
	HeartbeatPriority = 5
	SerialPriority    = 7
)

// Fixed task intervals.
const (
	HeartbeatInterval = 1000 * time.Millisecond
	SerialInterval    = 500 * time.Millisecond
)
