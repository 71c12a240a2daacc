// Package boot implements the daemon's one-shot startup sequence: an
// initialization gate that validates the heartbeat line, and a sequencer
// that starts the task table in priority order.
package boot

import (
	"log"
	"sort"
	"time"

	"github.com/sweeney/heartbeatd/internal/gpio"
)

// Gate validates that the heartbeat line's driver is ready and configures
// the line as an active output. Single pass, fail-fast, never retried.
type Gate struct {
	Line gpio.Line
	Log  *log.Logger
}

// Run performs the init check. It returns true only when the line is both
// ready and configured; every outcome logs exactly one diagnostic.
func (g *Gate) Run() bool {
	if !g.Line.Ready() {
		g.Log.Printf("Heartbeat LED GPIO is not ready")
		return false
	}
	if err := g.Line.ConfigureOutput(); err != nil {
		g.Log.Printf("Failed to configure heartbeat LED GPIO: %v", err)
		return false
	}
	g.Log.Printf("Initialization complete")
	return true
}

// TaskSpec describes one entry in the static task table: a named entry
// point with a fixed priority and tick interval.
type TaskSpec struct {
	Name     string
	Priority int // lower starts first
	Interval time.Duration
	Run      func(tick <-chan time.Time)
}

// TickerFunc produces the tick source for a task. The daemon passes a real
// time.Ticker's channel; tests substitute their own channels.
type TickerFunc func(d time.Duration) <-chan time.Time

// NewTicker is the production TickerFunc. The ticker is never stopped:
// tasks run for the life of the process.
func NewTicker(d time.Duration) <-chan time.Time {
	return time.NewTicker(d).C
}

// Sequencer runs the boot sequence exactly once.
type Sequencer struct {
	// Gate is the init check to run before starting tasks. Nil skips the
	// check entirely (the legacy unconditional boot).
	Gate *Gate

	Log *log.Logger
}

// Boot runs the gate, then starts every task on its own goroutine in
// ascending priority order. If the gate fails, no task is started and Boot
// returns false. Started tasks are fire-and-forget: the sequencer keeps no
// handle to them and never joins, cancels or restarts one.
func (s *Sequencer) Boot(tasks []TaskSpec, newTicker TickerFunc) bool {
	if s.Gate != nil && !s.Gate.Run() {
		return false
	}

	ordered := make([]TaskSpec, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	for _, t := range ordered {
		tick := newTicker(t.Interval)
		go t.Run(tick)
		s.Log.Printf("started task %s (priority %d, interval %v)", t.Name, t.Priority, t.Interval)
	}
	return true
}
