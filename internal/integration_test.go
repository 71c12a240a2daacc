package internal

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/heartbeatd/internal/boot"
	"github.com/sweeney/heartbeatd/internal/gpio"
	"github.com/sweeney/heartbeatd/internal/mqtt"
	"github.com/sweeney/heartbeatd/internal/status"
	"github.com/sweeney/heartbeatd/internal/task"
)

// tickSource hands out controllable tick channels keyed by interval.
type tickSource struct {
	mu    sync.Mutex
	chans map[time.Duration]chan time.Time
}

func newTickSource() *tickSource {
	return &tickSource{chans: make(map[time.Duration]chan time.Time)}
}

func (ts *tickSource) new(d time.Duration) <-chan time.Time {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ch := make(chan time.Time)
	ts.chans[d] = ch
	return ch
}

func (ts *tickSource) tick(t *testing.T, d time.Duration, n int) {
	t.Helper()
	ts.mu.Lock()
	ch := ts.chans[d]
	ts.mu.Unlock()
	if ch == nil {
		t.Fatalf("no ticker requested for interval %v", d)
	}
	for i := 0; i < n; i++ {
		ch <- time.Time{}
	}
}

func (ts *tickSource) closeAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, ch := range ts.chans {
		close(ch)
	}
}

func (ts *tickSource) count() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.chans)
}

// TestIntegrationSuccessfulBoot drives the whole success path: gate passes,
// both tasks start, the line blinks per tick, liveness is reported.
func TestIntegrationSuccessfulBoot(t *testing.T) {
	line := gpio.NewFakeLine()
	reporter := mqtt.NewFakeReporter()
	reporter.Connected = true
	tracker := status.NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), status.Config{})
	logger := log.New(&bytes.Buffer{}, "", 0)

	// The heartbeat hook mirrors cmd/heartbeatd: track every toggle,
	// report every 2nd one.
	var mu sync.Mutex
	var reported int
	hb := &task.Heartbeat{
		Line: line,
		OnToggle: func(active bool) {
			tracker.RecordToggle(active)
			mu.Lock()
			defer mu.Unlock()
			reported++
			if reported%2 == 0 {
				snap := tracker.Snapshot()
				reporter.PublishLiveness(mqtt.LivenessEvent{
					Timestamp:  snap.Now,
					Uptime:     snap.Uptime(),
					Toggles:    snap.Toggles,
					LineActive: active,
				})
			}
		},
	}
	ser := &task.Serial{}

	ticks := newTickSource()
	seq := &boot.Sequencer{
		Gate: &boot.Gate{Line: line, Log: logger},
		Log:  logger,
	}

	ok := seq.Boot([]boot.TaskSpec{
		{Name: "heartbeat", Priority: task.HeartbeatPriority, Interval: task.HeartbeatInterval, Run: hb.Run},
		{Name: "serial", Priority: task.SerialPriority, Interval: task.SerialInterval, Run: ser.Run},
	}, ticks.new)
	if !ok {
		t.Fatal("expected boot to succeed")
	}

	if !line.Configured {
		t.Fatal("line must be configured before the first toggle")
	}
	if ticks.count() != 2 {
		t.Fatalf("expected 2 tickers, got %d", ticks.count())
	}

	ticks.tick(t, task.HeartbeatInterval, 3)
	ticks.tick(t, task.SerialInterval, 5)
	ticks.closeAll()

	// Give the goroutines a moment to drain after channel close.
	deadline := time.Now().Add(time.Second)
	for {
		if tracker.Snapshot().Toggles >= 4 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("toggles: got %d, want 4", tracker.Snapshot().Toggles)
		}
		time.Sleep(time.Millisecond)
	}

	// 1 immediate + 3 ticks, states alternating from the configured
	// active state.
	if line.Toggles != 4 {
		t.Fatalf("expected 4 toggles, got %d", line.Toggles)
	}
	want := []bool{false, true, false, true}
	for i, w := range want {
		if line.States[i] != w {
			t.Errorf("state %d: expected %v, got %v", i, w, line.States[i])
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reporter.LivenessEvents) != 2 {
		t.Fatalf("expected 2 liveness reports, got %d", len(reporter.LivenessEvents))
	}
	if reporter.LivenessEvents[1].Toggles != 4 {
		t.Errorf("last report toggles: got %d, want 4", reporter.LivenessEvents[1].Toggles)
	}
}

// TestIntegrationFailedGate verifies the fail-stop path: nothing starts,
// the line never changes state.
func TestIntegrationFailedGate(t *testing.T) {
	line := gpio.NewFakeLine()
	line.NotReady = true
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	ticks := newTickSource()
	seq := &boot.Sequencer{
		Gate: &boot.Gate{Line: line, Log: logger},
		Log:  logger,
	}

	hb := &task.Heartbeat{Line: line}
	ok := seq.Boot([]boot.TaskSpec{
		{Name: "heartbeat", Priority: task.HeartbeatPriority, Interval: task.HeartbeatInterval, Run: hb.Run},
	}, ticks.new)

	if ok {
		t.Error("expected boot to fail")
	}
	if ticks.count() != 0 {
		t.Errorf("expected no tickers, got %d", ticks.count())
	}
	if line.Toggles != 0 {
		t.Errorf("line must never toggle after a failed gate, got %d", line.Toggles)
	}
	if !strings.Contains(buf.String(), "Heartbeat LED GPIO is not ready") {
		t.Errorf("missing diagnostic, got %q", buf.String())
	}
}

// TestIntegrationConfigureRejected covers the second failure kind: the
// driver is ready but rejects the output request.
func TestIntegrationConfigureRejected(t *testing.T) {
	line := gpio.NewFakeLine()
	line.ConfigureError = errors.New("EBUSY")
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	seq := &boot.Sequencer{
		Gate: &boot.Gate{Line: line, Log: logger},
		Log:  logger,
	}

	ticks := newTickSource()
	if seq.Boot(nil, ticks.new) {
		t.Error("expected boot to fail")
	}
	if !strings.Contains(buf.String(), "Failed to configure heartbeat LED GPIO") {
		t.Errorf("missing diagnostic, got %q", buf.String())
	}
}
