package main

import (
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/heartbeatd/internal/mqtt"
	"github.com/sweeney/heartbeatd/internal/status"
	"github.com/sweeney/heartbeatd/internal/task"
)

func TestTaskTableWithInitCheck(t *testing.T) {
	cfg := config{
		initCheck: true,
		heartbeat: task.HeartbeatInterval,
		serial:    task.SerialInterval,
	}
	specs := taskTable(&task.Heartbeat{}, &task.Serial{}, cfg)

	if len(specs) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(specs))
	}
	if specs[0].Name != "heartbeat" || specs[1].Name != "serial" {
		t.Errorf("unexpected task names: %s, %s", specs[0].Name, specs[1].Name)
	}
	if specs[0].Priority >= specs[1].Priority {
		t.Errorf("heartbeat priority %d must be lower than serial priority %d",
			specs[0].Priority, specs[1].Priority)
	}
	if specs[0].Interval != time.Second {
		t.Errorf("heartbeat interval: got %v, want 1s", specs[0].Interval)
	}
	if specs[1].Interval != 500*time.Millisecond {
		t.Errorf("serial interval: got %v, want 500ms", specs[1].Interval)
	}
	if specs[0].Run == nil || specs[1].Run == nil {
		t.Error("task entry points must be set")
	}
}

func TestTaskTableLegacyBoot(t *testing.T) {
	// The gateless boot predates the serial task: heartbeat only.
	cfg := config{
		initCheck: false,
		heartbeat: task.HeartbeatInterval,
		serial:    task.SerialInterval,
	}
	specs := taskTable(&task.Heartbeat{}, &task.Serial{}, cfg)

	if len(specs) != 1 {
		t.Fatalf("expected 1 task, got %d", len(specs))
	}
	if specs[0].Name != "heartbeat" {
		t.Errorf("unexpected task name: %s", specs[0].Name)
	}
}

func TestTaskInfos(t *testing.T) {
	cfg := config{
		initCheck: true,
		heartbeat: task.HeartbeatInterval,
		serial:    task.SerialInterval,
	}
	infos := taskInfos(taskTable(&task.Heartbeat{}, &task.Serial{}, cfg))

	if len(infos) != 2 {
		t.Fatalf("expected 2 infos, got %d", len(infos))
	}
	if infos[0].IntervalMs != 1000 || infos[1].IntervalMs != 500 {
		t.Errorf("intervals: got %d, %d", infos[0].IntervalMs, infos[1].IntervalMs)
	}
	if infos[0].Priority != task.HeartbeatPriority {
		t.Errorf("priority: got %d, want %d", infos[0].Priority, task.HeartbeatPriority)
	}
}

func TestToggleHookTracksEveryToggle(t *testing.T) {
	tracker := status.NewTracker(time.Now(), status.Config{})
	reporter := mqtt.NewFakeReporter()

	hook := toggleHook(tracker, reporter, reporter, 0)
	hook(true)
	hook(false)
	hook(true)

	snap := tracker.Snapshot()
	if snap.Toggles != 3 {
		t.Errorf("Toggles: got %d, want 3", snap.Toggles)
	}
	if !snap.LineActive {
		t.Error("LineActive: got false, want true")
	}
	// reportEvery=0 disables liveness reports entirely.
	if len(reporter.LivenessEvents) != 0 {
		t.Errorf("expected no liveness reports, got %d", len(reporter.LivenessEvents))
	}
}

func TestToggleHookReportsEveryN(t *testing.T) {
	tracker := status.NewTracker(time.Now(), status.Config{})
	reporter := mqtt.NewFakeReporter()
	reporter.Connected = true

	hook := toggleHook(tracker, reporter, reporter, 3)
	for i := 0; i < 7; i++ {
		hook(i%2 == 0)
	}

	// Reports fire on toggles 3 and 6.
	if len(reporter.LivenessEvents) != 2 {
		t.Fatalf("expected 2 liveness reports, got %d", len(reporter.LivenessEvents))
	}
	if reporter.LivenessEvents[0].Toggles != 3 {
		t.Errorf("first report toggles: got %d, want 3", reporter.LivenessEvents[0].Toggles)
	}
	if reporter.LivenessEvents[1].Toggles != 6 {
		t.Errorf("second report toggles: got %d, want 6", reporter.LivenessEvents[1].Toggles)
	}
	if !tracker.Snapshot().MQTTConnected {
		t.Error("hook must mirror connection status into the tracker")
	}
}

func TestToggleHookSurvivesPublishErrors(t *testing.T) {
	tracker := status.NewTracker(time.Now(), status.Config{})
	reporter := mqtt.NewFakeReporter()
	reporter.PublishError = errors.New("broker unavailable")

	hook := toggleHook(tracker, reporter, reporter, 1)
	hook(true)
	hook(false)

	// Errors are logged, not propagated; tracking continues.
	if got := tracker.Snapshot().Toggles; got != 2 {
		t.Errorf("Toggles: got %d, want 2", got)
	}
}

func TestSignalName(t *testing.T) {
	if got := signalName(syscall.SIGINT); got != "SIGINT" {
		t.Errorf("SIGINT: got %q", got)
	}
	if got := signalName(syscall.SIGTERM); got != "SIGTERM" {
		t.Errorf("SIGTERM: got %q", got)
	}
	if got := signalName(syscall.SIGHUP); got != "UNKNOWN" {
		t.Errorf("SIGHUP: got %q, want UNKNOWN", got)
	}
}

func TestReadyString(t *testing.T) {
	if readyString(true) != "READY" {
		t.Errorf("got %q", readyString(true))
	}
	if readyString(false) != "NOT READY" {
		t.Errorf("got %q", readyString(false))
	}
}
