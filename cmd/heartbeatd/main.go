// Command heartbeatd blinks a GPIO heartbeat LED to signal the host is
// alive, and optionally reports liveness over MQTT and HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/heartbeatd/internal/boot"
	"github.com/sweeney/heartbeatd/internal/gpio"
	"github.com/sweeney/heartbeatd/internal/mqtt"
	"github.com/sweeney/heartbeatd/internal/status"
	"github.com/sweeney/heartbeatd/internal/task"
	"github.com/sweeney/heartbeatd/internal/web"
)

func main() {
	chip := flag.String("chip", gpio.DefaultChip, "gpiochip device name")
	pin := flag.Int("pin", gpio.DefaultPin, "BCM pin number for the heartbeat LED")
	activeLow := flag.Bool("active-low", false, "LED is wired active-low")
	initCheck := flag.Bool("init-check", true, "validate the GPIO driver before starting tasks (false reproduces the legacy unconditional boot)")
	heartbeat := flag.Duration("heartbeat", task.HeartbeatInterval, "heartbeat toggle interval")
	serial := flag.Duration("serial", task.SerialInterval, "serial task wake interval")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable)")
	httpAddr := flag.String("http", "", "HTTP status address (empty to disable)")
	reportEvery := flag.Int("report-every", 60, "heartbeat toggles between MQTT liveness reports (0 to disable)")
	printState := flag.Bool("print-state", false, "Print line readiness and exit")

	flag.Parse()

	cfg := config{
		binding: gpio.Binding{
			Chip:          *chip,
			Offset:        *pin,
			ActiveLow:     *activeLow,
			InitialActive: true,
		},
		initCheck:   *initCheck,
		heartbeat:   *heartbeat,
		serial:      *serial,
		broker:      *broker,
		httpAddr:    *httpAddr,
		reportEvery: *reportEvery,
		printState:  *printState,
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

type config struct {
	binding     gpio.Binding
	initCheck   bool
	heartbeat   time.Duration
	serial      time.Duration
	broker      string
	httpAddr    string
	reportEvery int
	printState  bool
}

func run(cfg config) error {
	line := gpio.NewRealLine(cfg.binding)
	defer line.Close()

	// Print state mode
	if cfg.printState {
		fmt.Printf("%s pin %d: %s\n", cfg.binding.Chip, cfg.binding.Offset, readyString(line.Ready()))
		return nil
	}

	// Initialize MQTT (optional)
	var reporter mqtt.Reporter = mqtt.NopReporter{}
	var connStatus mqtt.ConnectionStatus = mqtt.NopReporter{}
	if cfg.broker != "" {
		real := mqtt.NewRealReporter(cfg.broker)
		reporter = real
		connStatus = real
	}
	defer reporter.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Chip:        cfg.binding.Chip,
		Pin:         cfg.binding.Offset,
		ActiveLow:   cfg.binding.ActiveLow,
		InitCheck:   cfg.initCheck,
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		SerialMs:    cfg.serial.Milliseconds(),
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
		ReportEvery: cfg.reportEvery,
	})

	// Start HTTP status server (optional)
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	hb := &task.Heartbeat{
		Line:     line,
		OnToggle: toggleHook(tracker, reporter, connStatus, cfg.reportEvery),
	}
	specs := taskTable(hb, &task.Serial{}, cfg)

	var gate *boot.Gate
	if cfg.initCheck {
		gate = &boot.Gate{Line: line, Log: log.Default()}
	} else {
		// Legacy boot: configure unconditionally and discard the result,
		// exactly as the gateless firmware did.
		_ = line.ConfigureOutput()
	}

	seq := &boot.Sequencer{Gate: gate, Log: log.Default()}
	if !seq.Boot(specs, boot.NewTicker) {
		if err := reporter.PublishSystem(mqtt.SystemEvent{
			Timestamp: time.Now(),
			Event:     "HALTED",
			Reason:    "init gate failed",
			Retained:  true,
		}); err != nil {
			log.Printf("failed to publish halt event: %v", err)
		}
		log.Printf("initialization failed, halting")
		halt()
	}

	tracker.SetTasks(taskInfos(specs))

	if err := reporter.PublishSystem(mqtt.SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
		Retained:  true,
	}); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	log.Printf("started: line=%s/%d heartbeat=%v serial=%v broker=%q http=%q",
		cfg.binding.Chip, cfg.binding.Offset, cfg.heartbeat, cfg.serial, cfg.broker, cfg.httpAddr)

	// The tasks run until power loss; the process only leaves this point
	// when the service manager asks it to stop.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh

	log.Printf("received %v, shutting down", s)
	if err := reporter.PublishSystem(mqtt.SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    signalName(s),
		Retained:  true,
	}); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	}
	return nil
}

// halt parks the process forever after a failed init gate: a visible
// fail-stop instead of blinking with a misconfigured line.
func halt() {
	select {}
}

// taskTable builds the static task table. The legacy boot (init check
// disabled) predates the serial task, so it gets the heartbeat alone.
func taskTable(hb *task.Heartbeat, ser *task.Serial, cfg config) []boot.TaskSpec {
	specs := []boot.TaskSpec{
		{
			Name:     "heartbeat",
			Priority: task.HeartbeatPriority,
			Interval: cfg.heartbeat,
			Run:      hb.Run,
		},
	}
	if cfg.initCheck {
		specs = append(specs, boot.TaskSpec{
			Name:     "serial",
			Priority: task.SerialPriority,
			Interval: cfg.serial,
			Run:      ser.Run,
		})
	}
	return specs
}

// taskInfos converts the task table into its status representation.
func taskInfos(specs []boot.TaskSpec) []status.TaskInfo {
	infos := make([]status.TaskInfo, 0, len(specs))
	for _, s := range specs {
		infos = append(infos, status.TaskInfo{
			Name:       s.Name,
			Priority:   s.Priority,
			IntervalMs: s.Interval.Milliseconds(),
		})
	}
	return infos
}

// toggleHook feeds the status tracker on every heartbeat toggle and emits
// an MQTT liveness report every reportEvery toggles. Called only from the
// heartbeat goroutine, so the counter needs no locking.
func toggleHook(tracker *status.Tracker, reporter mqtt.Reporter, conn mqtt.ConnectionStatus, reportEvery int) func(active bool) {
	var count int
	return func(active bool) {
		tracker.RecordToggle(active)
		tracker.SetMQTTConnected(conn.IsConnected())

		count++
		if reportEvery <= 0 || count%reportEvery != 0 {
			return
		}
		snap := tracker.Snapshot()
		err := reporter.PublishLiveness(mqtt.LivenessEvent{
			Timestamp:  snap.Now,
			Uptime:     snap.Uptime(),
			Toggles:    snap.Toggles,
			LineActive: active,
		})
		if err != nil {
			log.Printf("liveness publish error: %v", err)
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func readyString(ready bool) string {
	if ready {
		return "READY"
	}
	return "NOT READY"
}
