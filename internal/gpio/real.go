//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealLine drives an LED through the Linux GPIO character device.
// The chip is opened lazily by Ready/ConfigureOutput so that construction
// itself cannot fail; readiness is a separate, observable question.
type RealLine struct {
	binding Binding
	chip    *gpiocdev.Chip
	line    *gpiocdev.Line
	value   int // current logical value (1 = active)
}

// NewRealLine creates a line for actual hardware. No device access happens
// until Ready or ConfigureOutput is called.
func NewRealLine(binding Binding) *RealLine {
	return &RealLine{binding: binding}
}

func (l *RealLine) openChip() error {
	if l.chip != nil {
		return nil
	}
	chip, err := gpiocdev.NewChip(l.binding.Chip, gpiocdev.WithConsumer("heartbeatd"))
	if err != nil {
		return fmt.Errorf("open gpio chip %s: %w", l.binding.Chip, err)
	}
	l.chip = chip
	return nil
}

// Ready reports whether the chip can be opened and the line is visible.
func (l *RealLine) Ready() bool {
	if err := l.openChip(); err != nil {
		return false
	}
	_, err := l.chip.LineInfo(l.binding.Offset)
	return err == nil
}

// ConfigureOutput requests the line as an output driven to the binding's
// initial state.
func (l *RealLine) ConfigureOutput() error {
	if l.line != nil {
		return errors.New("line already configured")
	}
	if err := l.openChip(); err != nil {
		return err
	}

	initial := 0
	if l.binding.InitialActive {
		initial = 1
	}
	opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(initial)}
	if l.binding.ActiveLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}

	line, err := l.chip.RequestLine(l.binding.Offset, opts...)
	if err != nil {
		return fmt.Errorf("request line %d: %w", l.binding.Offset, err)
	}

	l.line = line
	l.value = initial
	return nil
}

// Toggle flips the logical line state. The character device has no toggle
// primitive, so the current value is cached and inverted on each call.
func (l *RealLine) Toggle() error {
	if l.line == nil {
		return errors.New("line not configured")
	}
	l.value ^= 1
	if err := l.line.SetValue(l.value); err != nil {
		return fmt.Errorf("set line %d: %w", l.binding.Offset, err)
	}
	return nil
}

// Active reports the current logical state of the line.
func (l *RealLine) Active() bool {
	return l.value == 1
}

// Close reverts the line to an input before releasing it, so the LED is
// left unlit and the pin matches Pi boot defaults for the next start.
func (l *RealLine) Close() error {
	var errs []error

	if l.line != nil {
		if err := l.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure line: %w", err))
		}
		if err := l.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if l.chip != nil {
		if err := l.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
