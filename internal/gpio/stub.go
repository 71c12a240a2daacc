//go:build !linux

package gpio

import "errors"

// RealLine is not available on non-Linux platforms.
type RealLine struct{}

// NewRealLine returns a line whose driver never becomes ready.
func NewRealLine(binding Binding) *RealLine {
	return &RealLine{}
}

// Ready always reports false on non-Linux platforms.
func (l *RealLine) Ready() bool {
	return false
}

// ConfigureOutput is not implemented on non-Linux platforms.
func (l *RealLine) ConfigureOutput() error {
	return errors.New("gpio: not supported on this platform (requires Linux)")
}

// Toggle is not implemented on non-Linux platforms.
func (l *RealLine) Toggle() error {
	return errors.New("gpio: not supported")
}

// Active always reports false on non-Linux platforms.
func (l *RealLine) Active() bool {
	return false
}

// Close is a no-op on non-Linux platforms.
func (l *RealLine) Close() error {
	return nil
}
