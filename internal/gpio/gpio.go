// Package gpio provides the heartbeat LED output line with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Line is a single digital output line.
type Line interface {
	// Ready reports whether the underlying driver can service the line.
	Ready() bool

	// ConfigureOutput requests the line as an output and drives it to the
	// binding's initial state. Must be called once, before Toggle.
	ConfigureOutput() error

	// Toggle flips the logical state of the line.
	// Safe only from a single goroutine; the heartbeat task is the sole
	// caller after boot.
	Toggle() error

	// Active reports the current logical state of the line.
	Active() bool

	// Close releases GPIO resources.
	Close() error
}

// Binding identifies one physical output line: its controller, offset and
// polarity. Resolved once at startup and never changed afterwards.
type Binding struct {
	Chip          string // gpiochip device name, e.g. "gpiochip0"
	Offset        int    // line offset on the chip (BCM number on a Pi)
	ActiveLow     bool   // logical active drives the line low
	InitialActive bool   // drive active when first configured
}

// Default heartbeat LED binding (BCM numbering).
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 17
)

// DefaultHeartbeatBinding returns the binding used when no flags override
// it: chip 0, BCM 17, active-high, driven active at boot.
func DefaultHeartbeatBinding() Binding {
	return Binding{
		Chip:          DefaultChip,
		Offset:        DefaultPin,
		InitialActive: true,
	}
}
