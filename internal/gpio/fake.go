package gpio

// FakeLine is a test double recording configuration and toggle history.
type FakeLine struct {
	// NotReady makes Ready report false.
	NotReady bool

	// ConfigureError, if set, is returned by ConfigureOutput.
	ConfigureError error

	// ToggleError, if set, is returned by Toggle (the state still flips,
	// mirroring a driver that applies the write but reports a fault).
	ToggleError error

	// Configured tracks whether ConfigureOutput succeeded.
	Configured bool

	// InitialActive is the state driven by ConfigureOutput.
	InitialActive bool

	// Toggles counts successful and failed Toggle calls.
	Toggles int

	// States records the logical state after each toggle.
	States []bool

	// Closed tracks if Close was called.
	Closed bool

	active bool
}

// NewFakeLine creates a ready, unconfigured fake line.
func NewFakeLine() *FakeLine {
	return &FakeLine{InitialActive: true}
}

// Ready reports the scripted readiness.
func (f *FakeLine) Ready() bool {
	return !f.NotReady
}

// ConfigureOutput marks the line configured and drives the initial state.
func (f *FakeLine) ConfigureOutput() error {
	if f.ConfigureError != nil {
		return f.ConfigureError
	}
	f.Configured = true
	f.active = f.InitialActive
	return nil
}

// Toggle flips the state and records it.
func (f *FakeLine) Toggle() error {
	f.Toggles++
	f.active = !f.active
	f.States = append(f.States, f.active)
	if f.ToggleError != nil {
		return f.ToggleError
	}
	return nil
}

// Active reports the current logical state.
func (f *FakeLine) Active() bool {
	return f.active
}

// Close marks the line as closed.
func (f *FakeLine) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded history.
func (f *FakeLine) Reset() {
	f.Configured = false
	f.Toggles = 0
	f.States = nil
	f.Closed = false
	f.active = false
	f.ConfigureError = nil
	f.ToggleError = nil
	f.NotReady = false
}
