package mqtt

// FakeReporter records published events for test assertions.
type FakeReporter struct {
	// LivenessEvents contains all liveness reports that were published.
	LivenessEvents []LivenessEvent

	// LivenessPayloads contains the JSON payloads for liveness reports.
	LivenessPayloads [][]byte

	// SystemEvents contains all lifecycle events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for lifecycle events.
	SystemPayloads [][]byte

	// PublishError, if set, is returned by PublishLiveness.
	PublishError error

	// PublishSystemError, if set, is returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakeReporter creates a FakeReporter for testing.
func NewFakeReporter() *FakeReporter {
	return &FakeReporter{}
}

// PublishLiveness records the liveness report.
func (f *FakeReporter) PublishLiveness(event LivenessEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.LivenessEvents = append(f.LivenessEvents, event)

	payload, err := FormatLivenessPayload(event)
	if err != nil {
		return err
	}
	f.LivenessPayloads = append(f.LivenessPayloads, payload)
	return nil
}

// PublishSystem records the lifecycle event.
func (f *FakeReporter) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Close marks the reporter as closed.
func (f *FakeReporter) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake reporter is "connected".
func (f *FakeReporter) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakeReporter) Reset() {
	f.LivenessEvents = nil
	f.LivenessPayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
