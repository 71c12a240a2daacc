package task

import "time"

// Serial is a placeholder for the future serial protocol loop. It holds
// the second slot in the task table so the two-task boot sequence is
// exercised end to end, but it does no I/O yet.
type Serial struct {
	// Wakes counts loop iterations. Read by tests after Run returns.
	Wakes int
}

// Run wakes once per tick until the channel is closed.
func (s *Serial) Run(tick <-chan time.Time) {
	for range tick {
		// TODO: read frames from the UART once the protocol is defined.
		s.Wakes++
	}
}
