package ui

import (
	"time"
)

// Bubble Tea messages

// tickMsg drives the poll loop: drain inbound frames, refresh the clock.
type tickMsg time.Time

// connectDoneMsg reports the outcome of a connect (or server switch).
type connectDoneMsg struct {
	url string
	err error
}

// sendDoneMsg reports a failed outbound frame; nil errors are not reported.
type sendDoneMsg struct{ err error }

// closeDoneMsg reports that shutdown teardown finished (or timed out).
type closeDoneMsg struct{}
