package models

import "time"

// Event types appended to the device log.
const (
	EventActivate    = "ACTIVATE"
	EventDeactivate  = "DEACTIVATE"
	EventScheduleSet = "SCHEDULE_SET"
	EventVolumeSet   = "VOLUME_SET"
	EventTimeSet     = "TIME_SET"
	EventReset       = "RESET"
	EventSelfTest    = "SELF_TEST"
	EventError       = "ERROR"
)

// AmpEvent is a single log entry.
type AmpEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // one of the Event* constants
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
