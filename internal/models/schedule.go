package models

import (
	"fmt"
	"time"
)

// Schedule limits. The device keeps at most MaxWindows activation windows and
// a player volume in [MinVolume, MaxVolume].
const (
	MaxWindows    = 3
	MinVolume     = 0
	MaxVolume     = 30
	DefaultVolume = 15
)

// ScheduleSignature marks a schedule record as written by this firmware
// generation. A stored record with any other signature is treated as
// first-run or corrupt and replaced with defaults.
const ScheduleSignature = 0xAABBCCDD

// TimeWindow is one recurring daily activation interval. All four fields are
// wall-clock components; a window with all fields zero is an empty slot.
type TimeWindow struct {
	StartHour   int `json:"start_hour"`   // 0..23
	StartMinute int `json:"start_minute"` // 0..59
	EndHour     int `json:"end_hour"`     // 0..23
	EndMinute   int `json:"end_minute"`   // 0..59
}

// StartMinutes returns the window start as minutes since midnight.
func (w TimeWindow) StartMinutes() int { return w.StartHour*60 + w.StartMinute }

// EndMinutes returns the window end as minutes since midnight.
func (w TimeWindow) EndMinutes() int { return w.EndHour*60 + w.EndMinute }

// IsZero reports whether every field of the window is zero (an unset slot).
func (w TimeWindow) IsZero() bool {
	return w.StartHour == 0 && w.StartMinute == 0 && w.EndHour == 0 && w.EndMinute == 0
}

// Contains reports whether the given minutes-since-midnight instant falls
// inside the window. Start before end is a same-day interval [start, end).
// Start after end wraps past midnight. Start equal to end matches nothing,
// which also covers the unset all-zero slot.
func (w TimeWindow) Contains(nowMinutes int) bool {
	start, end := w.StartMinutes(), w.EndMinutes()
	switch {
	case start < end:
		return nowMinutes >= start && nowMinutes < end
	case start > end:
		return nowMinutes >= start || nowMinutes < end
	default:
		return false
	}
}

// String renders the window as "HH:MM - HH:MM".
func (w TimeWindow) String() string {
	return fmt.Sprintf("%02d:%02d - %02d:%02d", w.StartHour, w.StartMinute, w.EndHour, w.EndMinute)
}

// Schedule is the whole persisted configuration: the active windows, the
// player volume and the validity signature. It is replaced wholesale on every
// edit and written back to storage synchronously.
type Schedule struct {
	Windows   []TimeWindow `json:"windows"` // at most MaxWindows entries
	Volume    int          `json:"volume"`  // MinVolume..MaxVolume
	Signature uint32       `json:"signature"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// DefaultSchedule is the configuration used on first run or after a
// signature mismatch: no windows, mid-range volume.
func DefaultSchedule() Schedule {
	return Schedule{
		Windows:   nil,
		Volume:    DefaultVolume,
		Signature: ScheduleSignature,
	}
}

// ClampVolume bounds a volume level to the supported range.
func ClampVolume(v int) int {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}
