package models

import (
	"fmt"
	"time"
)

// ClockReading is one sample of the RTC, local device time.
type ClockReading struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
	Day    int `json:"day"`
	Month  int `json:"month"`
	Year   int `json:"year"`
}

// Minutes returns the reading's time of day as minutes since midnight.
func (c ClockReading) Minutes() int { return c.Hour*60 + c.Minute }

// TimeString renders "HH:MM:SS".
func (c ClockReading) TimeString() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// DateString renders "DD/MM/YYYY".
func (c ClockReading) DateString() string {
	return fmt.Sprintf("%02d/%02d/%04d", c.Day, c.Month, c.Year)
}

// ReadingFromTime converts a time.Time into a ClockReading.
func ReadingFromTime(t time.Time) ClockReading {
	return ClockReading{
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
		Day:    t.Day(),
		Month:  int(t.Month()),
		Year:   t.Year(),
	}
}

// AmpStatus is the current snapshot of the installation: clock reading,
// alarm state and the live schedule.
type AmpStatus struct {
	Active    bool         `json:"active"`
	Volume    int          `json:"volume"`
	Windows   []TimeWindow `json:"windows"`
	Clock     ClockReading `json:"clock"`
	UpdatedAt time.Time    `json:"updated_at"`
}
