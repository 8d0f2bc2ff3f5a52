package service

import (
	"context"

	"amp_scheduler/internal/hardware"
	"amp_scheduler/internal/logger"
	"amp_scheduler/internal/models"
	"amp_scheduler/internal/repository"
)

// Year bounds accepted by the set-time form.
const (
	minYear = 2024
	maxYear = 2100
)

// DeviceClockService applies operator time settings to the RTC.
type DeviceClockService struct {
	clock  hardware.Clock
	events repository.EventRepo
	log    *logger.Logger
}

func NewDeviceClockService(clock hardware.Clock, events repository.EventRepo, log *logger.Logger) *DeviceClockService {
	return &DeviceClockService{clock: clock, events: events, log: log}
}

// SetTime clamps every field to its calendar/time range and writes the
// result to the clock. The clamped reading is returned even when the
// hardware write fails, so the caller can render what was attempted.
func (s *DeviceClockService) SetTime(ctx context.Context, p TimeParams) (models.ClockReading, error) {
	reading := models.ClockReading{
		Hour:   clampInt(p.Hour, 0, 23),
		Minute: clampInt(p.Minute, 0, 59),
		Second: clampInt(p.Second, 0, 59),
		Day:    clampInt(p.Day, 1, 31),
		Month:  clampInt(p.Month, 1, 12),
		Year:   clampInt(p.Year, minYear, maxYear),
	}

	if err := s.clock.Set(reading); err != nil {
		s.log.Errorw("set rtc", "err", err)
		return reading, err
	}

	err := s.events.Append(ctx, models.AmpEvent{
		Type:        models.EventTimeSet,
		Description: "Clock set to " + reading.DateString() + " " + reading.TimeString(),
	})
	if err != nil {
		s.log.Errorw("append event", "err", err, "type", models.EventTimeSet)
	}
	s.log.Infow("clock set", "time", reading.TimeString(), "date", reading.DateString())
	return reading, nil
}
