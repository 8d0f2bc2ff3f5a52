package service

import (
	"context"
	"time"

	"amp_scheduler/internal/hardware"
	"amp_scheduler/internal/logger"
	"amp_scheduler/internal/models"
	"amp_scheduler/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Schedule owns the in-memory configuration: wholesale window replacement,
// volume changes and read snapshots. Mutations clamp rather than reject and
// persist synchronously; persistence failures are logged, never surfaced.
type Schedule interface {
	Replace(ctx context.Context, windows []models.TimeWindow) models.Schedule
	SetVolume(ctx context.Context, volume int) int
	Snapshot() models.Schedule
}

// Alarm is the evaluator: a one-shot self-test phase, the 1-second polling
// loop, and the current state for status reads.
type Alarm interface {
	SelfTest(ctx context.Context)
	Run(ctx context.Context, tick time.Duration)
	Active() bool
}

// Monitoring exposes the combined status snapshot (clock, state, schedule).
type Monitoring interface {
	Status(ctx context.Context) (models.AmpStatus, error)
}

// DeviceClock writes operator-supplied time to the RTC.
type DeviceClock interface {
	SetTime(ctx context.Context, p TimeParams) (models.ClockReading, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AmpEvent, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Schedule
	Alarm
	Monitoring
	DeviceClock
	EventLog
	Authorization
}

// Options carries the tunables main reads from config.
type Options struct {
	SelfTestDuration time.Duration // amp+playback burn-in before the loop
	Track            int           // track index looped while active
	SigningKey       string        // JWT signing key for the JSON API
}

// NewService wires repositories and hardware into concrete services.
func NewService(repos *repository.Repository, devs *hardware.Devices, opts Options, log *logger.Logger) *Service {
	sched := NewScheduleService(repos.ScheduleRepo, repos.EventRepo, devs.Player, log)
	alarm := NewAlarmService(sched, repos.EventRepo, devs, opts, log)
	return &Service{
		Schedule:      sched,
		Alarm:         alarm,
		Monitoring:    NewMonitoringService(sched, alarm, devs.Clock),
		DeviceClock:   NewDeviceClockService(devs.Clock, repos.EventRepo, log),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, opts.SigningKey),
	}
}

// clampInt bounds v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
