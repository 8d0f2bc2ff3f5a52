package service

import (
	"context"
	"sync"
	"time"

	"amp_scheduler/internal/hardware"
	"amp_scheduler/internal/logger"
	"amp_scheduler/internal/models"
	"amp_scheduler/internal/repository"
)

const defaultTrack = 1

// AlarmService is the evaluator: once per tick it reads the clock, tests the
// current time of day against the configured windows and, only when the
// resulting state differs from the remembered one, fires the transition
// effects (amplifier, lamp, playback). Repeated polls with an unchanged
// result are side-effect free.
type AlarmService struct {
	schedule scheduleSnapshotter
	events   repository.EventRepo
	amp      hardware.Amplifier
	lamp     hardware.StatusLamp
	player   hardware.Player
	clock    hardware.Clock
	log      *logger.Logger

	selfTest time.Duration
	track    int

	mu     sync.RWMutex
	active bool
	primed bool // hardware driven at least once
}

type scheduleSnapshotter interface {
	Snapshot() models.Schedule
}

func NewAlarmService(schedule scheduleSnapshotter, events repository.EventRepo, devs *hardware.Devices, opts Options, log *logger.Logger) *AlarmService {
	track := opts.Track
	if track < 1 {
		track = defaultTrack
	}
	return &AlarmService{
		schedule: schedule,
		events:   events,
		amp:      devs.Amp,
		lamp:     devs.Lamp,
		player:   devs.Player,
		clock:    devs.Clock,
		log:      log,
		selfTest: opts.SelfTestDuration,
		track:    track,
	}
}

// SelfTest drives the amplifier and playback on for the configured duration,
// then off. It runs once, before the polling loop, and blocks the caller for
// the whole interval.
func (s *AlarmService) SelfTest(ctx context.Context) {
	if s.selfTest <= 0 {
		return
	}
	s.log.Infow("self-test start", "duration", s.selfTest)
	s.driveActive(true)

	t := time.NewTimer(s.selfTest)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}

	s.driveActive(false)
	s.appendEvent(ctx, models.EventSelfTest, "Startup self-test completed",
		map[string]any{"duration_s": int(s.selfTest.Seconds())})
	s.log.Infow("self-test done")
}

// Run polls once immediately, then at every tick until ctx is canceled.
func (s *AlarmService) Run(ctx context.Context, tick time.Duration) {
	s.Poll(ctx)

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Poll(ctx)
		}
	}
}

// Poll reads the clock and re-evaluates the alarm state. Clock read failures
// skip the evaluation; the previous state is kept.
func (s *AlarmService) Poll(ctx context.Context) {
	reading, err := s.clock.Now()
	if err != nil {
		s.log.Errorw("read clock", "err", err)
		return
	}
	s.evaluate(ctx, reading)
}

// Active reports the remembered alarm state.
func (s *AlarmService) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *AlarmService) evaluate(ctx context.Context, reading models.ClockReading) {
	want := shouldBeActive(s.schedule.Snapshot().Windows, reading.Minutes())

	s.mu.Lock()
	changed := want != s.active || !s.primed
	s.active = want
	s.primed = true
	s.mu.Unlock()

	if !changed {
		return
	}

	s.driveActive(want)
	if want {
		s.appendEvent(ctx, models.EventActivate, "Alarm activated",
			map[string]any{"at": reading.TimeString()})
		s.log.Infow("alarm activated", "at", reading.TimeString())
	} else {
		s.appendEvent(ctx, models.EventDeactivate, "Alarm deactivated",
			map[string]any{"at": reading.TimeString()})
		s.log.Infow("alarm deactivated", "at", reading.TimeString())
	}
}

// shouldBeActive tests the instant against the windows in stored order and
// short-circuits on the first match. OR semantics across windows: overlap
// never double-triggers because only the boolean result matters.
func shouldBeActive(windows []models.TimeWindow, nowMinutes int) bool {
	for _, w := range windows {
		if w.Contains(nowMinutes) {
			return true
		}
	}
	return false
}

// driveActive applies the hardware side of a transition: amplifier level,
// lamp color, playback start/stop. Hardware errors are logged and the rest
// of the sequence still runs.
func (s *AlarmService) driveActive(on bool) {
	if err := s.amp.Set(on); err != nil {
		s.log.Errorw("drive amplifier", "err", err, "on", on)
	}
	if err := s.lamp.SetActive(on); err != nil {
		s.log.Errorw("drive status lamp", "err", err, "on", on)
	}
	if on {
		if err := s.player.PlayLoop(s.track); err != nil {
			s.log.Errorw("start playback", "err", err, "track", s.track)
		}
	} else {
		if err := s.player.Stop(); err != nil {
			s.log.Errorw("stop playback", "err", err)
		}
	}
}

func (s *AlarmService) appendEvent(ctx context.Context, typ, desc string, meta map[string]any) {
	err := s.events.Append(ctx, models.AmpEvent{
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Errorw("append event", "err", err, "type", typ)
	}
}
