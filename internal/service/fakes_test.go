package service

import (
	"context"
	"testing"
	"time"

	"amp_scheduler/internal/logger"
	"amp_scheduler/internal/models"
)

type fakeScheduleRepo struct {
	loadResp   models.Schedule
	loadErr    error
	saveErr    error
	savedCalls []models.Schedule
}

func (f *fakeScheduleRepo) Load(ctx context.Context) (models.Schedule, error) {
	return f.loadResp, f.loadErr
}

func (f *fakeScheduleRepo) Save(ctx context.Context, s models.Schedule) error {
	f.savedCalls = append(f.savedCalls, s)
	return f.saveErr
}

type fakeEventRepo struct {
	appendErr error
	events    []models.AmpEvent
	listErr   error
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.AmpEvent) error {
	f.events = append(f.events, e)
	return f.appendErr
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.AmpEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.AmpEvent
	for _, e := range f.events {
		if !from.IsZero() && e.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.OccurredAt.After(to) {
			continue
		}
		if typ == "" || e.Type == typ {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) byType(typ string) []models.AmpEvent {
	var out []models.AmpEvent
	for _, e := range f.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type fakePlayer struct {
	volumes []int
	loops   []int
	stops   int
	err     error
}

func (f *fakePlayer) SetVolume(level int) error {
	f.volumes = append(f.volumes, level)
	return f.err
}

func (f *fakePlayer) PlayLoop(track int) error {
	f.loops = append(f.loops, track)
	return f.err
}

func (f *fakePlayer) Stop() error {
	f.stops++
	return f.err
}

type fakeAmplifier struct {
	sets []bool
	err  error
}

func (f *fakeAmplifier) Set(on bool) error {
	f.sets = append(f.sets, on)
	return f.err
}

type fakeLamp struct {
	sets []bool
}

func (f *fakeLamp) SetActive(on bool) error {
	f.sets = append(f.sets, on)
	return nil
}

type fakeClock struct {
	reading  models.ClockReading
	nowErr   error
	setCalls []models.ClockReading
	setErr   error
}

func (f *fakeClock) Now() (models.ClockReading, error) {
	return f.reading, f.nowErr
}

func (f *fakeClock) Set(r models.ClockReading) error {
	f.setCalls = append(f.setCalls, r)
	return f.setErr
}

// stubSchedule satisfies the snapshot dependency of the evaluator without a
// full ScheduleService.
type stubSchedule struct {
	snap models.Schedule
}

func (s *stubSchedule) Snapshot() models.Schedule { return s.snap }

func testLogger() *logger.Logger { return logger.Get(logger.ErrorLevel) }

func lastSavedSchedule(t *testing.T, f *fakeScheduleRepo) models.Schedule {
	t.Helper()
	if len(f.savedCalls) == 0 {
		t.Fatalf("expected at least one Save call")
	}
	return f.savedCalls[len(f.savedCalls)-1]
}
