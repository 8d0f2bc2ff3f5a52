package service

import (
	"context"
	"time"

	"amp_scheduler/internal/hardware"
	"amp_scheduler/internal/models"
)

type activeReporter interface {
	Active() bool
}

// MonitoringService assembles the status snapshot served by the web page,
// the JSON API and the websocket push.
type MonitoringService struct {
	schedule scheduleSnapshotter
	alarm    activeReporter
	clock    hardware.Clock
}

func NewMonitoringService(schedule scheduleSnapshotter, alarm activeReporter, clock hardware.Clock) *MonitoringService {
	return &MonitoringService{schedule: schedule, alarm: alarm, clock: clock}
}

// Status returns the current clock reading, alarm state and live schedule.
func (s *MonitoringService) Status(ctx context.Context) (models.AmpStatus, error) {
	reading, err := s.clock.Now()
	if err != nil {
		return models.AmpStatus{}, err
	}
	sched := s.schedule.Snapshot()
	return models.AmpStatus{
		Active:    s.alarm.Active(),
		Volume:    sched.Volume,
		Windows:   sched.Windows,
		Clock:     reading,
		UpdatedAt: time.Now().UTC(),
	}, nil
}
