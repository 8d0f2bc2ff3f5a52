package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"amp_scheduler/internal/hardware"
	"amp_scheduler/internal/logger"
	"amp_scheduler/internal/models"
	"amp_scheduler/internal/repository"
	"amp_scheduler/internal/service"
)

// Test doubles for the repository and hardware layers. Routing tests run the
// real services on top of these, so the form handlers are exercised
// end-to-end: parse, clamp, compact, persist.

type memScheduleRepo struct {
	stored models.Schedule
	saves  int
}

func (m *memScheduleRepo) Load(ctx context.Context) (models.Schedule, error) {
	return m.stored, nil
}

func (m *memScheduleRepo) Save(ctx context.Context, s models.Schedule) error {
	m.stored = s
	m.saves++
	return nil
}

type memEventRepo struct {
	events []models.AmpEvent

	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *memEventRepo) Append(ctx context.Context, e models.AmpEvent) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.AmpEvent, error) {
	m.lastFrom, m.lastTo, m.lastType = from, to, typ

	var out []models.AmpEvent
	for _, e := range m.events {
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

type memUserRepo struct {
	users  map[string]*models.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}, nextID: 1}
}

func (m *memUserRepo) Create(username, hash string) (int, error) {
	id := m.nextID
	m.nextID++
	m.users[username] = &models.User{ID: id, Username: username, PasswordHash: hash}
	return id, nil
}

func (m *memUserRepo) GetByUsername(username string) (*models.User, error) {
	return m.users[username], nil
}

type testClock struct {
	reading  models.ClockReading
	setCalls []models.ClockReading
}

func (c *testClock) Now() (models.ClockReading, error) { return c.reading, nil }

func (c *testClock) Set(r models.ClockReading) error {
	c.setCalls = append(c.setCalls, r)
	c.reading = r
	return nil
}

type testFixture struct {
	router    *gin.Engine
	services  *service.Service
	schedRepo *memScheduleRepo
	events    *memEventRepo
	clock     *testClock
}

func validStoredSchedule() models.Schedule {
	return models.Schedule{
		Volume:    models.DefaultVolume,
		Signature: models.ScheduleSignature,
	}
}

func newTestFixture(stored models.Schedule) *testFixture {
	gin.SetMode(gin.TestMode)

	schedRepo := &memScheduleRepo{stored: stored}
	clock := &testClock{reading: models.ClockReading{
		Hour: 10, Minute: 30, Second: 0, Day: 15, Month: 6, Year: 2026,
	}}

	events := &memEventRepo{}
	repos := &repository.Repository{
		ScheduleRepo: schedRepo,
		EventRepo:    events,
		Auth:         newMemUserRepo(),
	}
	devs := &hardware.Devices{
		Amp:    hardware.NopAmplifier{},
		Lamp:   hardware.NopLamp{},
		Player: hardware.NopPlayer{},
		Clock:  clock,
	}
	services := service.NewService(repos, devs, service.Options{SigningKey: "test-key"}, logger.Get(logger.ErrorLevel))
	h := NewHandler(services, logger.Get(logger.ErrorLevel))

	return &testFixture{
		router:    h.InitRoutes(),
		services:  services,
		schedRepo: schedRepo,
		events:    events,
		clock:     clock,
	}
}
