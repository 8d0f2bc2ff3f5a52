package hardware

import (
	"fmt"
	"os"
	"sync"
	"time"

	"amp_scheduler/internal/models"
)

// Amplifier switches the power amplifier output.
type Amplifier interface {
	Set(on bool) error
}

// StatusLamp shows the current alarm state (green when active, red when not).
type StatusLamp interface {
	SetActive(on bool) error
}

// Player drives the serial MP3 module.
type Player interface {
	SetVolume(level int) error
	PlayLoop(track int) error
	Stop() error
}

// Clock reads and sets the real-time clock.
type Clock interface {
	Now() (models.ClockReading, error)
	Set(models.ClockReading) error
}

// Devices bundles every hardware collaborator the service needs.
type Devices struct {
	Amp    Amplifier
	Lamp   StatusLamp
	Player Player
	Clock  Clock

	closers []func() error
}

// Close releases any underlying buses or device files.
func (d *Devices) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Config selects the concrete drivers. Mode "gpio" opens real pins and buses
// through periph; anything else yields no-op drivers plus the adjustable
// system clock, which is enough to run and exercise the service on a desktop.
type Config struct {
	Mode         string // "gpio" or "none"
	AmpPin       string // e.g. "GPIO7"
	LampGreenPin string // e.g. "GPIO22"
	LampRedPin   string // e.g. "GPIO23"
	I2CBus       string // empty selects the first available bus
	PlayerDevice string // e.g. "/dev/ttyS1"; empty disables the player
}

// Open builds the device set for the given configuration.
func Open(cfg Config) (*Devices, error) {
	if cfg.Mode != "gpio" {
		return &Devices{
			Amp:    NopAmplifier{},
			Lamp:   NopLamp{},
			Player: NopPlayer{},
			Clock:  NewSystemClock(),
		}, nil
	}
	return openGPIO(cfg)
}

// openPlayerDevice opens the MP3 module's tty and wraps it in a YX5300
// command writer. The module only listens; nothing is read back.
func openPlayerDevice(path string) (Player, func() error, error) {
	if path == "" {
		return NopPlayer{}, nil, nil
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("open player device %q: %w", path, err)
	}
	return NewYX5300(f), f.Close, nil
}

// NopAmplifier ignores all switching requests.
type NopAmplifier struct{}

func (NopAmplifier) Set(bool) error { return nil }

// NopLamp ignores all state changes.
type NopLamp struct{}

func (NopLamp) SetActive(bool) error { return nil }

// NopPlayer ignores all playback commands.
type NopPlayer struct{}

func (NopPlayer) SetVolume(int) error { return nil }
func (NopPlayer) PlayLoop(int) error  { return nil }
func (NopPlayer) Stop() error         { return nil }

// SystemClock serves clock reads from the host clock plus an offset, so that
// set-time requests work without touching the host clock.
type SystemClock struct {
	mu     sync.Mutex
	offset time.Duration
}

func NewSystemClock() *SystemClock { return &SystemClock{} }

func (c *SystemClock) Now() (models.ClockReading, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.ReadingFromTime(time.Now().Add(c.offset)), nil
}

func (c *SystemClock) Set(r models.ClockReading) error {
	want := time.Date(r.Year, time.Month(r.Month), r.Day, r.Hour, r.Minute, r.Second, 0, time.Local)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = time.Until(want)
	return nil
}
