package hardware

// Real drivers behind periph. The amplifier input is active-low: driving the
// pin low powers the amp, matching the board wiring this replaces.

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// openGPIO initialises periph and resolves every configured pin, bus and
// device file. Any missing piece is an error: a half-wired device must not
// come up looking healthy.
func openGPIO(cfg Config) (*Devices, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	ampPin := gpioreg.ByName(cfg.AmpPin)
	if ampPin == nil {
		return nil, fmt.Errorf("amplifier pin %q not found", cfg.AmpPin)
	}
	green := gpioreg.ByName(cfg.LampGreenPin)
	if green == nil {
		return nil, fmt.Errorf("lamp pin %q not found", cfg.LampGreenPin)
	}
	red := gpioreg.ByName(cfg.LampRedPin)
	if red == nil {
		return nil, fmt.Errorf("lamp pin %q not found", cfg.LampRedPin)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.I2CBus, err)
	}

	devs := &Devices{
		Amp:     &gpioAmplifier{pin: ampPin},
		Lamp:    &gpioLamp{green: green, red: red},
		Clock:   NewPCF8563(&i2c.Dev{Addr: pcf8563Addr, Bus: bus}),
		closers: []func() error{bus.Close},
	}

	player, closePlayer, err := openPlayerDevice(cfg.PlayerDevice)
	if err != nil {
		_ = devs.Close()
		return nil, err
	}
	devs.Player = player
	if closePlayer != nil {
		devs.closers = append(devs.closers, closePlayer)
	}

	// Park outputs in the inactive position before the first evaluation.
	if err := devs.Amp.Set(false); err != nil {
		_ = devs.Close()
		return nil, fmt.Errorf("park amplifier pin: %w", err)
	}
	if err := devs.Lamp.SetActive(false); err != nil {
		_ = devs.Close()
		return nil, fmt.Errorf("park lamp pins: %w", err)
	}
	return devs, nil
}

type gpioAmplifier struct {
	pin gpio.PinOut
}

// Set drives the pin low to power the amplifier, high to cut it.
func (a *gpioAmplifier) Set(on bool) error {
	level := gpio.High
	if on {
		level = gpio.Low
	}
	return a.pin.Out(level)
}

type gpioLamp struct {
	green gpio.PinOut
	red   gpio.PinOut
}

// SetActive lights green when active, red when inactive.
func (l *gpioLamp) SetActive(on bool) error {
	if err := l.green.Out(gpio.Level(on)); err != nil {
		return err
	}
	return l.red.Out(gpio.Level(!on))
}
