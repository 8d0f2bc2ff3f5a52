package hardware

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"

	"amp_scheduler/internal/models"
)

// PCF8563 / HYM8563 battery-backed RTC on I2C. Time and date registers hold
// BCD values starting at the seconds register; the top bit of the seconds
// register is the voltage-low flag.
const (
	pcf8563Addr = 0x51

	regSeconds = 0x02 // bit7 = VL, bits 6..0 = BCD seconds

	secondsMask = 0x7F
	minutesMask = 0x7F
	hoursMask   = 0x3F
	daysMask    = 0x3F
	monthsMask  = 0x1F
	vlFlag      = 0x80
)

// ErrClockLowVoltage means the RTC lost backup power and its reading cannot
// be trusted until the time is set again.
var ErrClockLowVoltage = fmt.Errorf("rtc reports low voltage, time invalid")

// PCF8563 drives the RTC chip over an I2C connection.
type PCF8563 struct {
	conn conn.Conn
}

// NewPCF8563 wraps an opened I2C device (address 0x51).
func NewPCF8563(c conn.Conn) *PCF8563 {
	return &PCF8563{conn: c}
}

// Now reads the seven clock registers in one transaction.
func (r *PCF8563) Now() (models.ClockReading, error) {
	buf := make([]byte, 7)
	if err := r.conn.Tx([]byte{regSeconds}, buf); err != nil {
		return models.ClockReading{}, fmt.Errorf("read rtc registers: %w", err)
	}
	if buf[0]&vlFlag != 0 {
		return models.ClockReading{}, ErrClockLowVoltage
	}
	return models.ClockReading{
		Second: fromBCD(buf[0] & secondsMask),
		Minute: fromBCD(buf[1] & minutesMask),
		Hour:   fromBCD(buf[2] & hoursMask),
		Day:    fromBCD(buf[3] & daysMask),
		Month:  fromBCD(buf[5] & monthsMask),
		Year:   2000 + fromBCD(buf[6]),
	}, nil
}

// Set writes all seven clock registers, clearing the voltage-low flag.
func (r *PCF8563) Set(t models.ClockReading) error {
	weekday := time.Date(t.Year, time.Month(t.Month), t.Day, 0, 0, 0, 0, time.UTC).Weekday()
	frame := []byte{
		regSeconds,
		toBCD(t.Second), // VL bit left clear
		toBCD(t.Minute),
		toBCD(t.Hour),
		toBCD(t.Day),
		byte(weekday),
		toBCD(t.Month),
		toBCD(t.Year % 100),
	}
	if err := r.conn.Tx(frame, nil); err != nil {
		return fmt.Errorf("write rtc registers: %w", err)
	}
	return nil
}

func toBCD(v int) byte {
	return byte(v/10<<4 | v%10)
}

func fromBCD(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}
