package hardware

import (
	"fmt"
	"io"
	"sync"

	"amp_scheduler/internal/models"
)

// YX5300 speaks the serial command protocol of the YX5300/Catalex MP3
// module: fixed 8-byte frames, no checksum, 9600 8N1 on the wire. The module
// never needs to be read for the commands used here.
const (
	yxFrameStart = 0x7E
	yxVersion    = 0xFF
	yxLength     = 0x06
	yxNoFeedback = 0x00
	yxFrameEnd   = 0xEF

	yxCmdSetVolume = 0x06
	yxCmdLoopTrack = 0x08
	yxCmdStop      = 0x16
)

// YX5300 writes player commands to an opened serial device.
type YX5300 struct {
	mu sync.Mutex
	w  io.Writer
}

// NewYX5300 wraps a writer, typically the module's tty device file.
func NewYX5300(w io.Writer) *YX5300 {
	return &YX5300{w: w}
}

func (p *YX5300) send(cmd byte, param uint16) error {
	frame := []byte{
		yxFrameStart, yxVersion, yxLength,
		cmd, yxNoFeedback,
		byte(param >> 8), byte(param),
		yxFrameEnd,
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.w.Write(frame); err != nil {
		return fmt.Errorf("write player command 0x%02X: %w", cmd, err)
	}
	return nil
}

// SetVolume sets the output level (0..30, clamped).
func (p *YX5300) SetVolume(level int) error {
	return p.send(yxCmdSetVolume, uint16(models.ClampVolume(level)))
}

// PlayLoop starts repeating playback of the given track index.
func (p *YX5300) PlayLoop(track int) error {
	if track < 1 {
		track = 1
	}
	return p.send(yxCmdLoopTrack, uint16(track))
}

// Stop halts playback.
func (p *YX5300) Stop() error {
	return p.send(yxCmdStop, 0)
}
