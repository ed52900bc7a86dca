package device

import (
	"fmt"
	"io"

	"github.com/ezrec/mcunet/mcu"
)

// Tape is a sensor backed by an io.Reader, and a display backed by an
// io.Writer. Each sense consumes one input byte; once the input is exhausted
// the sensor reads zero.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	exhausted bool
}

var (
	_ mcu.Sensor  = (*Tape)(nil)
	_ mcu.Display = (*Tape)(nil)
)

// Read returns the next input byte.
func (tc *Tape) Read() (value byte) {
	if tc.Input == nil || tc.exhausted {
		return
	}

	var one [1]byte
	_, err := io.ReadFull(tc.Input, one[:])
	if err != nil {
		tc.exhausted = true
		return
	}

	value = one[0]
	return
}

// Print writes a value as a decimal line.
func (tc *Tape) Print(value int) (err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	_, err = fmt.Fprintln(tc.Output, value)
	return
}

// Rewind restarts the input, if it can seek.
func (tc *Tape) Rewind() {
	seeker, ok := tc.Input.(io.Seeker)
	if !ok {
		return
	}

	_, err := seeker.Seek(0, io.SeekStart)
	if err == nil {
		tc.exhausted = false
	}
}
