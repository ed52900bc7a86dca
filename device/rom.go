package device

import (
	"github.com/ezrec/mcunet/mcu"
)

// Rom replays Data as sensor values, then reads zero.
type Rom struct {
	Data []byte

	index int
}

var _ mcu.Sensor = (*Rom)(nil)

func (rc *Rom) Read() (value byte) {
	if rc.index < len(rc.Data) {
		value = rc.Data[rc.index]
		rc.index++
	}
	return
}

// Remaining returns the count of values not yet read.
func (rc *Rom) Remaining() int {
	return len(rc.Data) - rc.index
}

func (rc *Rom) Rewind() {
	rc.index = 0
}
