// Package device provides sensors and displays to attach to a microcontroller.
// Tape reads sensor values from a byte stream and prints to a text stream;
// Rom replays a fixed list of sensor values.
package device

import (
	"errors"

	"github.com/ezrec/mcunet/translate"
)

var f = translate.From

var (
	// Device errors
	ErrNoOutput = errors.New(f("no output attached"))
)
