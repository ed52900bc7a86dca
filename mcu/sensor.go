package mcu

import (
	"fmt"
	"io"
)

// Sensor is the external value source read by the sense instruction.
type Sensor interface {
	// Read returns the current sensor value.
	Read() byte
}

// SensorFunc adapts a function to a Sensor.
type SensorFunc func() byte

func (fn SensorFunc) Read() byte {
	return fn()
}

// NullSensor always reads zero.
type NullSensor struct{}

func (NullSensor) Read() byte {
	return 0
}

// Display is the observation sink for the print instruction.
type Display interface {
	// Print emits a register value.
	Print(value int) error
}

// DisplayFunc adapts a function to a Display.
type DisplayFunc func(value int) error

func (fn DisplayFunc) Print(value int) error {
	return fn(value)
}

// WriterDisplay prints one decimal value per line to a writer.
type WriterDisplay struct {
	Writer io.Writer
}

func (wd *WriterDisplay) Print(value int) (err error) {
	_, err = fmt.Fprintln(wd.Writer, value)
	return
}
