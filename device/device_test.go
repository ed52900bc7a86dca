package device

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mcunet/mcu"
)

type failWriter struct{}

var errWrite = errors.New("write failed")

func (failWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

func TestRom_Read(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{0x01, 0x80, 0xff}}
	assert.Equal(3, rom.Remaining())

	assert.Equal(byte(0x01), rom.Read())
	assert.Equal(byte(0x80), rom.Read())
	assert.Equal(byte(0xff), rom.Read())
	assert.Equal(0, rom.Remaining())
	assert.Equal(byte(0), rom.Read())
	assert.Equal(0, rom.Remaining())

	rom.Rewind()
	assert.Equal(3, rom.Remaining())
	assert.Equal(byte(0x01), rom.Read())
}

func TestRom_Empty(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	assert.Equal(byte(0), rom.Read())
	assert.Equal(0, rom.Remaining())
}

func TestTape_Read(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: bytes.NewReader([]byte{7, 8})}
	assert.Equal(byte(7), tape.Read())
	assert.Equal(byte(8), tape.Read())
	assert.Equal(byte(0), tape.Read())
	assert.Equal(byte(0), tape.Read())

	tape.Rewind()
	assert.Equal(byte(7), tape.Read())
}

func TestTape_Read_NoInput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	assert.Equal(byte(0), tape.Read())

	// Not seekable, so rewind does nothing.
	tape = &Tape{Input: io.MultiReader(strings.NewReader("A"))}
	assert.Equal(byte('A'), tape.Read())
	tape.Rewind()
	assert.Equal(byte(0), tape.Read())
}

func TestTape_Print(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	tape := &Tape{Output: out}
	assert.NoError(tape.Print(12))
	assert.NoError(tape.Print(-3))
	assert.Equal("12\n-3\n", out.String())

	tape = &Tape{}
	assert.ErrorIs(tape.Print(1), ErrNoOutput)

	tape = &Tape{Output: failWriter{}}
	assert.ErrorIs(tape.Print(1), errWrite)
}

func TestTape_Mcu(t *testing.T) {
	assert := assert.New(t)

	// sense, print, three times over
	out := &bytes.Buffer{}
	tape := &Tape{Input: bytes.NewReader([]byte{40, 2}), Output: out}

	unit := mcu.NewMcu(1, nil)
	unit.Sensor = tape
	unit.Display = tape
	assert.NoError(unit.Load([]byte{0xc0, 0x20, 0xc0, 0x20, 0xc0, 0x20}))
	assert.NoError(unit.Run())

	assert.Equal("40\n2\n0\n", out.String())
}

func TestRom_Mcu(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{5, 6}}

	unit := mcu.NewMcu(1, nil)
	unit.Sensor = rom
	unit.Display = mcu.DisplayFunc(func(int) error { return nil })
	assert.NoError(unit.Load([]byte{0xc0, 0xa0, 0xc0}))
	assert.NoError(unit.Run())

	assert.Equal(6, unit.Register[0])
	assert.Equal([]int{5}, unit.Stack.Data)
	assert.Equal(0, rom.Remaining())
}
