package emulator

import (
	"errors"
	"strconv"

	"github.com/ezrec/mcunet/translate"
)

var f = translate.From

var (
	ErrMcuInvalid   = errors.New(f("mcu id must be positive"))
	ErrMcuMissing   = errors.New(f("mcu missing"))
	ErrMcuDuplicate = errors.New(f("mcu duplicated"))
)

// ErrRuntime indicates the unit and source line of a runtime error.
type ErrRuntime struct {
	Id     int
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("mcu %v line %v %v", strconv.Itoa(err.Id), strconv.Itoa(err.LineNo), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
