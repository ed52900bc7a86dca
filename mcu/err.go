package mcu

import (
	"errors"

	"github.com/ezrec/mcunet/translate"
)

var f = translate.From

var (
	// Load errors
	ErrProgramTooLarge = errors.New(f("program too large"))

	// Execution faults
	ErrAddressOutOfRange = errors.New(f("address out of range"))
	ErrStackUnderflow    = errors.New(f("stack underflow"))
	ErrOpcodeInvalid     = errors.New(f("opcode invalid"))
	ErrTickLimit         = errors.New(f("tick limit reached"))
	ErrHalted            = errors.New(f("halted"))

	// Messaging errors
	ErrNoNetwork = errors.New(f("no network attached"))
)

// ErrFault is a runtime fault, with the location and instruction that caused it.
type ErrFault struct {
	Pc          int
	Instruction Instruction
	Err         error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%02x '%v' %v", err.Pc, err.Instruction.String(), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
