package mcu

import (
	"fmt"
	"strings"
)

// Opcode is the operation selector, from the upper nibble of an instruction.
type Opcode byte

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_NOP        = Opcode(0x0) // nop
	OP_INC        = Opcode(0x1) // inc
	OP_PRINT      = Opcode(0x2) // print
	OP_ADD        = Opcode(0x3) // add
	OP_LOADIMM    = Opcode(0x4) // loadimm
	OP_BEQZ       = Opcode(0x5) // beqz
	OP_LOAD       = Opcode(0x6) // load
	OP_SUB        = Opcode(0x7) // sub
	OP_CALL       = Opcode(0x8) // call
	OP_RET        = Opcode(0x9) // ret
	OP_PUSH       = Opcode(0xa) // push
	OP_POP        = Opcode(0xb) // pop
	OP_SENSE      = Opcode(0xc) // sense
	OP_RESERVED_D = Opcode(0xd) // nop
	OP_RESERVED_E = Opcode(0xe) // nop
	OP_RESERVED_F = Opcode(0xf) // nop
)

// OPCODE_COUNT is the size of the opcode space.
const OPCODE_COUNT = 16

// HasAddress returns true if the operand of the opcode is a memory address.
func (op Opcode) HasAddress() bool {
	switch op {
	case OP_BEQZ, OP_LOAD, OP_CALL:
		return true
	}
	return false
}

// Width returns the number of memory bytes the instruction occupies.
func (op Opcode) Width() int {
	if op == OP_LOADIMM {
		return 2
	}
	return 1
}

// LookupOpcode finds the opcode for a mnemonic.
func LookupOpcode(mnemonic string) (op Opcode, ok bool) {
	mnemonic = strings.ToLower(mnemonic)
	for n := range OP_RESERVED_D {
		if n.String() == mnemonic {
			return n, true
		}
	}
	return
}

// Instruction is a single packed instruction byte.
type Instruction byte

// MakeInstruction packs an opcode and a 4-bit operand.
func MakeInstruction(op Opcode, operand byte) Instruction {
	return Instruction((byte(op) << 4) | (operand & 0x0f))
}

// Decode splits an instruction byte into its opcode and operand.
func Decode(value byte) (op Opcode, operand byte) {
	in := Instruction(value)
	return in.Opcode(), in.Operand()
}

// Opcode returns the upper nibble.
func (in Instruction) Opcode() Opcode {
	return Opcode(in >> 4)
}

// Operand returns the lower nibble.
func (in Instruction) Operand() byte {
	return byte(in) & 0x0f
}

// String returns the assembly language form of the instruction.
func (in Instruction) String() string {
	op := in.Opcode()
	operand := in.Operand()
	if op.HasAddress() || operand != 0 {
		return fmt.Sprintf("%v %d", op, operand)
	}
	return op.String()
}
