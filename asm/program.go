package asm

import (
	"iter"
)

// Opcode is a line of assembled code with its source location and bytes.
type Opcode struct {
	LineNo    int
	Pc        int
	Words     []string
	Bytes     []byte
	LinkLabel string
}

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the opcode that assembled a memory address.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode containing pc. The Opcode is nil if pc is not
// part of the program.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= op.Pc && pc < op.Pc+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  pc - op.Pc,
			}
			break
		}
	}

	return
}

// LineNo returns the source line of the opcode at pc, or 0 if none.
func (prog *Program) LineNo(pc int) int {
	dbg := prog.Debug(pc)
	if dbg.Opcode == nil {
		return 0
	}
	return dbg.LineNo
}

// Binary returns the program memory image.
func (prog *Program) Binary() (bins []byte) {
	for _, value := range prog.Bytes() {
		bins = append(bins, value)
	}

	return
}

// Bytes iterates over the program bytes and their addresses.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(pc int, value byte) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(op.Pc+n, value) {
					return
				}
			}
		}
	}
}
