package asm

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ezrec/mcunet/mcu"
)

// Line is a single disassembled instruction.
type Line struct {
	Pc    int
	Bytes []byte
	Text  string
}

func (line Line) String() string {
	return fmt.Sprintf("%02x: %-8s %v", line.Pc, fmt.Sprintf("% x", line.Bytes), line.Text)
}

// byteDirective renders raw bytes as a .byte directive.
func byteDirective(values []byte) string {
	words := make([]string, len(values))
	for n, value := range values {
		words[n] = fmt.Sprintf("0x%02x", value)
	}
	return ".byte " + strings.Join(words, " ")
}

// Disassemble iterates over the instructions in memory. The text of each line
// assembles back to the same bytes.
func Disassemble(memory []byte) iter.Seq[Line] {
	return func(yield func(line Line) bool) {
		for pc := 0; pc < len(memory); {
			in := mcu.Instruction(memory[pc])
			op := in.Opcode()

			width := op.Width()
			if pc+width > len(memory) {
				width = len(memory) - pc
			}
			line := Line{
				Pc:    pc,
				Bytes: memory[pc : pc+width],
			}

			switch {
			case op == mcu.OP_LOADIMM && width == 2 && in.Operand() == 0:
				line.Text = fmt.Sprintf("%v %d", op, memory[pc+1])
			case op == mcu.OP_LOADIMM, op >= mcu.OP_RESERVED_D:
				line.Text = byteDirective(line.Bytes)
			default:
				line.Text = in.String()
			}

			if !yield(line) {
				return
			}

			pc += width
		}
	}
}
