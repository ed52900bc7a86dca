// Package mcu implements the execution engine of a minimal microcontroller.
//
// A microcontroller (Mcu) has 256 bytes of memory, four registers (r0-r3), a
// stack, and a program counter (pc). Every instruction is a single byte, with
// the opcode in the upper nibble and a small operand in the lower nibble.
// The loadimm instruction takes its value from the byte that follows it.
//
// Execution starts at pc 0 and stops once the pc runs off the end of memory.
// Stack underflows and out of range addresses are faults, which stop the run
// and leave the machine state in place for inspection.
package mcu
