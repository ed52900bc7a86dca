// Package asm implements the assembler and disassembler for the microcontroller
// instruction set.
//
// Source is line oriented. A ';' starts a comment, and a line may start with
// one or more 'label:' definitions. Supported directives are '.equ NAME VALUE'
// and '.byte VALUE...'. Values may be numbers in any Go integer syntax,
// character literals such as 'A', equates, labels, or $(...) compile-time
// expressions, which are evaluated as Starlark with the equates and labels
// defined so far.
//
// Mnemonics are those of the mcu package. The address operand of beqz, load and
// call must fit in 4 bits, and loadimm takes a byte that is stored after the
// instruction.
package asm
