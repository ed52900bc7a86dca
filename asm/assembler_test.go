package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/mcunet/mcu"
)

func parse(t *testing.T, program ...string) (prog *Program, err error) {
	t.Helper()

	asm := &Assembler{}
	asm.Predefine("MEMORY_SIZE", "256")
	return asm.Parse(strings.NewReader(strings.Join(program, "\n")))
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))
	assert.Empty(prog.Binary())
	assert.Equal("0", asm.Equate["LINENO"])
}

func TestAssemblerScenarioA(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"inc 1",
		"inc 1",
		".byte 0x41 10  ; loadimm, with an operand nibble",
		"add 1",
		"print 1",
	}

	prog, err := parse(t, program...)
	require.NoError(t, err)
	assert.Equal([]byte{0x11, 0x11, 0x41, 0x0A, 0x31, 0x21}, prog.Binary())

	prog, err = parse(t, "inc", "inc", "loadimm 10", "add", "print")
	require.NoError(t, err)
	assert.Equal([]byte{0x10, 0x10, 0x40, 0x0A, 0x30, 0x20}, prog.Binary())
}

func TestAssemblerOpcodes(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"nop",
		"INC",
		"print",
		"add",
		"loadimm 0xff",
		"beqz 15",
		"load 3",
		"sub",
		"call 0",
		"ret",
		"push",
		"pop",
		"sense",
	}

	prog, err := parse(t, program...)
	require.NoError(t, err)
	assert.Equal([]byte{
		0x00, 0x10, 0x20, 0x30, 0x40, 0xff, 0x5f, 0x63,
		0x70, 0x80, 0x90, 0xa0, 0xb0, 0xc0,
	}, prog.Binary())
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"      call sub   ; forward reference",
		"      .byte 0    ; skipped by the return",
		"      print",
		"sub:  inc",
		"      ret",
		"data: loadimm sub",
	}

	prog, err := parse(t, program...)
	require.NoError(t, err)

	expected := []Opcode{
		{1, 0, []string{"call", "sub"}, []byte{0x83}, "sub"},
		{2, 1, []string{".byte", "0"}, []byte{0x00}, ""},
		{3, 2, []string{"print"}, []byte{0x20}, ""},
		{4, 3, []string{"inc"}, []byte{0x10}, ""},
		{5, 4, []string{"ret"}, []byte{0x90}, ""},
		{6, 5, []string{"loadimm", "sub"}, []byte{0x40, 0x03}, "sub"},
	}
	assert.Equal(expected, prog.Opcodes)

	dbg := prog.Debug(6)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(6, dbg.LineNo)
		assert.Equal(1, dbg.Index)
	}
	assert.Equal(3, prog.LineNo(2))
	assert.Equal(0, prog.LineNo(7))
	assert.Nil(prog.Debug(100).Opcode)
}

func TestAssemblerLabelOnly(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, "start:", "a: b: inc", "beqz b", "beqz start")
	require.NoError(t, err)
	assert.Equal([]byte{0x10, 0x50, 0x50}, prog.Binary())
}

func TestAssemblerExpressions(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ TEN 10",
		".equ LAST $(MEMORY_SIZE - 1)",
		"loadimm $(TEN * 2 + 1)",
		"loadimm LAST",
		"loadimm 'A'",
		"loadimm '\\n'",
		"here: nop",
		"load $(here & 0xf)",
		"load $(LINENO)",
	}

	prog, err := parse(t, program...)
	require.NoError(t, err)
	assert.Equal([]byte{0x40, 21, 0x40, 255, 0x40, 'A', 0x40, '\n', 0x00, 0x68, 0x69}, prog.Binary())
}

func TestAssemblerCommentInLiteral(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"loadimm ';'   ; a semicolon",
		"loadimm 'x'   ; it's an x",
		"inc ; ';'",
	)
	require.NoError(t, err)
	assert.Equal([]byte{0x40, ';', 0x40, 'x', 0x10}, prog.Binary())
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	far := "      .byte" + strings.Repeat(" 0", 15)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"mnemonic", []string{"inc", "jmp 1"}, 2, ErrMnemonicInvalid},
		{"operand_range", []string{"beqz 16"}, 1, ErrOperandRange},
		{"operand_negative", []string{"inc -1"}, 1, ErrOperandRange},
		{"immediate_range", []string{"loadimm 256"}, 1, ErrImmediateRange},
		{"byte_range", []string{".byte 1 300"}, 1, ErrImmediateRange},
		{"byte_missing", []string{".byte"}, 1, ErrOperandMissing},
		{"operand_missing", []string{"loadimm"}, 1, ErrOperandMissing},
		{"address_missing", []string{"call"}, 1, ErrOperandMissing},
		{"operand_extra", []string{"inc 1 2"}, 1, ErrOperandExtra},
		{"address_extra", []string{"call 1 2"}, 1, ErrOperandExtra},
		{"equ_syntax", []string{".equ A"}, 1, ErrEquateSyntax},
		{"equ_duplicate", []string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{"label_duplicate", []string{"a: inc", "a: inc"}, 2, ErrLabelDuplicate},
		{"label_missing", []string{"inc", "call nowhere", "ret"}, 2, ErrLabelMissing("nowhere")},
		{"label_far", []string{"beqz far", far, "far: ret"}, 1, ErrOperandRange},
		{"number", []string{"inc 0xzz"}, 1, ErrParseNumber("0xzz")},
		{"too_large", []string{".byte" + strings.Repeat(" 1", 255), "loadimm 1"}, 2, mcu.ErrProgramTooLarge},
	}

	for _, entry := range table {
		_, err := parse(t, entry.program...)
		assert.ErrorIs(err, entry.err, entry.name)

		var syntaxErr ErrSyntax
		if assert.ErrorAs(err, &syntaxErr, entry.name) {
			assert.Equal(entry.lineno, syntaxErr.LineNo, entry.name)
		}
	}
}

func TestAssemblerExpressionError(t *testing.T) {
	assert := assert.New(t)

	_, err := parse(t, "inc", "loadimm $(1 +)")

	var exprErr ErrParseExpression
	assert.True(errors.As(err, &exprErr))
	assert.Equal(ErrParseExpression("1 +"), exprErr)

	_, err = parse(t, "loadimm $(\"x\")")
	assert.True(errors.As(err, &exprErr))
}

func TestAssemblerFull(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, strings.Repeat("inc\n", mcu.MEMORY_SIZE))
	assert.NoError(err)
	assert.Len(prog.Binary(), mcu.MEMORY_SIZE)
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	first, err := asm.Parse(strings.NewReader("x: inc\nbeqz x"))
	require.NoError(t, err)

	second, err := asm.Parse(strings.NewReader("ret"))
	require.NoError(t, err)

	assert.Equal([]byte{0x10, 0x50}, first.Binary())
	assert.Equal([]byte{0x90}, second.Binary())
	_, ok := asm.Label["x"]
	assert.False(ok)
}
