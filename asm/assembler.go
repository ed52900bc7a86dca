// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/mcunet/mcu"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Assembler is a two pass assembler for the microcontroller. The first pass
// expands and encodes each line, the second links label references.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string
	Label     map[string]int    // Map of labels to memory addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	for key, pc := range asm.Label {
		pred[key] = starlark.MakeInt(pc)
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// stripComment removes a ';' comment. A ';' inside a character literal
// does not start a comment.
func stripComment(text string) string {
	literals := reCharacter.FindAllStringIndex(text, -1)

	for n, ch := range text {
		if ch != ';' {
			continue
		}

		quoted := false
		for _, span := range literals {
			if n > span[0] && n < span[1]-1 {
				quoted = true
				break
			}
		}
		if !quoted {
			return text[:n]
		}
	}

	return text
}

// parseLine expands a single line into words, and handles labels and equates.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reIdentifier.MatchString(label) {
			err = ErrParseNumber(label)
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentPc gets the address of the next opcode.
func (asm *Assembler) currentPc() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Pc + len(last.Bytes)
}

// operand resolves a word to a value in [0, limit], or to a label to link.
func (asm *Assembler) operand(word string, limit int, rangeErr error) (value int, label string, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		if !reIdentifier.MatchString(word) {
			return
		}
		// Resolved once all labels are known.
		err = nil
		value = 0
		label = word
		return
	}

	if value < 0 || value > limit {
		err = rangeErr
	}

	return
}

// parseWords assembles the words of a line into an opcode.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	op := Opcode{
		LineNo: lineno,
		Pc:     asm.currentPc(),
		Words:  words,
	}

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	if mnemonic == ".byte" {
		if len(args) == 0 {
			err = ErrOperandMissing
			return
		}
		for _, arg := range args {
			var value int
			value, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			if value < 0 || value > 0xff {
				err = ErrImmediateRange
				return
			}
			op.Bytes = append(op.Bytes, byte(value))
		}
	} else {
		code, ok := mcu.LookupOpcode(mnemonic)
		if !ok {
			err = ErrMnemonicInvalid
			return
		}

		switch {
		case code == mcu.OP_LOADIMM:
			if len(args) == 0 {
				err = ErrOperandMissing
				return
			}
			if len(args) > 1 {
				err = ErrOperandExtra
				return
			}
			var value int
			value, op.LinkLabel, err = asm.operand(args[0], 0xff, ErrImmediateRange)
			if err != nil {
				return
			}
			op.Bytes = []byte{byte(mcu.MakeInstruction(code, 0)), byte(value)}
		case code.HasAddress():
			if len(args) == 0 {
				err = ErrOperandMissing
				return
			}
			if len(args) > 1 {
				err = ErrOperandExtra
				return
			}
			var value int
			value, op.LinkLabel, err = asm.operand(args[0], 0xf, ErrOperandRange)
			if err != nil {
				return
			}
			op.Bytes = []byte{byte(mcu.MakeInstruction(code, byte(value)))}
		default:
			if len(args) > 1 {
				err = ErrOperandExtra
				return
			}
			var value int
			if len(args) == 1 {
				value, err = asm.valueOf(args[0])
				if err != nil {
					return
				}
				if value < 0 || value > 0xf {
					err = ErrOperandRange
					return
				}
			}
			op.Bytes = []byte{byte(mcu.MakeInstruction(code, byte(value)))}
		}
	}

	if op.Pc+len(op.Bytes) > mcu.MEMORY_SIZE {
		err = mcu.ErrProgramTooLarge
		return
	}

	if asm.Verbose {
		log.Printf("asm: %02x: % x %v", op.Pc, op.Bytes, words)
	}

	asm.Opcode = append(asm.Opcode, op)

	return
}

// link patches label references into the opcodes.
func (asm *Assembler) link() (err error) {
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		if len(op.LinkLabel) == 0 {
			continue
		}

		pc, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
		} else if mcu.Instruction(op.Bytes[0]).Opcode() == mcu.OP_LOADIMM {
			op.Bytes[1] = byte(pc)
		} else if pc > 0xf {
			err = errors.Join(ErrOperandRange, ErrLabelMissing(op.LinkLabel))
		} else {
			op.Bytes[0] = byte(mcu.MakeInstruction(mcu.Instruction(op.Bytes[0]).Opcode(), byte(pc)))
		}

		if err != nil {
			err = ErrSyntax{LineNo: op.LineNo, Line: strings.Join(op.Words, " "), Err: err}
			return
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			var syntaxErr ErrSyntax
			if !errors.As(err, &syntaxErr) {
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			}
		}
	}()

	asm.Opcode = nil
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	err = asm.link()
	if err != nil {
		return
	}

	prog = &Program{
		Opcodes: asm.Opcode,
	}

	return
}
