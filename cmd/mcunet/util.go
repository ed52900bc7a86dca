package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/mcunet/asm"
	"github.com/ezrec/mcunet/emulator"
	"github.com/ezrec/mcunet/mcu"
	"github.com/ezrec/mcunet/translate"
)

// splitAssignment splits 'ID=VALUE'.
func splitAssignment(text string) (id int, value string, err error) {
	key, value, ok := strings.Cut(text, "=")
	if !ok {
		err = fmt.Errorf("'%v' is not ID=VALUE", text)
		return
	}

	id, err = strconv.Atoi(key)
	if err != nil {
		err = fmt.Errorf("'%v': %w", text, err)
	}
	return
}

// splitMessage splits 'ID:ID:...:TEXT' into count ids and the message text.
func splitMessage(text string, count int) (ids []int, message string, err error) {
	parts := strings.SplitN(text, ":", count+1)
	if len(parts) != count+1 {
		err = fmt.Errorf("'%v' has too few fields", text)
		return
	}

	for _, part := range parts[:count] {
		var id int
		id, err = strconv.Atoi(part)
		if err != nil {
			err = fmt.Errorf("'%v': %w", text, err)
			return
		}
		ids = append(ids, id)
	}

	message = parts[count]
	return
}

// openInput opens a file, or stdin for '-'.
func openInput(path string) (inf io.ReadCloser, err error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

// assembleFile assembles a source file.
func assembleFile(emu *emulator.Emulator, path string) (prog *asm.Program, err error) {
	inf, err := openInput(path)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = emu.Assemble(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}
	return
}

// parseHex parses whitespace separated hex bytes.
func parseHex(text string) (data []byte, err error) {
	for _, word := range strings.Fields(text) {
		var value uint64
		value, err = strconv.ParseUint(strings.TrimPrefix(word, "0x"), 16, 8)
		if err != nil {
			return
		}
		data = append(data, byte(value))
	}

	return
}

// printRegisters writes the register dump of a unit. Numbers are
// preformatted so the locale does not group their digits.
func printRegisters(out io.Writer, unit *mcu.Mcu) {
	translate.Fprintf(out, "MCU %v Registers: %v\n", strconv.Itoa(unit.ID()), fmt.Sprint(unit.Register))
}
