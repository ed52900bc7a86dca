package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/mcunet/emulator"
)

var asmFlags struct {
	output string
	hex    bool
}

var asmCmd = &cobra.Command{
	Use:   "asm FILE.s",
	Short: "Assemble a program, and print its listing.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsm,
}

func init() {
	flags := asmCmd.Flags()
	flags.StringVarP(&asmFlags.output, "output", "o", "", "Write the binary image to a file")
	flags.BoolVar(&asmFlags.hex, "hex", false, "Print the image as hex bytes instead of a listing")

	rootCmd.AddCommand(asmCmd)
}

func runAsm(cmd *cobra.Command, args []string) (err error) {
	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	prog, err := assembleFile(emu, args[0])
	if err != nil {
		return
	}

	if len(asmFlags.output) != 0 {
		err = os.WriteFile(asmFlags.output, prog.Binary(), 0o644)
		if err != nil {
			return
		}
	}

	out := cmd.OutOrStdout()

	if asmFlags.hex {
		fmt.Fprintf(out, "% x\n", prog.Binary())
		return
	}

	for _, op := range prog.Opcodes {
		fmt.Fprintf(out, "%02x: %-8s %4d  %v\n", op.Pc, fmt.Sprintf("% x", op.Bytes), op.LineNo, strings.Join(op.Words, " "))
	}

	return
}
