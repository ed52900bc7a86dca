package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ezrec/mcunet/asm"
)

var disasmFlags struct {
	hex bool
}

var disasmCmd = &cobra.Command{
	Use:   "disasm FILE",
	Short: "Disassemble a binary image ('-' for stdin).",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisasm,
}

func init() {
	disasmCmd.Flags().BoolVar(&disasmFlags.hex, "hex", false, "Input is whitespace separated hex bytes")

	rootCmd.AddCommand(disasmCmd)
}

func runDisasm(cmd *cobra.Command, args []string) (err error) {
	inf, err := openInput(args[0])
	if err != nil {
		return
	}
	defer inf.Close()

	data, err := io.ReadAll(inf)
	if err != nil {
		return
	}

	if disasmFlags.hex {
		data, err = parseHex(string(data))
		if err != nil {
			return
		}
	}

	out := cmd.OutOrStdout()
	for line := range asm.Disassemble(data) {
		fmt.Fprintln(out, line.String())
	}

	return
}
