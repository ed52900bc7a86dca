package main

import (
	"github.com/spf13/cobra"

	"github.com/ezrec/mcunet/emulator"
)

// demoProgram is inc, inc, loadimm 10, add, print.
var demoProgram = []byte{0x11, 0x11, 0x41, 0x0A, 0x31, 0x21}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a two unit example.",
	Long: `Unit 1 computes and prints 2 + 10, then sends a message to unit 2. ` +
		`Unit 2 runs an empty program.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) (err error) {
	out := cmd.OutOrStdout()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Output = out

	one, err := emu.Add(1)
	if err != nil {
		return
	}
	two, err := emu.Add(2)
	if err != nil {
		return
	}

	err = one.Load(demoProgram)
	if err != nil {
		return
	}

	err = emu.Run(1)
	if err != nil {
		return
	}
	printRegisters(out, one)

	err = one.SendMessage(two.ID(), "Hello from MCU 1")
	if err != nil {
		return
	}

	err = emu.Run(2)
	if err != nil {
		return
	}
	printRegisters(out, two)

	return
}
