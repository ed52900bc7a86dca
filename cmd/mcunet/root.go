package main

import (
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcunet",
	Short: "Emulator for a network of minimal microcontrollers.",
	Long: `mcunet assembles programs for a minimal 4-bit opcode microcontroller, ` +
		`runs them on a set of units joined by an in-process network, and ` +
		`delivers messages between the units.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
