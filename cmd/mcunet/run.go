package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezrec/mcunet/device"
	"github.com/ezrec/mcunet/emulator"
	"github.com/ezrec/mcunet/network"
)

var runFlags struct {
	nodes      []string
	sensors    []string
	sends      []string
	broadcasts []string
	maxTicks   int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Assemble and run programs on networked microcontrollers.",
	Example: `  mcunet run -n 1=count.s -n 2=idle.s --send 1:2:hello
  mcunet run -n 1=probe.s -s 1=readings.bin --broadcast 1:done`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	flags := runCmd.Flags()
	flags.StringArrayVarP(&runFlags.nodes, "node", "n", nil, "Unit program, as ID=FILE.s")
	flags.StringArrayVarP(&runFlags.sensors, "sensor", "s", nil, "Unit sensor input, as ID=FILE ('-' for stdin)")
	flags.StringArrayVar(&runFlags.sends, "send", nil, "Message to send after the run, as SRC:DST:TEXT")
	flags.StringArrayVar(&runFlags.broadcasts, "broadcast", nil, "Message to broadcast after the run, as SRC:TEXT")
	flags.IntVar(&runFlags.maxTicks, "max-ticks", 1_000_000, "Instruction limit for each unit, 0 for none")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) (err error) {
	out := cmd.OutOrStdout()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.MaxTicks = runFlags.maxTicks
	emu.Output = out

	for _, node := range runFlags.nodes {
		id, path, err := splitAssignment(node)
		if err != nil {
			return err
		}

		prog, err := assembleFile(emu, path)
		if err != nil {
			return err
		}

		_, err = emu.Add(id)
		if err != nil {
			return err
		}

		err = emu.Load(id, prog)
		if err != nil {
			return err
		}
	}

	for _, sensor := range runFlags.sensors {
		id, path, err := splitAssignment(sensor)
		if err != nil {
			return err
		}

		unit, err := emu.Mcu(id)
		if err != nil {
			return err
		}

		inf, err := openInput(path)
		if err != nil {
			return err
		}
		defer inf.Close()

		unit.Sensor = &device.Tape{Input: inf}
	}

	runErr := emu.RunAll()

	for _, id := range emu.IDs() {
		unit, _ := emu.Mcu(id)
		printRegisters(out, unit)
		if verbose {
			fmt.Fprint(out, unit.String())
		}
	}

	if runErr != nil {
		return runErr
	}

	for _, send := range runFlags.sends {
		ids, message, err := splitMessage(send, 2)
		if err != nil {
			return err
		}

		// A missing destination is logged, and does not stop the run.
		err = emu.Send(ids[0], ids[1], message)
		if err != nil && !errors.Is(err, network.ErrDestinationNotFound) {
			return err
		}
	}

	for _, broadcast := range runFlags.broadcasts {
		ids, message, err := splitMessage(broadcast, 1)
		if err != nil {
			return err
		}

		emu.Broadcast(ids[0], message)
	}

	return
}
