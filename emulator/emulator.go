// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs a set of networked microcontrollers from assembled
// programs.
package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/mcunet/asm"
	"github.com/ezrec/mcunet/mcu"
	"github.com/ezrec/mcunet/network"
)

var _emulator_defines = map[string]string{
	"OPCODE_COUNT": fmt.Sprintf("%v", mcu.OPCODE_COUNT),
}

// Emulator state. Network + microcontrollers + their program listings.
type Emulator struct {
	Verbose  bool      // If set, enables verbose logging.
	MaxTicks int       // Instruction limit for each run of a unit, or 0.
	Output   io.Writer // If set, print and receipt output of new units.

	Network *network.Network // Network shared by all units.

	units    map[int]*mcu.Mcu
	programs map[int]*asm.Program
}

// NewEmulator creates a new emulator with an empty network.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Network:  network.NewNetwork(),
		units:    make(map[int]*mcu.Mcu),
		programs: make(map[int]*asm.Program),
	}

	return
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := maps.Clone(_emulator_defines)
	maps.Insert(defines, mcu.Defines())
	return maps.All(defines)
}

// Add creates a unit, and registers it on the network.
func (emu *Emulator) Add(id int) (unit *mcu.Mcu, err error) {
	if id <= 0 {
		err = ErrMcuInvalid
		return
	}

	_, ok := emu.units[id]
	if ok {
		err = ErrMcuDuplicate
		return
	}

	unit = mcu.NewMcu(id, emu.Network)
	unit.Verbose = emu.Verbose
	unit.MaxTicks = emu.MaxTicks
	if emu.Output != nil {
		unit.Output = emu.Output
		unit.Display = &mcu.WriterDisplay{Writer: emu.Output}
	}

	emu.units[id] = unit
	emu.Network.Verbose = emu.Verbose
	emu.Network.Register(unit)

	return
}

// Mcu returns the unit with an id.
func (emu *Emulator) Mcu(id int) (unit *mcu.Mcu, err error) {
	unit, ok := emu.units[id]
	if !ok {
		err = ErrMcuMissing
	}
	return
}

// IDs returns the ids of all units, in ascending order.
func (emu *Emulator) IDs() []int {
	return slices.Sorted(maps.Keys(emu.units))
}

// Assemble parses source with the emulator defines available as equates.
func (emu *Emulator) Assemble(source io.Reader) (prog *asm.Program, err error) {
	assembler := &asm.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		assembler.Predefine(key, value)
	}

	return assembler.Parse(source)
}

// Load places a program into the memory of a unit.
func (emu *Emulator) Load(id int, prog *asm.Program) (err error) {
	unit, err := emu.Mcu(id)
	if err != nil {
		return
	}

	err = unit.Load(prog.Binary())
	if err != nil {
		return
	}

	emu.programs[id] = prog

	return
}

// Run executes the program of a unit until it halts or faults.
func (emu *Emulator) Run(id int) (err error) {
	unit, err := emu.Mcu(id)
	if err != nil {
		return
	}

	err = unit.Run()
	if err != nil {
		lineno := 0
		var fault *mcu.ErrFault
		prog := emu.programs[id]
		if prog != nil && errors.As(err, &fault) {
			lineno = prog.LineNo(fault.Pc)
		}
		err = &ErrRuntime{Id: id, LineNo: lineno, Err: err}
		return
	}

	if emu.Verbose {
		log.Printf("emulator: mcu %d halted after %d ticks", id, unit.Ticks)
	}

	return
}

// RunAll runs every unit in ascending id order. A fault in one unit does
// not prevent the others from running; all faults are returned.
func (emu *Emulator) RunAll() (err error) {
	var errs []error
	for _, id := range emu.IDs() {
		errs = append(errs, emu.Run(id))
	}

	return errors.Join(errs...)
}

// Send delivers a message between units. A missing destination is reported,
// and may be ignored.
func (emu *Emulator) Send(source, destination int, message string) error {
	return emu.Network.Send(source, destination, message)
}

// Broadcast delivers a message to all units but the source.
func (emu *Emulator) Broadcast(source int, message string) int {
	return emu.Network.Broadcast(source, message)
}
