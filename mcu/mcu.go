// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package mcu

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"
	"strconv"

	"github.com/ezrec/mcunet/translate"
)

const (
	MEMORY_SIZE    = 256 // Bytes of program memory.
	REGISTER_COUNT = 4   // Size of the register bank.
)

var _mcu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%v", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
}

// Router delivers messages between microcontrollers.
type Router interface {
	// Send delivers a message from source to destination.
	Send(source, destination int, message string) error
	// Broadcast delivers a message to everyone but the source.
	Broadcast(source int, message string) int
}

// Mcu is the simulation context of a single microcontroller.
type Mcu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   [MEMORY_SIZE]byte   // Program and data memory.
	Register [REGISTER_COUNT]int // Register bank.
	Stack    Stack               // Call and data stack.
	Pc       int                 // Program counter of the current, or last, run.

	Ticks    int // Instructions executed by the current, or last, run.
	MaxTicks int // If non-zero, the instruction limit of a run.

	Sensor   Sensor                            // Source for sense, or zero if nil.
	Display  Display                           // Sink for print, or stdout if nil.
	Receiver func(source int, message string) // Message receipt, or a record to Output if nil.
	Output   io.Writer                         // Receipt record output, or stdout if nil.
	Network  Router                            // Network used to send messages.

	id int
}

// NewMcu creates a new microcontroller.
//
// NewMcu panics if id is not positive. Callers holding untrusted ids should
// validate them first, as emulator.Emulator.Add does.
func NewMcu(id int, network Router) (mcu *Mcu) {
	if id <= 0 {
		panic(fmt.Sprintf("mcu: id %d is not positive", id))
	}

	mcu = &Mcu{
		Network: network,
		id:      id,
	}

	return
}

// ID returns the network identifier.
func (mcu *Mcu) ID() int {
	return mcu.id
}

// Defines returns the assembler equates for the mcu.
func Defines() iter.Seq2[string, string] {
	return maps.All(_mcu_defines)
}

// String returns the current state as a string.
func (mcu *Mcu) String() (text string) {
	text += fmt.Sprintf("% 5s: %d\n", "id", mcu.id)
	text += fmt.Sprintf("% 5s: 0x%02x\n", "pc", mcu.Pc)
	text += fmt.Sprintf("% 5s: %d\n", "ticks", mcu.Ticks)
	for n, val := range mcu.Register {
		text += fmt.Sprintf("% 5s: %d\n", fmt.Sprintf("r%d", n), val)
	}
	val, ok := mcu.Stack.Peek()
	if ok {
		text += fmt.Sprintf("% 5s: %d (depth %d)\n", "stack", val, mcu.Stack.Depth())
	} else {
		text += fmt.Sprintf("% 5s: -\n", "stack")
	}

	return
}

// Reset clears the registers, stack and run state. Memory is kept.
func (mcu *Mcu) Reset() {
	if mcu.Verbose {
		log.Printf("mcu %d: reset", mcu.id)
	}

	clear(mcu.Register[:])
	mcu.Stack.Reset()
	mcu.Pc = 0
	mcu.Ticks = 0
}

// Load copies a program into memory, starting at address 0.
// Memory past the end of the program is left unchanged.
func (mcu *Mcu) Load(program []byte) (err error) {
	if len(program) > len(mcu.Memory) {
		err = ErrProgramTooLarge
		return
	}

	copy(mcu.Memory[:], program)

	if mcu.Verbose {
		log.Printf("mcu %d: loaded %d bytes", mcu.id, len(program))
	}

	return
}

// Halted returns true once the program counter has left memory.
func (mcu *Mcu) Halted() bool {
	return mcu.Pc >= len(mcu.Memory)
}

// Run executes from address 0 until the program counter leaves memory,
// or a fault occurs.
func (mcu *Mcu) Run() (err error) {
	mcu.Pc = 0
	mcu.Ticks = 0

	for !mcu.Halted() {
		if mcu.MaxTicks > 0 && mcu.Ticks >= mcu.MaxTicks {
			err = &ErrFault{
				Pc:          mcu.Pc,
				Instruction: Instruction(mcu.Memory[mcu.Pc]),
				Err:         ErrTickLimit,
			}
			return
		}

		err = mcu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Tick executes the single instruction at the program counter.
func (mcu *Mcu) Tick() (err error) {
	if mcu.Halted() {
		err = ErrHalted
		return
	}

	pc := mcu.Pc
	in := Instruction(mcu.Memory[pc])

	if mcu.Verbose {
		log.Printf("mcu %d: %02x: %v", mcu.id, pc, in)
	}

	next, err := mcu.Execute(in.Opcode(), in.Operand(), pc)
	if err != nil {
		err = &ErrFault{Pc: pc, Instruction: in, Err: err}
		return
	}

	mcu.Pc = next
	mcu.Ticks++

	return
}

type execFunc func(mcu *Mcu, operand byte, pc int) (next int, err error)

// execTable dispatches on the opcode. Empty slots are no-ops.
var execTable = [OPCODE_COUNT]execFunc{
	OP_INC:     (*Mcu).execInc,
	OP_PRINT:   (*Mcu).execPrint,
	OP_ADD:     (*Mcu).execAdd,
	OP_LOADIMM: (*Mcu).execLoadImm,
	OP_BEQZ:    (*Mcu).execBeqz,
	OP_LOAD:    (*Mcu).execLoad,
	OP_SUB:     (*Mcu).execSub,
	OP_CALL:    (*Mcu).execCall,
	OP_RET:     (*Mcu).execRet,
	OP_PUSH:    (*Mcu).execPush,
	OP_POP:     (*Mcu).execPop,
	OP_SENSE:   (*Mcu).execSense,
}

// Execute performs a single decoded instruction located at pc, and returns
// the address of the next instruction.
func (mcu *Mcu) Execute(op Opcode, operand byte, pc int) (next int, err error) {
	if int(op) >= len(execTable) {
		err = ErrOpcodeInvalid
		return
	}

	exec := execTable[op]
	if exec == nil {
		next = pc + 1
		return
	}

	return exec(mcu, operand, pc)
}

func (mcu *Mcu) execInc(operand byte, pc int) (next int, err error) {
	mcu.Register[0]++
	return pc + 1, nil
}

func (mcu *Mcu) execPrint(operand byte, pc int) (next int, err error) {
	display := mcu.Display
	if display == nil {
		display = &WriterDisplay{Writer: os.Stdout}
	}

	err = display.Print(mcu.Register[0])
	if err != nil {
		return
	}

	return pc + 1, nil
}

func (mcu *Mcu) execAdd(operand byte, pc int) (next int, err error) {
	mcu.Register[0] += mcu.Register[1]
	return pc + 1, nil
}

func (mcu *Mcu) execLoadImm(operand byte, pc int) (next int, err error) {
	addr := pc + 1
	if addr < 0 || addr >= len(mcu.Memory) {
		err = ErrAddressOutOfRange
		return
	}

	mcu.Register[1] = int(mcu.Memory[addr])
	return pc + 2, nil
}

func (mcu *Mcu) execBeqz(operand byte, pc int) (next int, err error) {
	if mcu.Register[0] == 0 {
		return int(operand), nil
	}
	return pc + 1, nil
}

func (mcu *Mcu) execLoad(operand byte, pc int) (next int, err error) {
	mcu.Register[0] = int(mcu.Memory[operand])
	return pc + 1, nil
}

func (mcu *Mcu) execSub(operand byte, pc int) (next int, err error) {
	mcu.Register[0] -= mcu.Register[1]
	return pc + 1, nil
}

func (mcu *Mcu) execCall(operand byte, pc int) (next int, err error) {
	mcu.Stack.Push(pc + 2)
	return int(operand), nil
}

func (mcu *Mcu) execRet(operand byte, pc int) (next int, err error) {
	addr, ok := mcu.Stack.Peek()
	if !ok {
		err = ErrStackUnderflow
		return
	}

	// A return below memory would break the pc invariant.
	if addr < 0 {
		err = errors.Join(ErrAddressOutOfRange, fmt.Errorf("return to %d", addr))
		return
	}

	mcu.Stack.Pop()
	return addr, nil
}

func (mcu *Mcu) execPush(operand byte, pc int) (next int, err error) {
	mcu.Stack.Push(mcu.Register[0])
	return pc + 1, nil
}

func (mcu *Mcu) execPop(operand byte, pc int) (next int, err error) {
	value, ok := mcu.Stack.Pop()
	if !ok {
		err = ErrStackUnderflow
		return
	}

	mcu.Register[0] = value
	return pc + 1, nil
}

func (mcu *Mcu) execSense(operand byte, pc int) (next int, err error) {
	var value byte
	if mcu.Sensor != nil {
		value = mcu.Sensor.Read()
	}

	mcu.Register[0] = int(value)
	return pc + 1, nil
}

// ReceiveMessage observes a message delivered by the network.
func (mcu *Mcu) ReceiveMessage(source int, message string) {
	if mcu.Verbose {
		log.Printf("mcu %d: message from %d: %q", mcu.id, source, message)
	}

	if mcu.Receiver != nil {
		mcu.Receiver(source, message)
		return
	}

	out := mcu.Output
	if out == nil {
		out = os.Stdout
	}

	// Identifiers are preformatted so the locale does not group their digits.
	translate.Fprintf(out, "MCU %v received from %v: %v\n", strconv.Itoa(mcu.id), strconv.Itoa(source), message)
}

// SendMessage sends a message to another microcontroller on the network.
func (mcu *Mcu) SendMessage(destination int, message string) (err error) {
	if mcu.Network == nil {
		err = ErrNoNetwork
		return
	}

	return mcu.Network.Send(mcu.id, destination, message)
}

// BroadcastMessage sends a message to all other microcontrollers on the network,
// and returns the number of deliveries.
func (mcu *Mcu) BroadcastMessage(message string) (count int, err error) {
	if mcu.Network == nil {
		err = ErrNoNetwork
		return
	}

	count = mcu.Network.Broadcast(mcu.id, message)
	return
}
