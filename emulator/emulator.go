// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/bytevm/host"
	"github.com/ezrec/bytevm/internal"
	"github.com/ezrec/bytevm/vm"
)

const (
	INT_EXIT = uint8(0) // Stop the program.
	INT_DUMP = uint8(1) // Log the register state and continue.
)

var _emulator_defines = map[string]string{
	"INT_EXIT": fmt.Sprintf("%d", INT_EXIT),
	"INT_DUMP": fmt.Sprintf("%d", INT_DUMP),
}

// Handler services an interrupt. Returning false stops the program.
type Handler func(emu *Emulator) bool

// Config of a new emulator.
type Config struct {
	StackSize int    // Stack bytes, vm.STACK_DEFAULT when zero.
	Budget    uint32 // Instructions per Tick, unlimited when zero.
	Verbose   bool   // If set, enables verbose logging.
}

// Emulator state. VM + console + pins + program listing.
type Emulator struct {
	Verbose bool        // If set, enables verbose logging.
	*vm.VM              // Reference to the VM.
	Program *vm.Program // Reference to the running program listing.
	Budget  uint32      // Instructions per Tick, unlimited when zero.

	Console host.Stream // Console I/O.
	Pins    host.Pins   // Simulated GPIO pins.

	handler map[uint8]Handler
	done    bool
	stop    error
}

// Defines returns an iterator over the defines available to any program.
func Defines() iter.Seq2[string, string] {
	pins := &host.Pins{}
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		vm.Predefines(),
		pins.Defines(),
	)
}

// Assemble source with the emulator defines.
func Assemble(source io.Reader, verbose bool) (prog *vm.Program, err error) {
	asm := &vm.Assembler{Verbose: verbose}
	for key, value := range Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(source)
	return
}

// NewEmulator creates a new emulator running prog.
func NewEmulator(prog *vm.Program, config Config) (emu *Emulator, err error) {
	stackSize := config.StackSize
	if stackSize == 0 {
		stackSize = vm.STACK_DEFAULT
	}

	emu = &Emulator{
		Verbose: config.Verbose,
		Program: prog,
		Budget:  config.Budget,
	}

	emu.VM, err = vm.NewVM(prog.Binary(), stackSize, vm.Options{
		Console:   &emu.Console,
		Hardware:  &emu.Pins,
		Interrupt: emu.interrupt,
		Verbose:   config.Verbose,
	})
	if err != nil {
		emu = nil
		return
	}

	emu.handler = map[uint8]Handler{
		INT_EXIT: func(*Emulator) bool { return false },
		INT_DUMP: func(emu *Emulator) bool {
			log.Printf("%v", emu.VM)
			return true
		},
	}

	return
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.VM.Defines(),
		emu.Pins.Defines(),
	)
}

// Handle installs the handler for an interrupt code, or removes it when
// handler is nil.
func (emu *Emulator) Handle(code uint8, handler Handler) {
	if handler == nil {
		delete(emu.handler, code)
	} else {
		emu.handler[code] = handler
	}
}

func (emu *Emulator) interrupt(code uint8) bool {
	handler, ok := emu.handler[code]
	if !ok {
		emu.stop = ErrInterrupt(code)
		return false
	}

	if emu.Verbose {
		log.Printf("emulator: int %d", code)
	}

	return handler(emu)
}

// Reset the VM and the pins. Console streams are left alone.
func (emu *Emulator) Reset() {
	emu.VM.Verbose = emu.Verbose
	emu.VM.Reset()
	emu.Pins.Reset()
	emu.done = false
	emu.stop = nil
}

// Done is true once the program has finished or faulted.
func (emu *Emulator) Done() bool {
	return emu.done
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() uint32 {
	return emu.VM.Register[vm.IP]
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineNo(emu.Ip())
}

// Tick runs the program for one budget of instructions.
func (emu *Emulator) Tick() (done bool, err error) {
	return emu.Slice(emu.Budget)
}

// Slice runs the program for up to budget instructions, or until it
// stops when budget is zero.
func (emu *Emulator) Slice(budget uint32) (done bool, err error) {
	if emu.done {
		done = true
		return
	}

	// Set VM verbosity
	emu.VM.Verbose = emu.Verbose

	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: emu.LineNo(), Ip: emu.Ip(), Err: err}
		}
		if done && emu.Verbose {
			log.Printf("emulator: done after %d instructions", emu.VM.Instructions())
		}
	}()

	result := emu.VM.Run(budget)
	switch {
	case result == vm.PAUSED:
		return
	case result.IsFault():
		err = emu.VM.Fault()
		if err == nil {
			err = result.Err()
		}
	default:
		err = emu.stop
	}

	emu.done = true
	done = true

	return
}
