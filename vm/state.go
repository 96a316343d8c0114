package vm

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/bytevm/internal"
)

var _vm_defines = map[string]string{
	"MEMORY_LIMIT":   fmt.Sprintf("0x%x", MEMORY_LIMIT),
	"STACK_DEFAULT":  fmt.Sprintf("%d", STACK_DEFAULT),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"OPCODE_COUNT":   fmt.Sprintf("%d", OPCODE_COUNT),
}

// Predefines are the defines that do not depend on a program.
func Predefines() iter.Seq2[string, string] {
	return maps.All(_vm_defines)
}

// Defines for the assembler: memory constants, and the layout of this VM.
func (vm *VM) Defines() iter.Seq2[string, string] {
	layout := map[string]string{
		"PROGRAM_LENGTH": fmt.Sprintf("%d", vm.mem.ProgramLength),
		"MEMORY_SIZE":    fmt.Sprintf("%d", vm.mem.Size()),
	}
	return internal.IterSeq2Concat(Predefines(), maps.All(layout))
}

// State is a copy of everything a VM needs to resume a run.
type State struct {
	Register      RegisterFile
	ProgramLength uint32
	Memory        []byte
	Instructions  uint64
}

// Snapshot copies the current state.
func (vm *VM) Snapshot() (state State) {
	state = State{
		Register:      vm.Register,
		ProgramLength: vm.mem.ProgramLength,
		Memory:        make([]byte, len(vm.mem.Data)),
		Instructions:  vm.instructions,
	}
	copy(state.Memory, vm.mem.Data)
	return
}

// Restore a state taken from a VM of the same layout.
func (vm *VM) Restore(state State) (err error) {
	if vm.running {
		err = ErrReentrantRun
		return
	}

	if state.ProgramLength != vm.mem.ProgramLength || len(state.Memory) != len(vm.mem.Data) {
		err = ErrStateMismatch
		return
	}

	vm.Register = state.Register
	copy(vm.mem.Data, state.Memory)
	vm.instructions = state.Instructions
	vm.fault = nil

	return
}

// String returns the register and stack state.
func (vm *VM) String() (text string) {
	for reg := R0; reg < REGISTER_COUNT; reg++ {
		val := vm.Register[reg]
		text += fmt.Sprintf("% 5s: %04X_%04X\n", reg, val>>16, val&0xffff)
	}

	strval := "----_----"
	if val, err := vm.stack.Peek(); err == nil {
		strval = fmt.Sprintf("%04X_%04X", val>>16, val&0xffff)
	}
	text += fmt.Sprintf("% 5s: %v\n", "stack", strval)

	return
}
