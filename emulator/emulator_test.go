// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/bytevm/vm"
)

func newTestEmulator(t *testing.T, config Config, program ...string) (emu *Emulator) {
	prog, err := Assemble(strings.NewReader(strings.Join(program, "\n")), false)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	emu, err = NewEmulator(prog, config)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	return
}

func runToDone(t *testing.T, emu *Emulator) (err error) {
	for range 1000 {
		var done bool
		done, err = emu.Tick()
		if done {
			return
		}
		if !assert.NoError(t, err) {
			return
		}
	}

	t.Fatal("program did not finish")
	return
}

var sumProgram = []string{
	"readi r0",
	"readi r1",
	"add r2, r0, r1",
	"printi r2, 1",
	"int INT_EXIT",
}

var countProgram = []string{
	"        lconsb r0, 10",
	"loop:   dec r0",
	"        jnz r0, loop",
	"        halt",
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, Config{}, "halt")

	assert.False(emu.Verbose)
	assert.NotNil(emu.VM)
	assert.Equal(uint32(1+vm.STACK_DEFAULT), emu.MemorySize())
	assert.False(emu.Done())

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("0", defines["INT_EXIT"])
	assert.Equal("1", defines["INT_DUMP"])
	assert.Equal("256", defines["PIN_COUNT"])
	assert.Equal("0x10000", defines["MEMORY_LIMIT"])
	assert.Equal("1", defines["PROGRAM_LENGTH"])

	prog, err := Assemble(strings.NewReader(""), false)
	assert.NoError(err)
	_, err = NewEmulator(prog, Config{StackSize: vm.MEMORY_LIMIT + 1})
	assert.ErrorIs(err, vm.ErrMemoryLimit)
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, Config{}, sumProgram...)

	var out bytes.Buffer
	emu.Console.Input = strings.NewReader("3 4")
	emu.Console.Output = &out

	assert.NoError(runToDone(t, emu))
	assert.Equal("7\n", out.String())
	assert.True(emu.Done())
	assert.Equal(5, emu.LineNo())

	// Finished programs stay finished until reset.
	done, err := emu.Tick()
	assert.True(done)
	assert.NoError(err)

	out.Reset()
	emu.Console.Input = strings.NewReader("-1 2")
	emu.Console.Rewind()
	emu.Reset()
	assert.False(emu.Done())
	assert.NoError(runToDone(t, emu))
	assert.Equal("1\n", out.String())
}

func TestEmulatorBudget(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, Config{Budget: 10}, countProgram...)

	table := [](struct {
		done         bool
		instructions uint64
	}){
		{false, 10},
		{false, 20},
		{true, 21},
	}

	for n, entry := range table {
		done, err := emu.Tick()
		assert.NoError(err, n)
		assert.Equal(entry.done, done, n)
		assert.Equal(entry.instructions, emu.Instructions(), n)
	}

	assert.Equal(4, emu.LineNo())
	assert.Equal(uint32(0), emu.Register[vm.R0])
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, Config{},
		"lconsb r0, 1",
		"lconsb r1, 0",
		"div r2, r0, r1",
		"halt",
	)

	done, err := emu.Tick()
	assert.True(done)
	assert.ErrorIs(err, vm.ErrDivisionByZero)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(3, runtime.LineNo)
		assert.Equal(uint32(6), runtime.Ip)
	}

	var fault *vm.ErrFault
	if assert.True(errors.As(err, &fault)) {
		assert.Equal(vm.ERR_DIVISION_BY_ZERO, fault.Result)
		assert.Equal(vm.OP_DIV, fault.Opcode)
	}
}

func TestEmulatorInterrupt(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, Config{},
		"int 5",
		"int 5",
		"int 7",
		"halt",
	)

	count := 0
	emu.Handle(5, func(emu *Emulator) bool {
		count++
		return true
	})

	done, err := emu.Tick()
	assert.True(done)
	assert.Equal(2, count)
	assert.ErrorIs(err, ErrInterrupt(7))
	assert.ErrorIs(err, vm.ErrUnhandledInterrupt)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(3, runtime.LineNo)
	}

	emu.Handle(5, nil)
	emu.Reset()
	_, err = emu.Tick()
	assert.ErrorIs(err, ErrInterrupt(5))
	assert.Equal(2, count)
}

func TestEmulatorDump(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	emu := newTestEmulator(t, Config{},
		"lconsb r0, 42",
		"int INT_DUMP",
		"halt",
	)

	assert.NoError(runToDone(t, emu))
	assert.Contains(buf.String(), "   r0: 0000_002A")
}

func TestEmulatorPins(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, Config{},
		"dw 13, PIN_HIGH",
		"pm 13, PIN_MODE_OUTPUT",
		"dr r0, 13",
		"aw 9, 1023",
		"ar r1, 9",
		"int INT_EXIT",
	)

	var out bytes.Buffer
	emu.Pins.Output = &out

	assert.NoError(runToDone(t, emu))
	assert.Equal(uint32(1), emu.Register[vm.R0])
	assert.Equal(uint32(1023), emu.Register[vm.R1])
	assert.Equal("set pin 13 to D1\nset pin 13 to mode 1\nset pin 9 to A1023\n", out.String())

	emu.Reset()
	assert.Equal(uint32(0), emu.Pins.Digital[13])
	assert.Equal(&out, emu.Pins.Output)
}
