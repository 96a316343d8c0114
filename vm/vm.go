// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"errors"
	"io"
	"log"

	"github.com/ezrec/bytevm/host"
)

// STACK_DEFAULT is the default stack size in bytes.
const STACK_DEFAULT = 256

// InterruptFunc handles the int instruction. Returning false stops the
// run with FINISHED.
type InterruptFunc func(code uint8) bool

// Options are the host capabilities of a VM.
type Options struct {
	Console   host.Console  // Console I/O; print and read instructions are unsupported when nil.
	Hardware  host.Hardware // GPIO; pin instructions are unsupported when nil.
	Interrupt InterruptFunc // Interrupt hook; int faults when nil.
	Verbose   bool          // Log every instruction.
}

// VM state.
type VM struct {
	Verbose  bool          // Set to enable verbose logging.
	Register RegisterFile  // Register values.
	Console  host.Console  // Console capability.
	Hardware host.Hardware // GPIO capability.

	mem          *Memory
	stack        Stack
	cursor       cursor
	interrupt    InterruptFunc
	instructions uint64
	fault        *ErrFault
	running      bool
}

// NewVM creates a VM with program loaded at address zero, followed by
// stackSize bytes of stack.
func NewVM(program []byte, stackSize int, opts Options) (vm *VM, err error) {
	if stackSize < 0 || len(program)+stackSize > MEMORY_LIMIT {
		err = ErrMemoryLimit
		return
	}

	vm = &VM{
		Verbose:   opts.Verbose,
		Console:   opts.Console,
		Hardware:  opts.Hardware,
		mem:       NewMemory(program, stackSize),
		interrupt: opts.Interrupt,
	}
	vm.stack = Stack{mem: vm.mem, sp: &vm.Register[SP]}
	vm.cursor = cursor{mem: vm.mem, ip: &vm.Register[IP]}

	vm.Reset()

	return
}

// Reset clears the stack region and the registers. The program region,
// including any changes made by the program, is kept.
func (vm *VM) Reset() {
	if vm.Verbose {
		log.Printf("vm: reset")
	}

	vm.mem.ClearStack()
	vm.Register.Reset(vm.mem.Size())
	vm.instructions = 0
	vm.fault = nil
}

// OnInterrupt replaces the interrupt hook.
func (vm *VM) OnInterrupt(hook InterruptFunc) {
	vm.interrupt = hook
}

// GetRegister returns the value of a register.
func (vm *VM) GetRegister(reg Register) (uint32, error) {
	return vm.Register.Get(reg)
}

// SetRegister sets the value of a register.
func (vm *VM) SetRegister(reg Register, value uint32) error {
	return vm.Register.Set(reg, value)
}

// Memory returns the memory from addr to the end, sharing storage.
func (vm *VM) Memory(addr uint32) ([]byte, error) {
	if addr > vm.mem.Size() {
		return nil, ErrInvalidAddress
	}
	return vm.mem.Data[addr:], nil
}

// ProgramLength is the size of the program region.
func (vm *VM) ProgramLength() uint32 {
	return vm.mem.ProgramLength
}

// MemorySize is the size of the whole memory.
func (vm *VM) MemorySize() uint32 {
	return vm.mem.Size()
}

// StackPush pushes value onto the VM stack on behalf of the host, as
// an interrupt handler passing a result back to the program.
func (vm *VM) StackPush(value uint32) error {
	return vm.stack.Push(value)
}

// StackPop pops the top of the VM stack on behalf of the host.
func (vm *VM) StackPop() (uint32, error) {
	return vm.stack.Pop()
}

// StackCount is the number of values on the VM stack.
func (vm *VM) StackCount() int {
	return vm.stack.Count()
}

// Instructions is the count of instructions executed since reset.
func (vm *VM) Instructions() uint64 {
	return vm.instructions
}

// Fault describes the fault that ended the last run, if any.
func (vm *VM) Fault() error {
	if vm.fault == nil {
		return nil
	}
	return vm.fault
}

// Run executes up to budget instructions, or without limit when budget
// is zero.
func (vm *VM) Run(budget uint32) (result ExecResult) {
	if vm.running {
		return ERR_REENTRANT_RUN
	}

	vm.running = true
	defer func() { vm.running = false }()

	vm.fault = nil
	for count := uint32(0); budget == 0 || count < budget; count++ {
		err := vm.step()
		if err != nil {
			return resultOf(err)
		}
	}

	return PAUSED
}

// step executes the instruction at IP.
func (vm *VM) step() (err error) {
	ip := vm.Register[IP]
	var op Opcode
	decoded := false

	defer func() {
		switch err {
		case nil:
			vm.Register[IP]++
			vm.instructions++
		case errHalt, errStop:
		default:
			vm.Register[IP] = ip
			vm.fault = &ErrFault{Result: resultOf(err), Ip: ip, Opcode: op, Decoded: decoded, Err: err}
			if vm.Verbose {
				log.Printf("vm: %v", vm.fault)
			}
		}
	}()

	if ip >= vm.mem.Size() {
		err = ErrProgramOverrun
		return
	}

	op = Opcode(vm.mem.Data[ip])
	decoded = true
	if !op.IsValid() {
		err = ErrUnknownOpcode
		return
	}

	if uint64(ip)+uint64(op.Size()) > uint64(vm.mem.Size()) {
		err = ErrProgramOverrun
		return
	}

	if vm.Verbose {
		inst, _ := Decode(vm.mem.Data, ip)
		log.Printf("%v", inst)
	}

	err = vm.execute(op)

	return
}

// execute op, with IP on the opcode byte.
func (vm *VM) execute(op Opcode) (err error) {
	reg := &vm.Register

	switch op {
	case OP_NOP:
	case OP_HALT:
		err = errHalt
	case OP_INT:
		err = vm.doInt()
	case OP_LCONS:
		err = vm.doLoadConst(OPERAND_U32)
	case OP_LCONSW:
		err = vm.doLoadConst(OPERAND_U16)
	case OP_LCONSB:
		err = vm.doLoadConst(OPERAND_U8)
	case OP_MOV:
		err = vm.doUnary(func(value uint32) uint32 { return value })
	case OP_PUSH:
		var r Register
		r, err = vm.cursor.fetchReg()
		if err == nil {
			err = vm.stack.Push(reg[r])
		}
	case OP_POP:
		var r Register
		var value uint32
		r, err = vm.cursor.fetchReg()
		if err == nil {
			value, err = vm.stack.Pop()
		}
		if err == nil {
			reg[r] = value
		}
	case OP_POP2:
		err = vm.doPop2()
	case OP_DUP:
		err = vm.stack.Dup()
	case OP_CALL:
		ra := reg[IP] + 3
		var target uint16
		target, err = vm.cursor.fetchU16()
		if err == nil {
			err = vm.jump(uint32(target))
		}
		if err == nil {
			reg[RA] = ra
		}
	case OP_RET:
		err = vm.jump(reg[RA])
	case OP_STOR:
		err = vm.doStore(4, false)
	case OP_STOR_P:
		err = vm.doStore(4, true)
	case OP_STORW:
		err = vm.doStore(2, false)
	case OP_STORW_P:
		err = vm.doStore(2, true)
	case OP_STORB:
		err = vm.doStore(1, false)
	case OP_STORB_P:
		err = vm.doStore(1, true)
	case OP_LOAD:
		err = vm.doLoad(4, false)
	case OP_LOAD_P:
		err = vm.doLoad(4, true)
	case OP_LOADW:
		err = vm.doLoad(2, false)
	case OP_LOADW_P:
		err = vm.doLoad(2, true)
	case OP_LOADB:
		err = vm.doLoad(1, false)
	case OP_LOADB_P:
		err = vm.doLoad(1, true)
	case OP_MEMCPY:
		err = vm.doMemcpy(false)
	case OP_MEMCPY_P:
		err = vm.doMemcpy(true)
	case OP_INC:
		err = vm.doInPlace(func(value uint32) uint32 { return value + 1 })
	case OP_FINC:
		err = vm.doInPlace(func(value uint32) uint32 { return f32ToBits(bitsToF32(value) + 1) })
	case OP_DEC:
		err = vm.doInPlace(func(value uint32) uint32 { return value - 1 })
	case OP_FDEC:
		err = vm.doInPlace(func(value uint32) uint32 { return f32ToBits(bitsToF32(value) - 1) })
	case OP_ADD:
		err = vm.doAlu(aluAdd)
	case OP_FADD:
		err = vm.doAlu(aluFadd)
	case OP_SUB:
		err = vm.doAlu(aluSub)
	case OP_FSUB:
		err = vm.doAlu(aluFsub)
	case OP_MUL:
		err = vm.doAlu(aluMul)
	case OP_IMUL:
		err = vm.doAlu(aluImul)
	case OP_FMUL:
		err = vm.doAlu(aluFmul)
	case OP_DIV:
		err = vm.doAlu(aluDiv)
	case OP_IDIV:
		err = vm.doAlu(aluIdiv)
	case OP_FDIV:
		err = vm.doAlu(aluFdiv)
	case OP_SHL:
		err = vm.doAlu(aluShl)
	case OP_SHR:
		err = vm.doAlu(aluShr)
	case OP_ISHR:
		err = vm.doAlu(aluIshr)
	case OP_MOD:
		err = vm.doAlu(aluMod)
	case OP_IMOD:
		err = vm.doAlu(aluImod)
	case OP_AND:
		err = vm.doAlu(aluAnd)
	case OP_OR:
		err = vm.doAlu(aluOr)
	case OP_XOR:
		err = vm.doAlu(aluXor)
	case OP_NOT:
		err = vm.doUnary(func(value uint32) uint32 { return ^value })
	case OP_U2I, OP_I2U:
		err = vm.doInPlace(func(value uint32) uint32 { return int32ToBits(bitsToInt32(value)) })
	case OP_I2F:
		err = vm.doUnary(intToFloat)
	case OP_F2I:
		err = vm.doUnary(floatToInt)
	case OP_JMP:
		var target uint16
		target, err = vm.cursor.fetchU16()
		if err == nil {
			err = vm.jump(uint32(target))
		}
	case OP_JR:
		var r Register
		r, err = vm.cursor.fetchReg()
		if err == nil {
			err = vm.jump(reg[r])
		}
	case OP_JZ:
		err = vm.doBranchZero(true)
	case OP_JNZ:
		err = vm.doBranchZero(false)
	case OP_JE:
		err = vm.doBranch(func(a, b uint32) bool { return a == b })
	case OP_JNE:
		err = vm.doBranch(func(a, b uint32) bool { return a != b })
	case OP_JA:
		err = vm.doBranch(func(a, b uint32) bool { return a > b })
	case OP_JG:
		err = vm.doBranch(func(a, b uint32) bool { return bitsToInt32(a) > bitsToInt32(b) })
	case OP_JAE:
		err = vm.doBranch(func(a, b uint32) bool { return a >= b })
	case OP_JGE:
		err = vm.doBranch(func(a, b uint32) bool { return bitsToInt32(a) >= bitsToInt32(b) })
	case OP_JB:
		err = vm.doBranch(func(a, b uint32) bool { return a < b })
	case OP_JL:
		err = vm.doBranch(func(a, b uint32) bool { return bitsToInt32(a) < bitsToInt32(b) })
	case OP_JBE:
		err = vm.doBranch(func(a, b uint32) bool { return a <= b })
	case OP_JLE:
		err = vm.doBranch(func(a, b uint32) bool { return bitsToInt32(a) <= bitsToInt32(b) })
	case OP_PRINT, OP_PRINTI, OP_PRINTF:
		err = vm.doPrintNumber(op)
	case OP_PRINTC:
		err = vm.doPrintChar()
	case OP_PRINTS:
		err = vm.doPrintString()
	case OP_PRINTLN:
		var con host.Console
		con, err = vm.console()
		if err == nil {
			err = hostError(con.PrintNewline())
		}
	case OP_READ:
		err = vm.doRead(func(con host.Console) (uint32, error) {
			return con.ReadUint()
		})
	case OP_READI:
		err = vm.doRead(func(con host.Console) (uint32, error) {
			value, err := con.ReadInt()
			return int32ToBits(value), err
		})
	case OP_READF:
		err = vm.doRead(func(con host.Console) (uint32, error) {
			value, err := con.ReadFloat()
			return f32ToBits(value), err
		})
	case OP_READC:
		err = vm.doReadChar()
	case OP_READS:
		err = vm.doReadLine()
	case OP_I2S:
		err = vm.doIntToString()
	case OP_S2I:
		err = vm.doStringToInt()
	case OP_DR, OP_AR:
		err = vm.doPinRead(op)
	case OP_DW, OP_AW, OP_DWR, OP_AWR:
		err = vm.doPinWrite(op)
	case OP_PM:
		err = vm.doPinMode()
	default:
		err = ErrUnknownOpcode
	}

	return
}

// jump so that the post-instruction increment lands on target, which
// must be inside memory.
func (vm *VM) jump(target uint32) (err error) {
	if target >= vm.mem.Size() {
		err = ErrInvalidAddress
		return
	}
	vm.Register[IP] = target - 1
	return
}

// hostError classifies an error returned by a host capability.
func hostError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, host.ErrUnsupported):
		return errors.Join(ErrUnsupportedOpcode, err)
	default:
		return errors.Join(ErrHostIo, err)
	}
}

// noInput is true for the read errors that leave the target unchanged.
func noInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, host.ErrNoValue)
}

func (vm *VM) console() (con host.Console, err error) {
	if vm.Console == nil {
		err = ErrUnsupportedOpcode
		return
	}
	con = vm.Console
	return
}

func (vm *VM) hardware() (hw host.Hardware, err error) {
	if vm.Hardware == nil {
		err = ErrUnsupportedOpcode
		return
	}
	hw = vm.Hardware
	return
}
