package vm

import (
	"errors"
	"io"

	"github.com/ezrec/bytevm/host"
)

func (vm *VM) doPrintNumber(op Opcode) (err error) {
	reg, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}
	newline, err := vm.cursor.fetchU8()
	if err != nil {
		return
	}
	con, err := vm.console()
	if err != nil {
		return
	}

	value := vm.Register[reg]
	switch op {
	case OP_PRINTI:
		err = con.PrintInt(bitsToInt32(value))
	case OP_PRINTF:
		err = con.PrintFloat(bitsToF32(value))
	default:
		err = con.PrintUint(value)
	}
	if err == nil && newline != 0 {
		err = con.PrintNewline()
	}

	return hostError(err)
}

func (vm *VM) doPrintChar() (err error) {
	reg, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}
	con, err := vm.console()
	if err != nil {
		return
	}

	return hostError(con.PrintChar(byte(vm.Register[reg])))
}

func (vm *VM) doPrintString() (err error) {
	addr, err := vm.cursor.fetchU16()
	if err != nil {
		return
	}
	con, err := vm.console()
	if err != nil {
		return
	}
	text, err := vm.mem.CString(uint32(addr))
	if err != nil {
		return
	}

	return hostError(con.PrintString(text))
}

// doRead stores a value read from the console. Running out of input
// leaves the register unchanged.
func (vm *VM) doRead(read func(con host.Console) (uint32, error)) (err error) {
	reg, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}
	con, err := vm.console()
	if err != nil {
		return
	}

	value, err := read(con)
	switch {
	case err == nil:
		vm.Register[reg] = value
	case noInput(err):
		err = nil
	default:
		err = hostError(err)
	}

	return
}

// doReadChar stores 0xffffffff at end of input.
func (vm *VM) doReadChar() (err error) {
	reg, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}
	con, err := vm.console()
	if err != nil {
		return
	}

	c, err := con.ReadChar()
	switch {
	case err == nil:
		vm.Register[reg] = uint32(c)
	case errors.Is(err, io.EOF):
		vm.Register[reg] = 0xffffffff
		err = nil
	case noInput(err):
		err = nil
	default:
		err = hostError(err)
	}

	return
}

// doReadLine stores at most size-1 bytes of a line, then a NUL.
func (vm *VM) doReadLine() (err error) {
	addr, err := vm.cursor.fetchU16()
	if err != nil {
		return
	}
	size, err := vm.cursor.fetchU16()
	if err != nil {
		return
	}
	buffer, err := vm.mem.Slice(uint32(addr), uint32(size))
	if err != nil {
		return
	}
	con, err := vm.console()
	if err != nil {
		return
	}

	line, err := con.ReadLine()
	switch {
	case err == nil:
	case noInput(err):
		return nil
	default:
		return hostError(err)
	}

	if size == 0 {
		return
	}

	n := copy(buffer[:size-1], line)
	buffer[n] = 0
	return
}

func (vm *VM) doIntToString() (err error) {
	addr, err := vm.cursor.fetchU16()
	if err != nil {
		return
	}
	reg, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}

	text := formatInt(vm.Register[reg])
	buffer, err := vm.mem.Slice(uint32(addr), uint32(len(text)))
	if err != nil {
		return
	}

	copy(buffer, text)
	return
}

// doStringToInt leaves the register unchanged when there are no digits.
func (vm *VM) doStringToInt() (err error) {
	reg, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}
	addr, err := vm.cursor.fetchU16()
	if err != nil {
		return
	}
	text, err := vm.mem.CString(uint32(addr))
	if err != nil {
		return
	}

	if value, ok := parseInt(text); ok {
		vm.Register[reg] = value
	}
	return
}

func (vm *VM) doPinRead(op Opcode) (err error) {
	reg, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}
	pin, err := vm.cursor.fetchU8()
	if err != nil {
		return
	}
	hw, err := vm.hardware()
	if err != nil {
		return
	}

	var value uint32
	if op == OP_AR {
		value, err = hw.AnalogRead(pin)
	} else {
		value, err = hw.DigitalRead(pin)
	}
	if err != nil {
		return hostError(err)
	}

	vm.Register[reg] = value
	return
}

func (vm *VM) doPinWrite(op Opcode) (err error) {
	pin, err := vm.cursor.fetchU8()
	if err != nil {
		return
	}

	var value uint32
	switch op {
	case OP_DW:
		var v uint8
		v, err = vm.cursor.fetchU8()
		value = uint32(v)
	case OP_AW:
		var v uint16
		v, err = vm.cursor.fetchU16()
		value = uint32(v)
	default:
		var reg Register
		reg, err = vm.cursor.fetchReg()
		if err == nil {
			value = vm.Register[reg]
		}
	}
	if err != nil {
		return
	}

	hw, err := vm.hardware()
	if err != nil {
		return
	}

	if op == OP_AW || op == OP_AWR {
		err = hw.AnalogWrite(pin, value)
	} else {
		err = hw.DigitalWrite(pin, value)
	}

	return hostError(err)
}

func (vm *VM) doPinMode() (err error) {
	pin, err := vm.cursor.fetchU8()
	if err != nil {
		return
	}
	mode, err := vm.cursor.fetchU8()
	if err != nil {
		return
	}
	hw, err := vm.hardware()
	if err != nil {
		return
	}

	return hostError(hw.PinMode(pin, mode))
}
