package vm

// Instruction handlers. Each fetches all of its operands before changing
// any register or memory.

func (vm *VM) doInt() (err error) {
	code, err := vm.cursor.fetchU8()
	if err != nil {
		return
	}

	if vm.interrupt == nil {
		err = ErrUnhandledInterrupt
		return
	}

	if !vm.interrupt(code) {
		err = errStop
	}

	return
}

func (vm *VM) doLoadConst(width Operand) (err error) {
	reg, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}

	var value uint32
	switch width {
	case OPERAND_U8:
		var v uint8
		v, err = vm.cursor.fetchU8()
		value = uint32(v)
	case OPERAND_U16:
		var v uint16
		v, err = vm.cursor.fetchU16()
		value = uint32(v)
	default:
		value, err = vm.cursor.fetchU32()
	}
	if err != nil {
		return
	}

	vm.Register[reg] = value
	return
}

func (vm *VM) doPop2() (err error) {
	first, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}
	second, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}

	a, b, err := vm.stack.Pop2()
	if err != nil {
		return
	}

	vm.Register[first] = a
	vm.Register[second] = b
	return
}

// doUnary sets the first register operand from the second.
func (vm *VM) doUnary(fn func(value uint32) uint32) (err error) {
	dst, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}
	src, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}

	vm.Register[dst] = fn(vm.Register[src])
	return
}

// doInPlace replaces the value of a single register operand.
func (vm *VM) doInPlace(fn func(value uint32) uint32) (err error) {
	reg, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}

	vm.Register[reg] = fn(vm.Register[reg])
	return
}

func (vm *VM) doAlu(fn aluFunc) (err error) {
	var regs [3]Register
	for n := range regs {
		regs[n], err = vm.cursor.fetchReg()
		if err != nil {
			return
		}
	}

	value, err := fn(vm.Register[regs[1]], vm.Register[regs[2]])
	if err != nil {
		return
	}

	vm.Register[regs[0]] = value
	return
}

func (vm *VM) doStore(width int, indirect bool) (err error) {
	var addr, value uint32

	if indirect {
		var ra, rv Register
		ra, err = vm.cursor.fetchReg()
		if err != nil {
			return
		}
		rv, err = vm.cursor.fetchReg()
		if err != nil {
			return
		}
		addr, value = vm.Register[ra], vm.Register[rv]
	} else {
		var a16 uint16
		var rv Register
		a16, err = vm.cursor.fetchU16()
		if err != nil {
			return
		}
		rv, err = vm.cursor.fetchReg()
		if err != nil {
			return
		}
		addr, value = uint32(a16), vm.Register[rv]
	}

	return vm.mem.Write(addr, width, value)
}

func (vm *VM) doLoad(width int, indirect bool) (err error) {
	dst, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}

	var addr uint32
	if indirect {
		var ra Register
		ra, err = vm.cursor.fetchReg()
		if err != nil {
			return
		}
		addr = vm.Register[ra]
	} else {
		var a16 uint16
		a16, err = vm.cursor.fetchU16()
		if err != nil {
			return
		}
		addr = uint32(a16)
	}

	value, err := vm.mem.Read(addr, width)
	if err != nil {
		return
	}

	vm.Register[dst] = value
	return
}

func (vm *VM) doMemcpy(indirect bool) (err error) {
	var args [3]uint32

	for n := range args {
		if indirect {
			var reg Register
			reg, err = vm.cursor.fetchReg()
			if err != nil {
				return
			}
			args[n] = vm.Register[reg]
		} else {
			var value uint16
			value, err = vm.cursor.fetchU16()
			if err != nil {
				return
			}
			args[n] = uint32(value)
		}
	}

	return vm.mem.Copy(args[0], args[1], args[2])
}

func (vm *VM) doBranchZero(zero bool) (err error) {
	reg, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}
	target, err := vm.cursor.fetchU16()
	if err != nil {
		return
	}

	if (vm.Register[reg] == 0) == zero {
		err = vm.jump(uint32(target))
	}
	return
}

func (vm *VM) doBranch(cond func(a, b uint32) bool) (err error) {
	a, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}
	b, err := vm.cursor.fetchReg()
	if err != nil {
		return
	}
	target, err := vm.cursor.fetchU16()
	if err != nil {
		return
	}

	if cond(vm.Register[a], vm.Register[b]) {
		err = vm.jump(uint32(target))
	}
	return
}
