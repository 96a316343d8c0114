package vm

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Instruction is a decoded opcode and its operand values.
type Instruction struct {
	Addr   uint32
	Opcode Opcode
	Args   []uint32
}

// Decode the instruction at addr of mem.
func Decode(mem []byte, addr uint32) (inst Instruction, err error) {
	if uint64(addr) >= uint64(len(mem)) {
		err = ErrProgramOverrun
		return
	}

	inst.Addr = addr
	inst.Opcode = Opcode(mem[addr])
	if !inst.Opcode.IsValid() {
		err = ErrUnknownOpcode
		return
	}

	if uint64(addr)+uint64(inst.Opcode.Size()) > uint64(len(mem)) {
		err = ErrProgramOverrun
		return
	}

	pos := addr + 1
	for _, operand := range inst.Opcode.Operands() {
		var value uint32
		switch operand {
		case OPERAND_REG, OPERAND_U8:
			value = uint32(mem[pos])
		case OPERAND_U16:
			value = uint32(binary.LittleEndian.Uint16(mem[pos:]))
		case OPERAND_U32:
			value = binary.LittleEndian.Uint32(mem[pos:])
		}
		inst.Args = append(inst.Args, value)
		pos += uint32(operand.Size())
	}

	return
}

// Size of the instruction in bytes.
func (inst Instruction) Size() int {
	return inst.Opcode.Size()
}

// String disassembles the instruction.
func (inst Instruction) String() string {
	var text strings.Builder

	fmt.Fprintf(&text, "%04x: %v", inst.Addr, inst.Opcode)
	for n, operand := range inst.Opcode.Operands() {
		if n >= len(inst.Args) {
			break
		}
		if n == 0 {
			text.WriteString(" ")
		} else {
			text.WriteString(", ")
		}
		arg := inst.Args[n]
		switch operand {
		case OPERAND_REG:
			text.WriteString(Register(arg).String())
		case OPERAND_U8:
			fmt.Fprintf(&text, "0x%02x", arg)
		case OPERAND_U16:
			fmt.Fprintf(&text, "0x%04x", arg)
		case OPERAND_U32:
			fmt.Fprintf(&text, "0x%x", arg)
		}
	}

	return text.String()
}

// Disassemble decodes every instruction in code, starting at address zero.
// Decoding stops at the first undecodable byte.
func Disassemble(code []byte) (list []Instruction, err error) {
	for addr := uint32(0); addr < uint32(len(code)); {
		var inst Instruction
		inst, err = Decode(code, addr)
		if err != nil {
			err = &ErrFault{Result: resultOf(err), Ip: addr, Opcode: Opcode(code[addr]), Decoded: true, Err: err}
			return
		}
		list = append(list, inst)
		addr += uint32(inst.Size())
	}
	return
}
