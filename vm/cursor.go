package vm

import (
	"encoding/binary"
)

// cursor reads instruction operands, advancing IP over each one.
// On entry to a handler IP addresses the opcode byte; after the last
// fetch it addresses the final operand byte.
type cursor struct {
	mem *Memory
	ip  *uint32
}

func (c *cursor) next(width uint32) (addr uint32, err error) {
	start := uint64(*c.ip) + 1
	if start+uint64(width) > uint64(c.mem.Size()) {
		err = ErrProgramOverrun
		return
	}
	addr = uint32(start)
	*c.ip += width
	return
}

func (c *cursor) fetchU8() (value uint8, err error) {
	addr, err := c.next(1)
	if err != nil {
		return
	}
	value = c.mem.Data[addr]
	return
}

func (c *cursor) fetchU16() (value uint16, err error) {
	addr, err := c.next(2)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint16(c.mem.Data[addr:])
	return
}

func (c *cursor) fetchU32() (value uint32, err error) {
	addr, err := c.next(4)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint32(c.mem.Data[addr:])
	return
}

func (c *cursor) fetchReg() (reg Register, err error) {
	value, err := c.fetchU8()
	if err != nil {
		return
	}
	reg = Register(value)
	if !reg.IsValid() {
		err = ErrInvalidRegister
	}
	return
}
