package vm

import (
	"bytes"
	"encoding/binary"
)

// MEMORY_LIMIT is the largest memory a VM may have, so that every
// address is reachable by a 16-bit literal.
const MEMORY_LIMIT = 0x10000

// Memory is the program region followed by the stack region.
type Memory struct {
	Data          []byte
	ProgramLength uint32
}

// NewMemory copies program into a buffer with stackSize bytes of zeroed
// stack space after it.
func NewMemory(program []byte, stackSize int) (mem *Memory) {
	mem = &Memory{
		Data:          make([]byte, len(program)+stackSize),
		ProgramLength: uint32(len(program)),
	}
	copy(mem.Data, program)
	return
}

// Size of the whole memory.
func (mem *Memory) Size() uint32 {
	return uint32(len(mem.Data))
}

// StackSize is the number of bytes after the program region.
func (mem *Memory) StackSize() uint32 {
	return mem.Size() - mem.ProgramLength
}

// ClearStack zeroes the stack region.
func (mem *Memory) ClearStack() {
	clear(mem.Data[mem.ProgramLength:])
}

func (mem *Memory) check(addr uint32, width uint32) (err error) {
	if uint64(addr)+uint64(width) > uint64(len(mem.Data)) {
		err = ErrInvalidAddress
	}
	return
}

// Slice returns the n bytes at addr, sharing storage with the memory.
func (mem *Memory) Slice(addr uint32, n uint32) (data []byte, err error) {
	err = mem.check(addr, n)
	if err != nil {
		return
	}
	data = mem.Data[addr : addr+n]
	return
}

func (mem *Memory) Read8(addr uint32) (value uint8, err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}
	value = mem.Data[addr]
	return
}

func (mem *Memory) Read16(addr uint32) (value uint16, err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint16(mem.Data[addr:])
	return
}

func (mem *Memory) Read32(addr uint32) (value uint32, err error) {
	err = mem.check(addr, 4)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint32(mem.Data[addr:])
	return
}

func (mem *Memory) Write8(addr uint32, value uint8) (err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}
	mem.Data[addr] = value
	return
}

func (mem *Memory) Write16(addr uint32, value uint16) (err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint16(mem.Data[addr:], value)
	return
}

func (mem *Memory) Write32(addr uint32, value uint32) (err error) {
	err = mem.check(addr, 4)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint32(mem.Data[addr:], value)
	return
}

// Read a zero extended value of width 1, 2 or 4 bytes.
func (mem *Memory) Read(addr uint32, width int) (value uint32, err error) {
	switch width {
	case 1:
		var v uint8
		v, err = mem.Read8(addr)
		value = uint32(v)
	case 2:
		var v uint16
		v, err = mem.Read16(addr)
		value = uint32(v)
	case 4:
		value, err = mem.Read32(addr)
	default:
		err = ErrInvalidAddress
	}
	return
}

// Write the low width bytes of value, for width 1, 2 or 4.
func (mem *Memory) Write(addr uint32, width int, value uint32) (err error) {
	switch width {
	case 1:
		err = mem.Write8(addr, uint8(value))
	case 2:
		err = mem.Write16(addr, uint16(value))
	case 4:
		err = mem.Write32(addr, value)
	default:
		err = ErrInvalidAddress
	}
	return
}

// Copy n bytes from src to dst, one byte at a time in ascending order.
// When dst overlaps the tail of src the leading bytes are replicated.
func (mem *Memory) Copy(dst uint32, src uint32, n uint32) (err error) {
	err = mem.check(src, n)
	if err != nil {
		return
	}
	err = mem.check(dst, n)
	if err != nil {
		return
	}
	for i := uint32(0); i < n; i++ {
		mem.Data[dst+i] = mem.Data[src+i]
	}
	return
}

// CString returns the bytes at addr up to, but not including, the next NUL.
// An unterminated string is an invalid address.
func (mem *Memory) CString(addr uint32) (data []byte, err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}
	n := bytes.IndexByte(mem.Data[addr:], 0)
	if n < 0 {
		err = ErrInvalidAddress
		return
	}
	data = mem.Data[addr : addr+uint32(n)]
	return
}
