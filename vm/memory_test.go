package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLayout(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory([]byte{1, 2, 3}, 5)
	assert.Equal(uint32(8), mem.Size())
	assert.Equal(uint32(3), mem.ProgramLength)
	assert.Equal(uint32(5), mem.StackSize())
	assert.Equal([]byte{1, 2, 3, 0, 0, 0, 0, 0}, mem.Data)

	mem.Data[7] = 0xaa
	mem.ClearStack()
	assert.Equal([]byte{1, 2, 3, 0, 0, 0, 0, 0}, mem.Data)
}

func TestMemoryReadWrite(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(nil, 8)

	assert.NoError(mem.Write32(1, 0x12345678))
	assert.Equal([]byte{0, 0x78, 0x56, 0x34, 0x12, 0, 0, 0}, mem.Data)

	v16, err := mem.Read16(2)
	assert.NoError(err)
	assert.Equal(uint16(0x3456), v16)

	v8, err := mem.Read8(4)
	assert.NoError(err)
	assert.Equal(uint8(0x12), v8)

	assert.NoError(mem.Write16(6, 0xbeef))
	v32, err := mem.Read32(4)
	assert.NoError(err)
	assert.Equal(uint32(0xbeef0012), v32)
}

func TestMemoryBounds(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(nil, 8)

	table := [](struct {
		name  string
		addr  uint32
		width int
		ok    bool
	}){
		{"byte_last", 7, 1, true},
		{"byte_past", 8, 1, false},
		{"word_last", 6, 2, true},
		{"word_straddle", 7, 2, false},
		{"dword_last", 4, 4, true},
		{"dword_straddle", 5, 4, false},
		{"wrap", 0xffffffff, 4, false},
		{"bad_width", 0, 3, false},
	}

	for _, entry := range table {
		_, err := mem.Read(entry.addr, entry.width)
		werr := mem.Write(entry.addr, entry.width, 0xffffffff)
		if entry.ok {
			assert.NoError(err, entry.name)
			assert.NoError(werr, entry.name)
		} else {
			assert.ErrorIs(err, ErrInvalidAddress, entry.name)
			assert.ErrorIs(werr, ErrInvalidAddress, entry.name)
		}
	}
}

func TestMemoryCopy(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory([]byte{1, 2, 3, 4, 0, 0, 0, 0}, 0)
	assert.NoError(mem.Copy(4, 0, 4))
	assert.Equal([]byte{1, 2, 3, 4, 1, 2, 3, 4}, mem.Data)

	// Forward copy into an overlapping tail replicates the head.
	mem = NewMemory([]byte{9, 8, 0, 0, 0, 0}, 0)
	assert.NoError(mem.Copy(1, 0, 5))
	assert.Equal([]byte{9, 9, 9, 9, 9, 9}, mem.Data)

	assert.ErrorIs(mem.Copy(0, 4, 3), ErrInvalidAddress)
	assert.ErrorIs(mem.Copy(4, 0, 3), ErrInvalidAddress)
	assert.NoError(mem.Copy(6, 6, 0))
}

func TestMemoryCString(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory([]byte("hi\x00bye"), 0)

	text, err := mem.CString(0)
	assert.NoError(err)
	assert.Equal("hi", string(text))

	text, err = mem.CString(2)
	assert.NoError(err)
	assert.Equal("", string(text))

	_, err = mem.CString(3)
	assert.ErrorIs(err, ErrInvalidAddress)

	_, err = mem.CString(6)
	assert.ErrorIs(err, ErrInvalidAddress)
}
