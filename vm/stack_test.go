package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestStack(program int, size int) (stack *Stack, sp *uint32) {
	mem := NewMemory(make([]byte, program), size)
	sp = new(uint32)
	*sp = mem.Size()
	stack = &Stack{mem: mem, sp: sp}
	return
}

func TestStack(t *testing.T) {
	assert := assert.New(t)

	stack, sp := newTestStack(3, 16)
	assert.Equal(0, stack.Count())

	_, err := stack.Pop()
	assert.ErrorIs(err, ErrStackUnderflow)

	assert.NoError(stack.Push(1))
	assert.NoError(stack.Push(0xffffffff))
	assert.Equal(2, stack.Count())
	assert.Equal(uint32(11), *sp)

	value, err := stack.Peek()
	assert.NoError(err)
	assert.Equal(uint32(0xffffffff), value)

	assert.NoError(stack.Dup())
	assert.Equal(3, stack.Count())

	value, err = stack.Pop()
	assert.NoError(err)
	assert.Equal(uint32(0xffffffff), value)

	first, second, err := stack.Pop2()
	assert.NoError(err)
	assert.Equal(uint32(0xffffffff), first)
	assert.Equal(uint32(1), second)
	assert.Equal(0, stack.Count())
	assert.Equal(uint32(19), *sp)
}

func TestStackOverflow(t *testing.T) {
	assert := assert.New(t)

	stack, sp := newTestStack(3, 8)

	assert.NoError(stack.Push(1))
	assert.NoError(stack.Push(2))
	assert.Equal(uint32(3), *sp)

	assert.ErrorIs(stack.Push(3), ErrStackOverflow)
	assert.ErrorIs(stack.Dup(), ErrStackOverflow)
	assert.Equal(uint32(3), *sp)
	assert.Equal(2, stack.Count())
}

func TestStackUnderflow(t *testing.T) {
	assert := assert.New(t)

	stack, sp := newTestStack(3, 8)

	assert.NoError(stack.Push(1))
	_, _, err := stack.Pop2()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(uint32(7), *sp)

	assert.NoError(stack.Dup())
	*sp = 2
	_, err = stack.Pop()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.ErrorIs(stack.Push(1), ErrStackOverflow)
	assert.Equal(0, stack.Count())

	*sp = 12
	_, err = stack.Pop()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.ErrorIs(stack.Push(1), ErrStackOverflow)
	assert.Equal(0, stack.Count())
}
