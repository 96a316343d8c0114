package vm

// Stack is the word stack living in the memory above the program.
// It grows down from the top of memory, addressed by SP.
// Every operation is checked before SP or memory changes.
type Stack struct {
	mem *Memory
	sp  *uint32
}

func (stack *Stack) canPush(n uint32) (err error) {
	sp := uint64(*stack.sp)
	if sp > uint64(stack.mem.Size()) || sp < uint64(stack.mem.ProgramLength)+4*uint64(n) {
		err = ErrStackOverflow
	}
	return
}

func (stack *Stack) canPop(n uint32) (err error) {
	sp := uint64(*stack.sp)
	if sp < uint64(stack.mem.ProgramLength) || sp+4*uint64(n) > uint64(stack.mem.Size()) {
		err = ErrStackUnderflow
	}
	return
}

// Count of words on the stack. An inconsistent SP counts as empty.
func (stack *Stack) Count() int {
	sp := *stack.sp
	if sp < stack.mem.ProgramLength || sp > stack.mem.Size() {
		return 0
	}
	return int(stack.mem.Size()-sp) / 4
}

// Push a word.
func (stack *Stack) Push(value uint32) (err error) {
	err = stack.canPush(1)
	if err != nil {
		return
	}
	*stack.sp -= 4
	return stack.mem.Write32(*stack.sp, value)
}

// Pop a word.
func (stack *Stack) Pop() (value uint32, err error) {
	err = stack.canPop(1)
	if err != nil {
		return
	}
	value, err = stack.mem.Read32(*stack.sp)
	if err != nil {
		return
	}
	*stack.sp += 4
	return
}

// Pop2 pops two words, the top word first.
func (stack *Stack) Pop2() (first uint32, second uint32, err error) {
	err = stack.canPop(2)
	if err != nil {
		return
	}
	first, _ = stack.Pop()
	second, _ = stack.Pop()
	return
}

// Peek at the top word.
func (stack *Stack) Peek() (value uint32, err error) {
	err = stack.canPop(1)
	if err != nil {
		return
	}
	return stack.mem.Read32(*stack.sp)
}

// Dup pushes a copy of the top word.
func (stack *Stack) Dup() (err error) {
	value, err := stack.Peek()
	if err != nil {
		return
	}
	return stack.Push(value)
}
