package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	code := bytecode(
		OP_LCONS, R0, 0x78, 0x56, 0x34, 0x12,
		OP_JNE, T1, SP, 0x34, 0x12,
		OP_PRINT, R5, 1,
		OP_RET,
	)

	list, err := Disassemble(code)
	assert.NoError(err)

	var text []string
	for _, inst := range list {
		text = append(text, inst.String())
	}

	assert.Equal([]string{
		"0000: lcons r0, 0x12345678",
		"0006: jne t1, sp, 0x1234",
		"000b: print r5, 0x01",
		"000e: ret",
	}, text)

	assert.Equal([]uint32{uint32(T1), uint32(SP), 0x1234}, list[1].Args)
}

func TestDecodeErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Decode([]byte{byte(OP_LCONS), 0, 1}, 0)
	assert.ErrorIs(err, ErrProgramOverrun)

	_, err = Decode([]byte{0xee}, 0)
	assert.ErrorIs(err, ErrUnknownOpcode)

	_, err = Decode(nil, 0)
	assert.ErrorIs(err, ErrProgramOverrun)

	_, err = Disassemble(bytecode(OP_NOP, OP_CALL, 1))
	assert.ErrorIs(err, &ErrFault{Result: ERR_PROGRAM_OVERRUN})
}
