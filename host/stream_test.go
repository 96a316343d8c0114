package host

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamPrint(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	st := &Stream{Output: &out}

	assert.NoError(st.PrintUint(0xffffffff))
	assert.NoError(st.PrintChar(' '))
	assert.NoError(st.PrintInt(-42))
	assert.NoError(st.PrintChar(' '))
	assert.NoError(st.PrintFloat(1.5))
	assert.NoError(st.PrintNewline())
	assert.NoError(st.PrintString([]byte("hello")))

	assert.Equal("4294967295 -42 1.500000\nhello", out.String())
}

func TestStreamNoStreams(t *testing.T) {
	assert := assert.New(t)

	st := &Stream{}

	assert.ErrorIs(st.PrintNewline(), ErrNoOutput)
	_, err := st.ReadChar()
	assert.ErrorIs(err, ErrNoInput)
}

func TestStreamReadNumbers(t *testing.T) {
	assert := assert.New(t)

	st := &Stream{Input: strings.NewReader("  123\n-45 +6 2.5e1 x")}

	u, err := st.ReadUint()
	assert.NoError(err)
	assert.Equal(uint32(123), u)

	i, err := st.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(-45), i)

	i, err = st.ReadInt()
	assert.NoError(err)
	assert.Equal(int32(6), i)

	fl, err := st.ReadFloat()
	assert.NoError(err)
	assert.Equal(float32(25), fl)

	_, err = st.ReadUint()
	assert.ErrorIs(err, ErrNoValue)

	c, err := st.ReadChar()
	assert.NoError(err)
	assert.Equal(byte('x'), c)

	_, err = st.ReadUint()
	assert.ErrorIs(err, io.EOF)

	_, err = st.ReadChar()
	assert.ErrorIs(err, io.EOF)
}

func TestStreamReadUintWraps(t *testing.T) {
	assert := assert.New(t)

	st := &Stream{Input: strings.NewReader("-1")}

	u, err := st.ReadUint()
	assert.NoError(err)
	assert.Equal(uint32(0xffffffff), u)
}

func TestStreamReadLine(t *testing.T) {
	assert := assert.New(t)

	st := &Stream{Input: strings.NewReader("first line\r\n\nlast")}

	table := []string{"first line", "", "last"}
	for _, expected := range table {
		line, err := st.ReadLine()
		assert.NoError(err)
		assert.Equal(expected, string(line))
	}

	_, err := st.ReadLine()
	assert.ErrorIs(err, io.EOF)
}

func TestStreamRewind(t *testing.T) {
	assert := assert.New(t)

	st := &Stream{Input: strings.NewReader("one\ntwo\n")}

	line, err := st.ReadLine()
	assert.NoError(err)
	assert.Equal("one", string(line))

	st.Input = strings.NewReader("three\n")
	line, err = st.ReadLine()
	assert.NoError(err)
	assert.Equal("three", string(line))

	st.Rewind()
	_, err = st.ReadLine()
	assert.ErrorIs(err, io.EOF)
}

func TestNull(t *testing.T) {
	assert := assert.New(t)

	var con Console = Null{}
	assert.NoError(con.PrintString([]byte("discarded")))
	_, err := con.ReadLine()
	assert.ErrorIs(err, io.EOF)

	var hw Hardware = NoHardware{}
	_, err = hw.DigitalRead(3)
	assert.ErrorIs(err, ErrUnsupported)
}
