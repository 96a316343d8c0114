package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Stream is a Console over an input reader and an output writer.
// Numbers are whitespace separated decimal text; floats print as "%f".
type Stream struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
	source io.Reader
}

var _ Console = (*Stream)(nil)

// Rewind drops any buffered input.
func (st *Stream) Rewind() {
	st.reader = nil
	st.source = nil
}

func (st *Stream) input() (rd *bufio.Reader, err error) {
	if st.Input == nil {
		err = ErrNoInput
		return
	}
	if st.reader == nil || st.source != st.Input {
		st.reader = bufio.NewReader(st.Input)
		st.source = st.Input
	}
	rd = st.reader
	return
}

func (st *Stream) printf(format string, args ...any) (err error) {
	if st.Output == nil {
		err = ErrNoOutput
		return
	}
	_, err = fmt.Fprintf(st.Output, format, args...)
	return
}

func (st *Stream) PrintUint(value uint32) error {
	return st.printf("%d", value)
}

func (st *Stream) PrintInt(value int32) error {
	return st.printf("%d", value)
}

func (st *Stream) PrintFloat(value float32) error {
	return st.printf("%f", value)
}

func (st *Stream) PrintChar(c byte) error {
	return st.printf("%c", c)
}

func (st *Stream) PrintString(text []byte) error {
	return st.printf("%s", text)
}

func (st *Stream) PrintNewline() error {
	return st.printf("\n")
}

// token skips leading white space, then collects the bytes accepted by
// valid. The first rejected byte is left in the input.
func (st *Stream) token(valid func(c byte, text []byte) bool) (text string, err error) {
	rd, err := st.input()
	if err != nil {
		return
	}

	var word []byte
	for {
		var c byte
		c, err = rd.ReadByte()
		if err != nil {
			break
		}
		if len(word) == 0 && strings.IndexByte(" \t\r\n\v\f", c) >= 0 {
			continue
		}
		if !valid(c, word) {
			_ = rd.UnreadByte()
			break
		}
		word = append(word, c)
	}

	switch {
	case len(word) > 0:
		err = nil
	case err == nil:
		err = ErrNoValue
	}

	text = string(word)
	return
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func signedDigit(c byte, text []byte) bool {
	return isDigit(c) || (len(text) == 0 && (c == '-' || c == '+'))
}

func floatDigit(c byte, text []byte) bool {
	switch {
	case isDigit(c), c == '.':
		return true
	case c == 'e' || c == 'E':
		return len(text) > 0
	case c == '-' || c == '+':
		return len(text) == 0 || text[len(text)-1] == 'e' || text[len(text)-1] == 'E'
	}
	return false
}

// ReadUint reads a decimal number. A negative number wraps.
func (st *Stream) ReadUint() (value uint32, err error) {
	text, err := st.token(signedDigit)
	if err != nil {
		return
	}
	v64, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		err = errors.Join(ErrNoValue, err)
		return
	}
	value = uint32(v64)
	return
}

func (st *Stream) ReadInt() (value int32, err error) {
	text, err := st.token(signedDigit)
	if err != nil {
		return
	}
	v64, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		err = errors.Join(ErrNoValue, err)
		return
	}
	value = int32(v64)
	return
}

func (st *Stream) ReadFloat() (value float32, err error) {
	text, err := st.token(floatDigit)
	if err != nil {
		return
	}
	v64, err := strconv.ParseFloat(text, 32)
	if err != nil {
		err = errors.Join(ErrNoValue, err)
		return
	}
	value = float32(v64)
	return
}

// ReadChar reads the next byte, white space included.
func (st *Stream) ReadChar() (c byte, err error) {
	rd, err := st.input()
	if err != nil {
		return
	}
	return rd.ReadByte()
}

// ReadLine reads up to the next newline. A final line without a
// newline is returned whole; io.EOF is only returned with no text.
func (st *Stream) ReadLine() (line []byte, err error) {
	rd, err := st.input()
	if err != nil {
		return
	}

	text, err := rd.ReadString('\n')
	if err == io.EOF && len(text) > 0 {
		err = nil
	}
	if err != nil {
		return
	}

	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	line = []byte(text)
	return
}
