package host

import (
	"io"
)

// Null is a Console with no input that discards all output.
type Null struct{}

var _ Console = Null{}

func (Null) PrintUint(uint32) error { return nil }
func (Null) PrintInt(int32) error { return nil }
func (Null) PrintFloat(float32) error { return nil }
func (Null) PrintChar(byte) error { return nil }
func (Null) PrintString([]byte) error { return nil }
func (Null) PrintNewline() error { return nil }
func (Null) ReadUint() (uint32, error) { return 0, io.EOF }
func (Null) ReadInt() (int32, error) { return 0, io.EOF }
func (Null) ReadFloat() (float32, error) { return 0, io.EOF }
func (Null) ReadChar() (byte, error) { return 0, io.EOF }
func (Null) ReadLine() ([]byte, error) { return nil, io.EOF }

// NoHardware reports every GPIO operation as unsupported.
type NoHardware struct{}

var _ Hardware = NoHardware{}

func (NoHardware) DigitalRead(uint8) (uint32, error) { return 0, ErrUnsupported }
func (NoHardware) AnalogRead(uint8) (uint32, error) { return 0, ErrUnsupported }
func (NoHardware) DigitalWrite(uint8, uint32) error { return ErrUnsupported }
func (NoHardware) AnalogWrite(uint8, uint32) error { return ErrUnsupported }
func (NoHardware) PinMode(uint8, uint8) error { return ErrUnsupported }
