// Package host provides the console and GPIO capabilities a VM calls into.
package host

// Console is character, number and line I/O for the print and read
// instruction families.
//
// Read methods return io.EOF at end of input and ErrNoValue when the
// input does not hold a value of the requested kind.
type Console interface {
	PrintUint(value uint32) error
	PrintInt(value int32) error
	PrintFloat(value float32) error
	PrintChar(c byte) error
	PrintString(text []byte) error
	PrintNewline() error

	ReadUint() (uint32, error)
	ReadInt() (int32, error)
	ReadFloat() (float32, error)
	ReadChar() (byte, error)
	ReadLine() ([]byte, error) // Without the line terminator.
}

// Hardware is GPIO access for the pin instruction family.
// Hosts without GPIO return ErrUnsupported.
type Hardware interface {
	DigitalRead(pin uint8) (uint32, error)
	AnalogRead(pin uint8) (uint32, error)
	DigitalWrite(pin uint8, value uint32) error
	AnalogWrite(pin uint8, value uint32) error
	PinMode(pin uint8, mode uint8) error
}
