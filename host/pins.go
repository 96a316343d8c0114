package host

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

const (
	PIN_COUNT = 256 // Pins addressable by a u8 operand.

	PIN_MODE_INPUT        = uint8(0) // INPUT
	PIN_MODE_OUTPUT       = uint8(1) // OUTPUT
	PIN_MODE_INPUT_PULLUP = uint8(2) // INPUT_PULLUP

	PIN_LOW  = uint32(0) // LOW
	PIN_HIGH = uint32(1) // HIGH
)

var _pins_defines = map[string]string{
	"PIN_COUNT":             fmt.Sprintf("%d", PIN_COUNT),
	"PIN_MODE_INPUT":        fmt.Sprintf("%d", PIN_MODE_INPUT),
	"PIN_MODE_OUTPUT":       fmt.Sprintf("%d", PIN_MODE_OUTPUT),
	"PIN_MODE_INPUT_PULLUP": fmt.Sprintf("%d", PIN_MODE_INPUT_PULLUP),
	"PIN_LOW":               fmt.Sprintf("%d", PIN_LOW),
	"PIN_HIGH":              fmt.Sprintf("%d", PIN_HIGH),
}

// Pins is a simulated bank of GPIO pins. Reads return the last value
// written to the pin. Each change is reported to Output, when set.
type Pins struct {
	Output io.Writer

	Digital [PIN_COUNT]uint32
	Analog  [PIN_COUNT]uint32
	Mode    [PIN_COUNT]uint8
}

var _ Hardware = (*Pins)(nil)

// Defines returns an iter of defines for the pin bank.
func (pins *Pins) Defines() iter.Seq2[string, string] {
	return maps.All(_pins_defines)
}

// Reset all pins to low inputs.
func (pins *Pins) Reset() {
	output := pins.Output
	*pins = Pins{Output: output}
}

func (pins *Pins) report(format string, args ...any) (err error) {
	if pins.Output == nil {
		return
	}
	_, err = fmt.Fprintf(pins.Output, format+"\n", args...)
	return
}

func (pins *Pins) DigitalRead(pin uint8) (uint32, error) {
	return pins.Digital[pin], nil
}

func (pins *Pins) AnalogRead(pin uint8) (uint32, error) {
	return pins.Analog[pin], nil
}

func (pins *Pins) DigitalWrite(pin uint8, value uint32) error {
	pins.Digital[pin] = value
	return pins.report("set pin %d to D%d", pin, value)
}

func (pins *Pins) AnalogWrite(pin uint8, value uint32) error {
	pins.Analog[pin] = value
	return pins.report("set pin %d to A%d", pin, value)
}

func (pins *Pins) PinMode(pin uint8, mode uint8) error {
	pins.Mode[pin] = mode
	return pins.report("set pin %d to mode %d", pin, mode)
}
