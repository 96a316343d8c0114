package emulator

import (
	"errors"

	"github.com/ezrec/bytevm/translate"
	"github.com/ezrec/bytevm/vm"
)

var f = translate.From

var (
	ErrDuplicateTask = errors.New(f("task name duplicated"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Ip     uint32
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (%04x) %v", err.LineNo, err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrInterrupt is an interrupt code with no handler.
type ErrInterrupt uint8

func (err ErrInterrupt) Error() string {
	return f("interrupt %d unhandled", uint8(err))
}

func (err ErrInterrupt) Unwrap() error {
	return vm.ErrUnhandledInterrupt
}
