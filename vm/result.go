package vm

import (
	"errors"
)

// ExecResult is the outcome of a single Run.
type ExecResult int

//go:generate go tool stringer -linecomment -type=ExecResult

const (
	FINISHED                = ExecResult(iota) // finished
	PAUSED                                     // paused
	ERR_UNKNOWN_OPCODE                         // unknown opcode
	ERR_UNSUPPORTED_OPCODE                     // unsupported opcode
	ERR_INVALID_REGISTER                       // invalid register
	ERR_UNHANDLED_INTERRUPT                    // unhandled interrupt
	ERR_STACK_OVERFLOW                         // stack overflow
	ERR_STACK_UNDERFLOW                        // stack underflow
	ERR_INVALID_ADDRESS                        // invalid address
	ERR_PROGRAM_OVERRUN                        // program overrun
	ERR_DIVISION_BY_ZERO                       // division by zero
	ERR_HOST_IO                                // host i/o
	ERR_REENTRANT_RUN                          // re-entrant run
)

var resultErr = [...]error{
	nil,
	nil,
	ErrUnknownOpcode,
	ErrUnsupportedOpcode,
	ErrInvalidRegister,
	ErrUnhandledInterrupt,
	ErrStackOverflow,
	ErrStackUnderflow,
	ErrInvalidAddress,
	ErrProgramOverrun,
	ErrDivisionByZero,
	ErrHostIo,
	ErrReentrantRun,
}

// IsFault is true for every result other than FINISHED and PAUSED.
func (er ExecResult) IsFault() bool {
	return er != FINISHED && er != PAUSED
}

// Err returns the sentinel error of a fault, or nil.
func (er ExecResult) Err() error {
	if er < 0 || int(er) >= len(resultErr) {
		return nil
	}
	return resultErr[er]
}

// resultOf classifies an error returned by an instruction handler.
func resultOf(err error) ExecResult {
	switch {
	case err == nil, errors.Is(err, errHalt), errors.Is(err, errStop):
		return FINISHED
	}

	for n, sentinel := range resultErr {
		if sentinel != nil && errors.Is(err, sentinel) {
			return ExecResult(n)
		}
	}

	return ERR_HOST_IO
}
