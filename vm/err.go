package vm

import (
	"errors"

	"github.com/ezrec/bytevm/translate"
)

var f = translate.From

var (
	// Execution faults
	ErrUnknownOpcode      = errors.New(f("unknown opcode"))
	ErrUnsupportedOpcode  = errors.New(f("unsupported opcode"))
	ErrInvalidRegister    = errors.New(f("invalid register"))
	ErrUnhandledInterrupt = errors.New(f("unhandled interrupt"))
	ErrStackOverflow      = errors.New(f("stack overflow"))
	ErrStackUnderflow     = errors.New(f("stack underflow"))
	ErrInvalidAddress     = errors.New(f("invalid address"))
	ErrProgramOverrun     = errors.New(f("program overrun"))
	ErrDivisionByZero     = errors.New(f("division by zero"))
	ErrHostIo             = errors.New(f("host i/o failure"))
	ErrReentrantRun       = errors.New(f("re-entrant run"))

	// Machine setup errors
	ErrMemoryLimit   = errors.New(f("program and stack exceed memory limit"))
	ErrStateMismatch = errors.New(f("state does not match machine layout"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrMacroSyntax     = errors.New(f(".macro syntax"))
	ErrMacroNesting    = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate  = errors.New(f(".macro duplicated"))
	ErrMacroLonely     = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm = errors.New(f(".endm without .macro"))
	ErrMacroDepth      = errors.New(f(".macro expansion too deep"))
	ErrOperandCount    = errors.New(f("operand count"))
	ErrOperandRange    = errors.New(f("operand out of range"))
	ErrDirective       = errors.New(f("directive unknown"))
	ErrQuote           = errors.New(f("unterminated quote"))
)

// errHalt and errStop end a run without a fault.
var errHalt = errors.New("halt")
var errStop = errors.New("stop")

// ErrFault records the instruction that ended a run.
type ErrFault struct {
	Result  ExecResult
	Ip      uint32
	Opcode  Opcode
	Decoded bool // False when IP was outside memory, and Opcode is unset.
	Err     error
}

func (err *ErrFault) Error() string {
	if !err.Decoded {
		return f("%04x: %v", err.Ip, err.Err)
	}
	return f("%04x: %v: %v", err.Ip, err.Opcode, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

func (err *ErrFault) Is(target error) (ok bool) {
	other, ok := target.(*ErrFault)
	if ok {
		ok = other.Result == err.Result
	}
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseMnemonic string

func (err ErrParseMnemonic) Error() string {
	return f("'%v' is not an instruction", string(err))
}

type ErrParseString string

func (err ErrParseString) Error() string {
	return f("%v is not a valid string", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
