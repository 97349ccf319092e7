package vm

import (
	"errors"

	"github.com/ezrec/iridium/isa"
	"github.com/ezrec/iridium/translate"
)

var f = translate.From

var (
	ErrIllegalOpcode = errors.New(f("illegal opcode"))
	ErrDivideByZero  = errors.New(f("divide by zero"))
	ErrHeapDelta     = errors.New(f("negative heap delta"))
	ErrHeapLimit     = errors.New(f("heap limit exceeded"))
	ErrOutOfBounds   = errors.New(f("out of bounds"))
	ErrRegister      = errors.New(f("register invalid"))
	ErrHeader        = errors.New(f("image header invalid"))
	ErrOption        = errors.New(f("option invalid"))
)

// ErrFault is a runtime fault, at the program counter of the faulting
// instruction.
type ErrFault struct {
	PC     int
	Opcode isa.Opcode
	Err    error
}

func (err *ErrFault) Error() string {
	return f("pc %d %v: %v", err.PC, err.Opcode, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
