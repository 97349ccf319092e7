package emulator

import (
	"github.com/ezrec/iridium/translate"
)

var f = translate.From

// ErrRuntime places a VM fault at the source line that was executing.
// LineNo is zero when the program has no listing, as for a loaded image.
type ErrRuntime struct {
	LineNo int    // Source line number.
	PC     int    // Program counter of the instruction.
	Text   string // Source text of the instruction.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return err.Err.Error()
	}
	return f("line %d %v: %v", err.LineNo, err.Text, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
