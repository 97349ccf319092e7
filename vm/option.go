package vm

import (
	"io"
)

// Option configures a VM.
type Option func(*VM) error

// Output sets the writer that prts writes to. The default is os.Stdout.
func Output(w io.Writer) Option {
	return func(vm *VM) error {
		vm.Output = w
		return nil
	}
}

// HeapLimit sets the maximum heap size in bytes. The default is
// DEFAULT_HEAP_LIMIT.
func HeapLimit(limit int) Option {
	return func(vm *VM) error {
		if limit < 0 {
			return ErrOption
		}
		vm.HeapLimit = limit
		return nil
	}
}

// Verbose enables or disables per-instruction debug logging.
func Verbose(verbose bool) Option {
	return func(vm *VM) error { vm.Verbose = verbose; return nil }
}
