package vm

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/ezrec/iridium/isa"
)

const (
	DEFAULT_HEAP_LIMIT = 1 << 20 // Default maximum heap size in bytes.
)

// Defines for the virtual machine
var _vm_defines = map[string]string{
	"HEADER_LENGTH":     fmt.Sprintf("%d", isa.HEADER_LENGTH),
	"INSTRUCTION_WIDTH": fmt.Sprintf("%d", isa.INSTRUCTION_WIDTH),
	"REGISTERS":         fmt.Sprintf("%d", isa.REGISTERS),
}

// VM is the state of one iridium machine.
type VM struct {
	Verbose bool // Set to enable verbose logging.

	Registers [isa.REGISTERS]int32 // Register file.
	PC        int                  // Byte offset of the next instruction in Program.
	Heap      []byte               // Heap, grown by aloc.
	Program   []byte               // Image: header, read-only segment, code.
	RoData    []byte               // Read-only segment.
	Remainder uint32               // Remainder of the last div.
	EqualFlag bool                 // Result of the last comparison.

	Output    io.Writer // Sink for prts.
	HeapLimit int       // Maximum heap size in bytes.

	start int // Initial program counter.
}

// New creates a VM with an empty program.
func New(opts ...Option) (vm *VM, err error) {
	vm = &VM{
		Output:    os.Stdout,
		HeapLimit: DEFAULT_HEAP_LIMIT,
	}

	for _, opt := range opts {
		err = opt(vm)
		if err != nil {
			vm = nil
			return
		}
	}

	vm.Clear()

	return
}

// Defines returns an iterator over the machine constants, as equates.
func (vm *VM) Defines() iter.Seq2[string, string] {
	return maps.All(_vm_defines)
}

// Load verifies an image and makes it the program. The machine is reset.
func (vm *VM) Load(image []byte) (err error) {
	image = slices.Clone(image)
	ro, start, err := isa.ParseHeader(image)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrHeader, err)
		return
	}

	vm.Program = image
	vm.RoData = ro
	vm.start = start
	vm.Reset()

	return
}

// Clear replaces the program with an empty image, and resets the machine.
func (vm *VM) Clear() {
	vm.Program = isa.Header(0)
	vm.RoData = nil
	vm.start = isa.HEADER_LENGTH
	vm.Reset()
}

// Reset restores the initial machine state. The program is kept.
func (vm *VM) Reset() {
	clear(vm.Registers[:])
	vm.PC = vm.start
	vm.Heap = nil
	vm.Remainder = 0
	vm.EqualFlag = false
}

// AddBytes appends raw instruction words to the program.
func (vm *VM) AddBytes(code ...byte) {
	vm.Program = append(vm.Program, code...)
}

// Code returns the code segment of the program, and the program
// counter of its first byte.
func (vm *VM) Code() (code []byte, base int) {
	return vm.Program[vm.start:], vm.start
}

// Done returns true if the program counter is past the last instruction.
func (vm *VM) Done() bool {
	return vm.PC >= len(vm.Program)-1
}

// String returns the current machine state as a string.
func (vm *VM) String() string {
	var text strings.Builder

	for row := 0; row < isa.REGISTERS; row += 4 {
		for col := range 4 {
			n := row + col
			if col > 0 {
				text.WriteString("  ")
			}
			fmt.Fprintf(&text, "$%-2d %11d", n, vm.Registers[n])
		}
		text.WriteByte('\n')
	}

	fmt.Fprintf(&text, "   pc: %d\n", vm.PC)
	fmt.Fprintf(&text, "equal: %v\n", vm.EqualFlag)
	fmt.Fprintf(&text, "  rem: %d\n", vm.Remainder)
	fmt.Fprintf(&text, " heap: %d\n", len(vm.Heap))

	return text.String()
}
