package emulator

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/iridium/asm"
	"github.com/ezrec/iridium/internal"
	"github.com/ezrec/iridium/vm"
)

// Emulator state. VM + listing of the loaded program.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.
	*vm.VM       // Reference to the VM simulation.

	Listing []asm.Line        // Listing of the loaded program.
	Symbols *asm.SymbolTable  // Symbols of the last assembly.
	Equates map[string]string // Additional equates for assembly.
}

// NewEmulator creates a new emulator.
func NewEmulator(opts ...vm.Option) (emu *Emulator, err error) {
	machine, err := vm.New(opts...)
	if err != nil {
		return
	}

	emu = &Emulator{
		VM:      machine,
		Equates: map[string]string{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	emulator_defines := map[string]string{
		"HEAP_LIMIT": fmt.Sprintf("%v", emu.VM.HeapLimit),
	}
	return internal.IterSeq2Concat(maps.All(emulator_defines),
		emu.VM.Defines(),
		maps.All(emu.Equates),
	)
}

func (emu *Emulator) assembler() (assembler *asm.Assembler) {
	assembler = &asm.Assembler{Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		assembler.Predefine(equ, value)
	}
	return
}

// Assemble assembles a complete program, and loads it.
func (emu *Emulator) Assemble(text string) (err error) {
	assembler := emu.assembler()
	image, err := assembler.Assemble(text)
	emu.Symbols = assembler.Symbols
	if err != nil {
		return
	}

	err = emu.VM.Load(image)
	if err != nil {
		return
	}

	emu.Listing = assembler.Listing

	return
}

// Load loads a binary image, which has no listing.
func (emu *Emulator) Load(image []byte) (err error) {
	err = emu.VM.Load(image)
	if err != nil {
		return
	}

	emu.Listing = nil
	emu.Symbols = nil

	return
}

// Append assembles a fragment of code, and appends it to the program.
// lineNo is the source line number of the first line of text.
func (emu *Emulator) Append(text string, lineNo int) (err error) {
	assembler := emu.assembler()
	assembler.FirstLine = lineNo
	code, err := assembler.AssembleCode(text, len(emu.VM.Program))
	if err != nil {
		return
	}

	emu.VM.AddBytes(code...)
	emu.Listing = append(emu.Listing, assembler.Listing...)

	return
}

// Clear removes the program, and resets the VM.
func (emu *Emulator) Clear() {
	emu.VM.Clear()
	emu.Listing = nil
	emu.Symbols = nil
}

// Disassemble writes the disassembly of the loaded code.
func (emu *Emulator) Disassemble(w io.Writer) error {
	code, base := emu.VM.Code()
	return asm.DisassembleCode(code, base, w)
}

// source returns the listing entry of the instruction at pc.
func (emu *Emulator) source() (line asm.Line, ok bool) {
	for _, line = range emu.Listing {
		if emu.VM.PC == line.PC {
			return line, true
		}
	}

	return asm.Line{}, false
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	line, _ := emu.source()
	return line.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set VM verbosity
	emu.VM.Verbose = emu.Verbose

	pc := emu.VM.PC
	line, _ := emu.source()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: line.LineNo, PC: pc, Text: line.Text, Err: err}
		}
	}()

	done, err = emu.VM.RunOnce()

	return
}

// Run ticks until the program is done, or a fault occurs.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}
}
