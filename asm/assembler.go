package asm

import (
	"maps"
	"strings"

	"go.uber.org/zap"

	"github.com/ezrec/iridium/isa"
)

// Line is the listing entry of one encoded instruction.
type Line struct {
	Offset uint32 // Offset within the code segment.
	PC     int    // Program counter of the instruction in the image.
	LineNo int    // Source line number.
	Text   string // Source text.
}

// Assembler is a two pass assembler for the iridium machine.
type Assembler struct {
	Verbose   bool // If set, verbosely logs the assembler actions.
	FirstLine int  // Line number of the first source line, if not 1.

	Symbols  *SymbolTable // Symbols from the last assembly.
	Sections []Section    // Sections from the last assembly.
	Listing  []Line       // Encoded instructions from the last assembly.

	predefine map[string]string // Predefined equates.
}

// Predefine defines a new equate or redefines an existing equate.
// Equates are visible to #$(...) expressions.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func (asm *Assembler) parse(text string) (prog *Program, err error) {
	parser := &Parser{
		Equate:    maps.Clone(asm.predefine),
		FirstLine: asm.FirstLine,
	}
	prog, err = parser.Parse(text)
	if err != nil {
		return
	}

	if asm.Verbose {
		for _, inst := range prog.Instructions {
			Logger().Debug("parsed", zap.Int("line", inst.LineNo), zap.Stringer("instruction", &inst))
		}
	}

	return
}

// Assemble compiles a complete program into a binary image.
//
// A syntax error is returned as an *ErrParse. Otherwise every problem
// found is returned together as Errors, and no image is produced.
func (asm *Assembler) Assemble(text string) (image []byte, err error) {
	asm.Symbols = nil
	asm.Sections = nil
	asm.Listing = nil

	prog, err := asm.parse(text)
	if err != nil {
		return
	}

	fp := runFirstPass(prog, false)
	asm.Symbols = fp.symbols
	asm.Sections = fp.sections

	var data, code int
	for _, section := range fp.sections {
		switch section.Kind {
		case SECTION_DATA:
			data++
		case SECTION_CODE:
			code++
		}
	}
	if data != 1 || code != 1 {
		fp.errs = append(fp.errs, &ErrInsufficientSections{Data: data, Code: code})
	}

	if len(fp.errs) != 0 {
		err = fp.errs
		return
	}

	base := isa.HEADER_LENGTH + len(fp.ro)
	sp := runSecondPass(prog, fp.symbols, base)
	asm.Listing = sp.listing
	if len(sp.errs) != 0 {
		err = sp.errs
		return
	}

	image = make([]byte, 0, base+len(sp.code))
	image = append(image, isa.Header(len(fp.ro))...)
	image = append(image, fp.ro...)
	image = append(image, sp.code...)

	if asm.Verbose {
		Logger().Debug("assembled",
			zap.Int("ro", len(fp.ro)),
			zap.Int("code", len(sp.code)),
			zap.Int("symbols", fp.symbols.Len()),
		)
	}

	return
}

// AssembleCode compiles a fragment of code, with no header and no
// sections, to be placed at program counter base.
func (asm *Assembler) AssembleCode(text string, base int) (code []byte, err error) {
	asm.Symbols = nil
	asm.Sections = nil
	asm.Listing = nil

	prog, err := asm.parse(text)
	if err != nil {
		return
	}

	fp := runFirstPass(prog, true)
	asm.Symbols = fp.symbols
	asm.Sections = fp.sections
	if len(fp.errs) != 0 {
		err = fp.errs
		return
	}

	sp := runSecondPass(prog, fp.symbols, base)
	asm.Listing = sp.listing
	if len(sp.errs) != 0 {
		err = sp.errs
		return
	}

	code = sp.code
	return
}

// firstPass accumulates the sections, symbols, and read-only segment.
type firstPass struct {
	fragment bool // Code fragment, with an implicit .code section.

	symbols  *SymbolTable
	sections []Section
	current  SectionKind
	offset   uint32 // Running code segment offset.
	ro       []byte // Read-only segment.
	errs     Errors
}

func (fp *firstPass) fail(inst *Instruction, err error) {
	fp.errs = append(fp.errs, &ErrLine{LineNo: inst.LineNo, Err: err})
}

// bind declares the instruction's label, if any, at a segment offset.
func (fp *firstPass) bind(inst *Instruction, section SectionKind, offset uint32) {
	if inst.Label == nil {
		return
	}

	name := inst.Label.Name
	err := fp.symbols.Declare(Symbol{Name: name, Kind: SYMBOL_LABEL, Section: section})
	if err == nil {
		err = fp.symbols.SetOffset(name, offset)
	}
	if err != nil {
		fp.fail(inst, err)
	}
}

func runFirstPass(prog *Program, fragment bool) (fp *firstPass) {
	fp = &firstPass{
		fragment: fragment,
		symbols:  NewSymbolTable(),
	}
	if fragment {
		fp.current = SECTION_CODE
	}

	for n := range prog.Instructions {
		inst := &prog.Instructions[n]
		if inst.Directive != nil {
			fp.directive(n, inst)
		} else {
			fp.opcode(inst)
		}
	}

	for len(fp.ro)%isa.INSTRUCTION_WIDTH != 0 {
		fp.ro = append(fp.ro, 0)
	}

	return
}

func (fp *firstPass) directive(index int, inst *Instruction) {
	name := strings.ToLower(inst.Directive.Name)

	if kind := sectionOf(name); kind != SECTION_UNKNOWN {
		if inst.OperandCount() != 0 {
			fp.fail(inst, ErrDirectiveOperand)
		}
		fp.sections = append(fp.sections, Section{Kind: kind, StartingInstruction: index})
		fp.current = kind
		fp.bind(inst, SECTION_CODE, fp.offset)
		return
	}

	if name != "asciiz" {
		fp.fail(inst, ErrUnknownDirective)
		return
	}

	switch {
	case fp.current == SECTION_UNKNOWN:
		fp.fail(inst, ErrNoSegmentDeclarationFound)
		return
	case fp.fragment || fp.current != SECTION_DATA:
		fp.fail(inst, ErrWrongSection)
		return
	case inst.Label == nil:
		fp.fail(inst, ErrStringConstantDeclaredWithoutLabel)
		return
	}

	str := inst.Operands[0]
	if str == nil || str.Kind != TOKEN_STRING || inst.OperandCount() != 1 {
		fp.fail(inst, ErrDirectiveOperand)
		return
	}

	fp.bind(inst, SECTION_DATA, uint32(len(fp.ro)))
	fp.ro = append(fp.ro, str.Text...)
	fp.ro = append(fp.ro, 0)
}

func (fp *firstPass) opcode(inst *Instruction) {
	switch fp.current {
	case SECTION_UNKNOWN:
		fp.fail(inst, ErrNoSegmentDeclarationFound)
		return
	case SECTION_DATA:
		fp.fail(inst, ErrWrongSection)
	}

	if inst.Opcode != nil && inst.Opcode.Kind == TOKEN_OPCODE && inst.Opcode.Opcode == isa.OP_IGL {
		fp.fail(inst, ErrUnknownOpcode)
	}

	fp.bind(inst, SECTION_CODE, fp.offset)
	fp.offset += isa.INSTRUCTION_WIDTH
}

// secondPass accumulates the encoded code segment.
type secondPass struct {
	symbols *SymbolTable
	base    int // Program counter of the first code byte.

	code    []byte
	listing []Line
	errs    Errors
}

func (sp *secondPass) fail(inst *Instruction, err error) {
	sp.errs = append(sp.errs, &ErrLine{LineNo: inst.LineNo, Err: err})
}

func runSecondPass(prog *Program, symbols *SymbolTable, base int) (sp *secondPass) {
	sp = &secondPass{
		symbols: symbols,
		base:    base,
	}

	for n := range prog.Instructions {
		inst := &prog.Instructions[n]
		if inst.Directive != nil {
			continue
		}

		err := sp.encode(inst)
		if err != nil {
			// Internal consistency faults abort the pass.
			sp.fail(inst, err)
			return
		}
	}

	return
}

// encode appends one instruction word.
func (sp *secondPass) encode(inst *Instruction) (err error) {
	if inst.Opcode == nil || inst.Opcode.Kind != TOKEN_OPCODE {
		err = ErrNonOpcodeInOpcodeField
		return
	}

	var word [isa.INSTRUCTION_WIDTH]byte
	word[0] = byte(inst.Opcode.Opcode)
	used := 1

	for _, tok := range inst.Operands {
		if tok == nil {
			continue
		}
		if !tok.IsOperand() {
			err = ErrOpcodeInOperandField
			return
		}

		var field []byte
		switch tok.Kind {
		case TOKEN_REGISTER:
			field = []byte{tok.Register}
		case TOKEN_INTEGER:
			field = []byte{byte(tok.Value >> 8), byte(tok.Value)}
		case TOKEN_LABEL_USAGE:
			value, ok := sp.resolve(inst, tok.Name)
			if !ok {
				continue
			}
			field = []byte{byte(value >> 8), byte(value)}
		default:
			sp.fail(inst, ErrOperandInvalid)
			continue
		}

		if used+len(field) > len(word) {
			sp.fail(inst, ErrInstructionTooLong)
			break
		}
		copy(word[used:], field)
		used += len(field)
	}

	offset := uint32(len(sp.code))
	sp.listing = append(sp.listing, Line{
		Offset: offset,
		PC:     sp.base + int(offset),
		LineNo: inst.LineNo,
		Text:   inst.Text,
	})
	sp.code = append(sp.code, word[:]...)

	return
}

// resolve returns the 16-bit encoding of a label.
// Code labels encode as program counters, and data labels as read-only
// segment offsets.
func (sp *secondPass) resolve(inst *Instruction, name string) (value uint32, ok bool) {
	offset, err := sp.symbols.Resolve(name)
	if err != nil {
		sp.fail(inst, err)
		return
	}

	sym, _ := sp.symbols.Lookup(name)
	value = offset
	if sym.Section == SECTION_CODE {
		value += uint32(sp.base)
	}

	if value > 0xffff {
		sp.fail(inst, ErrOperandInvalid)
		return
	}

	ok = true
	return
}
