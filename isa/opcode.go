package isa

import (
	"strings"
)

// Opcode is the operation code in the first byte of an instruction word.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_LOAD = Opcode(0)   // load
	OP_ADD  = Opcode(1)   // add
	OP_SUB  = Opcode(2)   // sub
	OP_MUL  = Opcode(3)   // mul
	OP_DIV  = Opcode(4)   // div
	OP_JMP  = Opcode(5)   // jmp
	OP_JMPF = Opcode(6)   // jmpf
	OP_JMPB = Opcode(7)   // jmpb
	OP_EQ   = Opcode(8)   // eq
	OP_NEQ  = Opcode(9)   // neq
	OP_GT   = Opcode(10)  // gt
	OP_LT   = Opcode(11)  // lt
	OP_GTQ  = Opcode(12)  // gtq
	OP_LTQ  = Opcode(13)  // ltq
	OP_JEQ  = Opcode(14)  // jeq
	OP_JNEQ = Opcode(15)  // jneq
	OP_NOP  = Opcode(16)  // nop
	OP_ALOC = Opcode(17)  // aloc
	OP_INC  = Opcode(18)  // inc
	OP_DEC  = Opcode(19)  // dec
	OP_PRTS = Opcode(20)  // prts
	OP_HLT  = Opcode(21)  // hlt
	OP_IGL  = Opcode(255) // igl
)

const (
	INSTRUCTION_WIDTH = 4  // Bytes per instruction word.
	REGISTERS         = 32 // Size of the register file.
)

// Field is the kind of an operand slot within an instruction word.
type Field int

const (
	FIELD_REG   = Field(1) // One byte register index.
	FIELD_IMM16 = Field(2) // Two byte big-endian immediate.
	FIELD_PAD   = Field(3) // One byte of zero padding.
)

// Width returns the number of bytes a field occupies.
func (f Field) Width() int {
	if f == FIELD_IMM16 {
		return 2
	}
	return 1
}

var (
	layoutRRR = []Field{FIELD_REG, FIELD_REG, FIELD_REG}
	layoutRRP = []Field{FIELD_REG, FIELD_REG, FIELD_PAD}
	layoutRPP = []Field{FIELD_REG, FIELD_PAD, FIELD_PAD}
	layoutRI  = []Field{FIELD_REG, FIELD_IMM16}
	layoutIP  = []Field{FIELD_IMM16, FIELD_PAD}
	layoutPPP = []Field{FIELD_PAD, FIELD_PAD, FIELD_PAD}
)

// Layout returns the operand fields that follow the opcode byte.
// The fields of a valid opcode always add up to three bytes.
func (op Opcode) Layout() []Field {
	switch op {
	case OP_LOAD:
		return layoutRI
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV:
		return layoutRRR
	case OP_EQ, OP_NEQ, OP_GT, OP_LT, OP_GTQ, OP_LTQ:
		return layoutRRP
	case OP_JMP, OP_JMPF, OP_JMPB, OP_JEQ, OP_JNEQ, OP_ALOC, OP_INC, OP_DEC:
		return layoutRPP
	case OP_PRTS:
		return layoutIP
	case OP_NOP, OP_HLT:
		return layoutPPP
	}
	return nil
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	return op <= OP_HLT
}

// Decode converts an instruction byte to an Opcode.
// Unassigned bytes decode to OP_IGL.
func Decode(b byte) Opcode {
	op := Opcode(b)
	if !op.Valid() {
		return OP_IGL
	}
	return op
}

// mnemonicAlias maps alternate spellings to opcodes.
var mnemonicAlias = map[string]Opcode{
	"jmpe": OP_JEQ,
}

var mnemonicMap = func() map[string]Opcode {
	m := make(map[string]Opcode, int(OP_HLT)+1+len(mnemonicAlias))
	for op := OP_LOAD; op <= OP_HLT; op++ {
		m[op.String()] = op
	}
	for name, op := range mnemonicAlias {
		m[name] = op
	}
	return m
}()

// Lookup returns the opcode for a mnemonic, ignoring case.
// Unknown mnemonics return OP_IGL.
func Lookup(mnemonic string) Opcode {
	op, ok := mnemonicMap[strings.ToLower(mnemonic)]
	if !ok {
		return OP_IGL
	}
	return op
}
