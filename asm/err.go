package asm

import (
	"errors"
	"strings"

	"github.com/ezrec/iridium/translate"
)

var f = translate.From

var (
	// First pass errors
	ErrNoSegmentDeclarationFound          = errors.New(f("no segment declaration found"))
	ErrSymbolAlreadyDeclared              = errors.New(f("symbol already declared"))
	ErrUnknownDirective                   = errors.New(f("unknown directive"))
	ErrUnknownOpcode                      = errors.New(f("unknown opcode"))
	ErrStringConstantDeclaredWithoutLabel = errors.New(f("string constant declared without label"))
	ErrDirectiveOperand                   = errors.New(f("directive operand invalid"))
	ErrWrongSection                       = errors.New(f("wrong section"))

	// Second pass errors
	ErrNonOpcodeInOpcodeField = errors.New(f("non-opcode in opcode field"))
	ErrOpcodeInOperandField   = errors.New(f("opcode in operand field"))
	ErrInstructionTooLong     = errors.New(f("instruction too long"))
	ErrOperandInvalid         = errors.New(f("operand invalid"))

	// Symbol table errors
	ErrSymbolRebound = errors.New(f("symbol offset already bound"))
)

// ErrUndefinedSymbol is a reference to a symbol with no bound offset.
type ErrUndefinedSymbol string

func (err ErrUndefinedSymbol) Error() string {
	return f("undefined symbol %v", string(err))
}

// ErrExpression is a #$(...) expression that did not evaluate to an integer.
type ErrExpression string

func (err ErrExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrParse is a failure to parse the source text.
type ErrParse struct {
	LineNo    int    // Line of the failure, from 1.
	Column    int    // Column of the failure, from 1.
	Remainder string // Unconsumed text.
	Err       error  // Reason, if known.
}

func (err *ErrParse) Error() string {
	rest, _, _ := strings.Cut(err.Remainder, "\n")
	if err.Err != nil {
		return f("line %d column %d '%v' %v", err.LineNo, err.Column, rest, err.Err)
	}
	return f("line %d column %d '%v' unexpected", err.LineNo, err.Column, rest)
}

func (err *ErrParse) Unwrap() error {
	return err.Err
}

// ErrLine places a collected assembly error at a source line.
type ErrLine struct {
	LineNo int
	Err    error
}

func (err *ErrLine) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrLine) Unwrap() error {
	return err.Err
}

// ErrInsufficientSections is a program without exactly one .data and
// one .code section.
type ErrInsufficientSections struct {
	Data int // Number of .data sections found.
	Code int // Number of .code sections found.
}

func (err *ErrInsufficientSections) Error() string {
	return f("insufficient sections: %d .data, %d .code", err.Data, err.Code)
}

// Errors is the list of errors collected during an assembly.
type Errors []error

func (errs Errors) Error() string {
	text := make([]string, len(errs))
	for n, err := range errs {
		text[n] = err.Error()
	}
	return strings.Join(text, "\n")
}

func (errs Errors) Unwrap() []error {
	return errs
}
