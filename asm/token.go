package asm

import (
	"fmt"
	"strings"

	"github.com/ezrec/iridium/isa"
)

// TokenKind tags the variant held by a Token.
type TokenKind int

//go:generate go tool stringer -linecomment -type=TokenKind
const (
	TOKEN_OPCODE            = TokenKind(iota) // opcode
	TOKEN_REGISTER                            // register
	TOKEN_INTEGER                             // integer
	TOKEN_LABEL_DECLARATION                   // label declaration
	TOKEN_LABEL_USAGE                         // label usage
	TOKEN_DIRECTIVE                           // directive
	TOKEN_STRING                              // string
)

// Token is a single lexical element of assembly text.
type Token struct {
	Kind     TokenKind
	Opcode   isa.Opcode // TOKEN_OPCODE
	Register uint8      // TOKEN_REGISTER
	Value    int32      // TOKEN_INTEGER
	Name     string     // TOKEN_LABEL_*, TOKEN_DIRECTIVE
	Text     string     // TOKEN_STRING
}

// IsOperand returns true if the token can fill an operand slot.
func (tok *Token) IsOperand() bool {
	switch tok.Kind {
	case TOKEN_REGISTER, TOKEN_INTEGER, TOKEN_LABEL_USAGE, TOKEN_STRING:
		return true
	}
	return false
}

// String renders the token as assembly text.
func (tok *Token) String() string {
	switch tok.Kind {
	case TOKEN_OPCODE:
		return tok.Opcode.String()
	case TOKEN_REGISTER:
		return fmt.Sprintf("$%d", tok.Register)
	case TOKEN_INTEGER:
		return fmt.Sprintf("#%d", tok.Value)
	case TOKEN_LABEL_DECLARATION:
		return tok.Name + ":"
	case TOKEN_LABEL_USAGE:
		return "@" + tok.Name
	case TOKEN_DIRECTIVE:
		return "." + tok.Name
	case TOKEN_STRING:
		return "'" + escaper.Replace(tok.Text) + "'"
	}
	return "?"
}

var escaper = strings.NewReplacer(
	"\\", "\\\\",
	"'", "\\'",
	"\n", "\\n",
	"\t", "\\t",
	"\r", "\\r",
	"\033", "\\e",
)
