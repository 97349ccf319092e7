package asm

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/ezrec/iridium/isa"
)

var (
	ErrProgramEmpty       = errors.New(f("program empty"))
	ErrStringUnterminated = errors.New(f("string unterminated"))
	ErrRegisterRange      = errors.New(f("register out of range"))
	ErrIntegerRange       = errors.New(f("integer out of range"))
)

// Instruction is one parsed line of assembly.
// Exactly one of Opcode and Directive is set.
type Instruction struct {
	LineNo    int       // Source line the instruction starts on.
	Text      string    // Source text of the instruction.
	Label     *Token    // Optional preceding label declaration.
	Opcode    *Token    // Opcode, for an opcode line.
	Directive *Token    // Directive, for a directive line.
	Operands  [3]*Token // Operands, in order.
}

// OperandCount returns the number of operands present.
func (inst *Instruction) OperandCount() (count int) {
	for _, tok := range inst.Operands {
		if tok != nil {
			count++
		}
	}
	return
}

// String renders the instruction as canonical assembly text.
func (inst *Instruction) String() string {
	var words []string
	if inst.Label != nil {
		words = append(words, inst.Label.String())
	}
	if inst.Opcode != nil {
		words = append(words, inst.Opcode.String())
	}
	if inst.Directive != nil {
		words = append(words, inst.Directive.String())
	}
	for _, tok := range inst.Operands {
		if tok != nil {
			words = append(words, tok.String())
		}
	}
	return strings.Join(words, " ")
}

// Program is the ordered list of instructions in a source text.
type Program struct {
	Instructions []Instruction
}

// Parser converts assembly text into a Program.
type Parser struct {
	Equate    map[string]string // Names visible to #$(...) expressions.
	FirstLine int               // Line number of the first line of text, if not 1.
}

// Parse parses the text. The first syntax error aborts the parse.
func (p *Parser) Parse(text string) (prog *Program, err error) {
	sc := newScanner(text, p.Equate)
	if p.FirstLine > 0 {
		sc.firstLine = p.FirstLine
	}

	prog = &Program{}
	for {
		sc.skipSpace()
		if sc.eof() {
			break
		}

		inst, ok := sc.instruction()
		if !ok {
			err = sc.failure()
			prog = nil
			return
		}
		prog.Instructions = append(prog.Instructions, *inst)
	}

	if len(prog.Instructions) == 0 {
		sc.token = sc.pos
		sc.reject(ErrProgramEmpty)
		err = sc.failure()
		prog = nil
		return
	}

	return
}

// scanner is a backtracking cursor over assembly text.
type scanner struct {
	text      string
	pos       int
	lineStart []int
	equate    map[string]string
	token     int   // Start of the operand being matched.
	err       error // Most recent reason for a failed match.
	errPos    int   // Start of the operand that err rejected.
	firstLine int   // Line number of text[0].
}

func newScanner(text string, equate map[string]string) (sc *scanner) {
	sc = &scanner{
		text:      text,
		lineStart: []int{0},
		equate:    equate,
		firstLine: 1,
	}
	for n := range len(text) {
		if text[n] == '\n' {
			sc.lineStart = append(sc.lineStart, n+1)
		}
	}
	return
}

// position returns the line and column of a text offset. Columns count
// from 1, and lines from firstLine.
func (sc *scanner) position(pos int) (line int, column int) {
	n, found := slices.BinarySearch(sc.lineStart, pos)
	if !found {
		n--
	}
	line = n + sc.firstLine
	column = pos - sc.lineStart[n] + 1
	return
}

// reject records why the operand at sc.token did not match.
func (sc *scanner) reject(err error) {
	sc.err = err
	sc.errPos = sc.token
}

// failure returns the parse error at the current position.
func (sc *scanner) failure() error {
	perr := &ErrParse{
		Remainder: sc.text[sc.pos:],
	}
	perr.LineNo, perr.Column = sc.position(sc.pos)
	if sc.errPos >= sc.pos {
		perr.Err = sc.err
	}
	return perr
}

func (sc *scanner) eof() bool {
	return sc.pos >= len(sc.text)
}

func (sc *scanner) peek() byte {
	if sc.eof() {
		return 0
	}
	return sc.text[sc.pos]
}

// skipSpace skips whitespace and ';' comments.
func (sc *scanner) skipSpace() {
	for !sc.eof() {
		switch sc.text[sc.pos] {
		case ' ', '\t', '\r', '\n':
			sc.pos++
		case ';':
			end := strings.IndexByte(sc.text[sc.pos:], '\n')
			if end < 0 {
				sc.pos = len(sc.text)
			} else {
				sc.pos += end
			}
		default:
			return
		}
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_'
}

func isIdent(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// identifier consumes [A-Za-z_][A-Za-z0-9_]*.
func (sc *scanner) identifier() (name string, ok bool) {
	start := sc.pos
	if !isIdentStart(sc.peek()) {
		return
	}
	for !sc.eof() && isIdent(sc.text[sc.pos]) {
		sc.pos++
	}
	name = sc.text[start:sc.pos]
	ok = true
	return
}

// shape is one alternative form of an instruction.
type shape func(sc *scanner) (inst *Instruction, ok bool)

// shapes are tried in order, and the first match wins.
// The generic form must stay last, or it shadows the specific forms.
var shapes = []shape{
	(*scanner).shapeRegisterRegisterRegister,
	(*scanner).shapeRegisterImmediate,
	(*scanner).shapeNoOperand,
	(*scanner).shapeGeneric,
}

// instruction parses one instruction, trying each shape in turn.
func (sc *scanner) instruction() (inst *Instruction, ok bool) {
	start := sc.pos
	for _, try := range shapes {
		sc.pos = start
		inst, ok = try(sc)
		if ok {
			inst.LineNo, _ = sc.position(start)
			inst.Text = strings.TrimSpace(sc.text[start:sc.pos])
			return
		}
	}
	sc.pos = start
	return
}

// labelledOpcode consumes an optional label declaration and an opcode.
func (sc *scanner) labelledOpcode() (inst *Instruction, ok bool) {
	inst = &Instruction{}
	inst.Label, _ = sc.labelDeclaration()
	sc.skipSpace()
	inst.Opcode, ok = sc.opcode()
	return
}

// operandOf consumes one operand of the given kind.
func (sc *scanner) operandOf(kind TokenKind) (tok *Token, ok bool) {
	sc.skipSpace()
	mark := sc.pos
	tok, ok = sc.operand()
	if ok && tok.Kind != kind {
		ok = false
	}
	if !ok {
		sc.pos = mark
		tok = nil
	}
	return
}

func (sc *scanner) shapeRegisterRegisterRegister() (inst *Instruction, ok bool) {
	inst, ok = sc.labelledOpcode()
	for n := range 3 {
		if !ok {
			return
		}
		inst.Operands[n], ok = sc.operandOf(TOKEN_REGISTER)
	}
	return
}

func (sc *scanner) shapeRegisterImmediate() (inst *Instruction, ok bool) {
	inst, ok = sc.labelledOpcode()
	if !ok {
		return
	}
	inst.Operands[0], ok = sc.operandOf(TOKEN_REGISTER)
	if !ok {
		return
	}
	inst.Operands[1], ok = sc.operandOf(TOKEN_INTEGER)
	return
}

func (sc *scanner) shapeNoOperand() (inst *Instruction, ok bool) {
	inst, ok = sc.labelledOpcode()
	if !ok {
		return
	}

	end := sc.pos
	sc.skipSpace()
	_, more := sc.operand()
	sc.pos = end
	ok = !more

	return
}

func (sc *scanner) shapeGeneric() (inst *Instruction, ok bool) {
	inst = &Instruction{}
	inst.Label, _ = sc.labelDeclaration()
	sc.skipSpace()

	inst.Opcode, ok = sc.opcode()
	if !ok {
		inst.Directive, ok = sc.directive()
		if !ok {
			return
		}
	}

	for n := range inst.Operands {
		end := sc.pos
		sc.skipSpace()
		tok, more := sc.operand()
		if !more {
			sc.pos = end
			break
		}
		inst.Operands[n] = tok
	}

	return
}

// labelDeclaration consumes 'name:'.
func (sc *scanner) labelDeclaration() (tok *Token, ok bool) {
	mark := sc.pos
	name, ok := sc.identifier()
	if ok && sc.peek() == ':' {
		sc.pos++
		tok = &Token{Kind: TOKEN_LABEL_DECLARATION, Name: name}
		return
	}
	sc.pos = mark
	ok = false
	return
}

// opcode consumes a mnemonic. Unknown mnemonics become OP_IGL.
func (sc *scanner) opcode() (tok *Token, ok bool) {
	mark := sc.pos
	for !sc.eof() && isLetter(sc.text[sc.pos]) {
		sc.pos++
	}
	if sc.pos == mark || isIdent(sc.peek()) || sc.peek() == ':' {
		sc.pos = mark
		return
	}

	tok = &Token{Kind: TOKEN_OPCODE, Opcode: isa.Lookup(sc.text[mark:sc.pos])}
	ok = true
	return
}

// directive consumes '.name'.
func (sc *scanner) directive() (tok *Token, ok bool) {
	mark := sc.pos
	if sc.peek() != '.' {
		return
	}
	sc.pos++
	name, ok := sc.identifier()
	if !ok {
		sc.pos = mark
		return
	}
	tok = &Token{Kind: TOKEN_DIRECTIVE, Name: name}
	return
}

// operand consumes one operand. The alternatives are tried in order.
func (sc *scanner) operand() (tok *Token, ok bool) {
	for _, try := range []func() (*Token, bool){
		sc.integer,
		sc.labelUsage,
		sc.register,
		sc.stringLiteral,
	} {
		mark := sc.pos
		sc.token = mark
		tok, ok = try()
		if ok {
			return
		}
		sc.pos = mark
	}
	return
}

// integer consumes '#N' or '#$(expr)'.
func (sc *scanner) integer() (tok *Token, ok bool) {
	if sc.peek() != '#' {
		return
	}
	sc.pos++

	var value int32
	if strings.HasPrefix(sc.text[sc.pos:], "$(") {
		var expr string
		expr, ok = sc.parenthesized()
		if !ok {
			return
		}
		line, _ := sc.position(sc.pos)
		var err error
		value, err = evaluate(expr, sc.equate, line)
		if err != nil {
			sc.reject(err)
			ok = false
			return
		}
	} else {
		value, ok = sc.number()
		if !ok {
			return
		}
	}

	tok = &Token{Kind: TOKEN_INTEGER, Value: value}
	return
}

// parenthesized consumes '$(...)' with balanced parentheses,
// returning the inner text.
func (sc *scanner) parenthesized() (expr string, ok bool) {
	sc.pos++ // '$'
	start := sc.pos + 1
	depth := 0
	for !sc.eof() {
		c := sc.text[sc.pos]
		sc.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				expr = sc.text[start : sc.pos-1]
				ok = true
				return
			}
		case '\n':
			return
		}
	}
	return
}

// number consumes a signed decimal, or 0x hexadecimal, 32-bit value.
func (sc *scanner) number() (value int32, ok bool) {
	start := sc.pos
	if c := sc.peek(); c == '-' || c == '+' {
		sc.pos++
	}

	base := 10
	digits := sc.pos
	rest := sc.text[sc.pos:]
	if strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X") {
		base = 16
		sc.pos += 2
		digits = sc.pos
	}

	for !sc.eof() && isDigitOf(sc.text[sc.pos], base) {
		sc.pos++
	}
	if sc.pos == digits || isIdent(sc.peek()) {
		return
	}

	text := sc.text[digits:sc.pos]
	if sc.text[start] == '-' {
		text = "-" + text
	}
	v64, err := strconv.ParseInt(text, base, 32)
	if err != nil {
		sc.reject(ErrIntegerRange)
		return
	}

	value = int32(v64)
	ok = true
	return
}

func isDigitOf(c byte, base int) bool {
	if base == 16 {
		return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return isDigit(c)
}

// labelUsage consumes '@name'.
func (sc *scanner) labelUsage() (tok *Token, ok bool) {
	if sc.peek() != '@' {
		return
	}
	sc.pos++
	name, ok := sc.identifier()
	if !ok {
		return
	}
	tok = &Token{Kind: TOKEN_LABEL_USAGE, Name: name}
	return
}

// register consumes '$N', where N is a register index.
func (sc *scanner) register() (tok *Token, ok bool) {
	if sc.peek() != '$' {
		return
	}
	sc.pos++
	start := sc.pos
	for !sc.eof() && isDigit(sc.text[sc.pos]) {
		sc.pos++
	}
	if sc.pos == start || isIdent(sc.peek()) {
		return
	}
	index, err := strconv.Atoi(sc.text[start:sc.pos])
	if err != nil || index >= isa.REGISTERS {
		sc.reject(ErrRegisterRange)
		return
	}

	tok = &Token{Kind: TOKEN_REGISTER, Register: uint8(index)}
	ok = true
	return
}

// unescape maps the character after a '\' to its value.
var unescape = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'e':  '\033',
	'\\': '\\',
	'\'': '\'',
}

// stringLiteral consumes a single quoted string, with escapes.
func (sc *scanner) stringLiteral() (tok *Token, ok bool) {
	if sc.peek() != '\'' {
		return
	}
	sc.pos++

	var text strings.Builder
	for !sc.eof() {
		c := sc.text[sc.pos]
		sc.pos++
		switch c {
		case '\'':
			tok = &Token{Kind: TOKEN_STRING, Text: text.String()}
			ok = true
			return
		case '\n':
			sc.reject(ErrStringUnterminated)
			return
		case '\\':
			escaped, known := unescape[sc.peek()]
			if !known {
				text.WriteByte(c)
				continue
			}
			text.WriteByte(escaped)
			sc.pos++
		default:
			text.WriteByte(c)
		}
	}

	sc.reject(ErrStringUnterminated)
	return
}
