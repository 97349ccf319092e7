package asm

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/ezrec/iridium/internal"
	"github.com/ezrec/iridium/isa"
)

// Disassemble writes a disassembly of the instruction word at position pc
// of code to the specified io.Writer, and returns the position of the next
// instruction word and any write error.
func Disassemble(code []byte, pc int, w io.Writer) (next int, err error) {
	ew := internal.NewErrWriter(w)

	next = pc + isa.INSTRUCTION_WIDTH

	op := isa.Decode(code[pc])
	if op == isa.OP_IGL {
		fmt.Fprintf(ew, "igl 0x%02x", code[pc])
		return next, ew.Err
	}

	io.WriteString(ew, op.String())
	at := pc + 1
	for _, field := range op.Layout() {
		width := field.Width()
		if field == isa.FIELD_PAD {
			at += width
			continue
		}
		ew.Write([]byte{' '})
		if at+width > len(code) {
			io.WriteString(ew, "???")
			break
		}
		switch field {
		case isa.FIELD_REG:
			io.WriteString(ew, "$"+strconv.Itoa(int(code[at])))
		case isa.FIELD_IMM16:
			io.WriteString(ew, "#"+strconv.Itoa(int(code[at])<<8|int(code[at+1])))
		}
		at += width
	}

	return next, ew.Err
}

// DisassembleCode writes a disassembly of all instruction words in code.
// The base argument is the program counter of code[0].
func DisassembleCode(code []byte, base int, w io.Writer) error {
	ew := internal.NewErrWriter(w)
	for pc := 0; pc < len(code); {
		fmt.Fprintf(ew, "% 8d\t", base+pc)
		pc, _ = Disassemble(code, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}

// DisassembleImage writes a disassembly of a binary image, with the
// read-only strings as .asciiz directives.
func DisassembleImage(image []byte, w io.Writer) (err error) {
	ro, start, err := isa.ParseHeader(image)
	if err != nil {
		return
	}

	ew := internal.NewErrWriter(w)

	io.WriteString(ew, ".data\n")
	for offset := 0; offset < len(ro); {
		end := bytes.IndexByte(ro[offset:], 0)
		if end < 0 {
			end = len(ro) - offset
		}
		if end > 0 {
			str := &Token{Kind: TOKEN_STRING, Text: string(ro[offset : offset+end])}
			fmt.Fprintf(ew, "% 8d\t.asciiz %v\n", offset, str)
		}
		offset += end + 1
	}

	io.WriteString(ew, ".code\n")
	if ew.Err != nil {
		return ew.Err
	}

	return DisassembleCode(image[start:], start, ew)
}
