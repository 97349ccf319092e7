// Package asm is the two-pass assembler for the iridium register machine.
//
// Source text is parsed into a Program of Instructions. The first pass
// collects sections, labels and string constants into a SymbolTable. The
// second pass encodes every opcode line into one four byte instruction
// word. The resulting image is the PIE header, the read-only segment, and
// the code segment.
//
//	.data
//	hello: .asciiz 'Hello'
//	.code
//	       load $0 #10
//	top:   dec $0
//	       prts @hello
//	       load $1 #0
//	       load $2 @top
//	       neq $0 $1
//	       jeq $2
//	       hlt
package asm
