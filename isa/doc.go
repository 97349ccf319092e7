// Package isa defines the instruction set shared by the iridium assembler
// and virtual machine.
//
// Every instruction is a fixed 4-byte word. Byte 0 is the Opcode, and the
// remaining three bytes are laid out per opcode as registers, a 16-bit
// big-endian immediate, or zero padding.
//
// A compiled image starts with a 64-byte PIE header. Bytes 0-3 are the magic
// {45, 50, 49, 45}, and bytes 4-7 hold the length of the read-only segment
// that immediately follows the header. The code segment follows the
// read-only segment.
package isa
