// Package vm is the iridium register machine.
//
// The machine has 32 signed 32-bit registers, a byte addressed program
// counter, a grow-only heap, a shared equality flag, and the remainder of
// the last division. Every instruction is a four byte word: an opcode
// byte followed by three operand bytes, as laid out by isa.Opcode.Layout.
//
// An image is loaded with Load, and executed one instruction at a time
// with RunOnce, or to completion with Run. Faults are returned as *ErrFault
// values, and never panic the host process.
package vm
