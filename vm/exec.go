package vm

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ezrec/iridium/isa"
)

// next8 fetches the byte at the program counter.
func (vm *VM) next8() (value uint8, err error) {
	if vm.PC < 0 || vm.PC >= len(vm.Program) {
		err = ErrOutOfBounds
		return
	}
	value = vm.Program[vm.PC]
	vm.PC++
	return
}

// next16 fetches the big-endian 16-bit value at the program counter.
func (vm *VM) next16() (value uint16, err error) {
	if vm.PC < 0 || vm.PC+2 > len(vm.Program) {
		err = ErrOutOfBounds
		return
	}
	value = binary.BigEndian.Uint16(vm.Program[vm.PC:])
	vm.PC += 2
	return
}

// skip consumes padding bytes.
func (vm *VM) skip(count int) (err error) {
	if vm.PC < 0 || vm.PC+count > len(vm.Program) {
		err = ErrOutOfBounds
		return
	}
	vm.PC += count
	return
}

// register fetches a register index, and returns the register.
func (vm *VM) register() (reg *int32, err error) {
	index, err := vm.next8()
	if err != nil {
		return
	}
	if int(index) >= len(vm.Registers) {
		err = ErrRegister
		return
	}
	reg = &vm.Registers[index]
	return
}

// registers fetches count register indexes.
func (vm *VM) registers(count int) (regs [3]*int32, err error) {
	for n := range count {
		regs[n], err = vm.register()
		if err != nil {
			return
		}
	}
	return
}

// jump moves the program counter to target, which may be the end of the
// program but not past it.
func (vm *VM) jump(target int64) (err error) {
	if target < 0 || target > int64(len(vm.Program)) {
		err = ErrOutOfBounds
		return
	}
	vm.PC = int(target)
	return
}

// RunOnce executes a single instruction. done is set when the program
// counter has run past the program, or the instruction was hlt.
//
// On a fault the program counter is left at the faulting instruction.
func (vm *VM) RunOnce() (done bool, err error) {
	if vm.Done() {
		done = true
		return
	}

	pc := vm.PC
	if pc < 0 {
		err = &ErrFault{PC: pc, Opcode: isa.OP_IGL, Err: ErrOutOfBounds}
		return
	}
	op := isa.Decode(vm.Program[pc])

	defer func() {
		if err != nil {
			vm.PC = pc
			err = &ErrFault{PC: pc, Opcode: op, Err: err}
		}
	}()

	if vm.Verbose {
		Logger().Debug("exec", zap.Int("pc", pc), zap.Stringer("opcode", op))
	}

	vm.PC++

	switch op {
	case isa.OP_LOAD:
		var reg *int32
		reg, err = vm.register()
		if err != nil {
			return
		}
		var value uint16
		value, err = vm.next16()
		if err != nil {
			return
		}
		*reg = int32(value)
	case isa.OP_ADD, isa.OP_SUB, isa.OP_MUL, isa.OP_DIV:
		var regs [3]*int32
		regs, err = vm.registers(3)
		if err != nil {
			return
		}
		a, b, dest := *regs[0], *regs[1], regs[2]
		switch op {
		case isa.OP_ADD:
			*dest = a + b
		case isa.OP_SUB:
			*dest = a - b
		case isa.OP_MUL:
			*dest = a * b
		case isa.OP_DIV:
			if b == 0 {
				err = ErrDivideByZero
				return
			}
			*dest = a / b
			vm.Remainder = uint32(a % b)
		}
	case isa.OP_JMP, isa.OP_JMPF, isa.OP_JMPB, isa.OP_JEQ, isa.OP_JNEQ:
		var reg *int32
		reg, err = vm.register()
		if err != nil {
			return
		}
		// Relative jumps count from the byte after the register operand.
		from := int64(vm.PC)
		err = vm.skip(2)
		if err != nil {
			return
		}
		value := int64(*reg)
		switch op {
		case isa.OP_JMP:
			err = vm.jump(value)
		case isa.OP_JMPF:
			err = vm.jump(from + value)
		case isa.OP_JMPB:
			err = vm.jump(from - value)
		case isa.OP_JEQ:
			if vm.EqualFlag {
				err = vm.jump(value)
			}
		case isa.OP_JNEQ:
			if !vm.EqualFlag {
				err = vm.jump(value)
			}
		}
	case isa.OP_EQ, isa.OP_NEQ, isa.OP_GT, isa.OP_LT, isa.OP_GTQ, isa.OP_LTQ:
		var regs [3]*int32
		regs, err = vm.registers(2)
		if err != nil {
			return
		}
		err = vm.skip(1)
		if err != nil {
			return
		}
		a, b := *regs[0], *regs[1]
		switch op {
		case isa.OP_EQ:
			vm.EqualFlag = a == b
		case isa.OP_NEQ:
			vm.EqualFlag = a != b
		case isa.OP_GT:
			vm.EqualFlag = a > b
		case isa.OP_LT:
			vm.EqualFlag = a < b
		case isa.OP_GTQ:
			vm.EqualFlag = a >= b
		case isa.OP_LTQ:
			vm.EqualFlag = a <= b
		}
	case isa.OP_NOP:
		err = vm.skip(3)
	case isa.OP_ALOC:
		var reg *int32
		reg, err = vm.register()
		if err != nil {
			return
		}
		err = vm.skip(2)
		if err != nil {
			return
		}
		err = vm.allocate(*reg)
	case isa.OP_INC, isa.OP_DEC:
		var reg *int32
		reg, err = vm.register()
		if err != nil {
			return
		}
		err = vm.skip(2)
		if err != nil {
			return
		}
		if op == isa.OP_INC {
			*reg++
		} else {
			*reg--
		}
	case isa.OP_PRTS:
		var offset uint16
		offset, err = vm.next16()
		if err != nil {
			return
		}
		err = vm.skip(1)
		if err != nil {
			return
		}
		err = vm.print(int(offset))
	case isa.OP_HLT:
		err = vm.skip(3)
		if err != nil {
			return
		}
		done = true
	case isa.OP_IGL:
		err = ErrIllegalOpcode
	}

	return
}

// allocate grows the heap by delta bytes.
func (vm *VM) allocate(delta int32) (err error) {
	if delta < 0 {
		err = ErrHeapDelta
		return
	}
	if len(vm.Heap)+int(delta) > vm.HeapLimit {
		err = ErrHeapLimit
		return
	}
	vm.Heap = append(vm.Heap, make([]byte, delta)...)
	return
}

// print writes the null terminated read-only string at offset.
// Invalid UTF-8 is logged and skipped.
func (vm *VM) print(offset int) (err error) {
	if offset >= len(vm.RoData) {
		err = ErrOutOfBounds
		return
	}
	end := bytes.IndexByte(vm.RoData[offset:], 0)
	if end < 0 {
		err = ErrOutOfBounds
		return
	}
	text := vm.RoData[offset : offset+end]

	if !utf8.Valid(text) {
		Logger().Warn("prts: invalid utf-8", zap.Int("offset", offset), zap.Binary("text", text))
		return
	}

	if vm.Output == nil {
		return
	}
	_, err = vm.Output.Write(text)
	return
}

// Run executes instructions until the program is done, hlt executes, or
// a fault occurs.
func (vm *VM) Run() (err error) {
	for {
		var done bool
		done, err = vm.RunOnce()
		if done || err != nil {
			return
		}
	}
}
