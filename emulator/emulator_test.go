package emulator

import (
	"bytes"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/iridium/vm"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator()
	assert.NoError(err)

	assert.False(emu.Verbose)
	assert.NotNil(emu.VM)
	assert.Equal(0, emu.LineNo())

	_, err = NewEmulator(vm.HeapLimit(-1))
	assert.ErrorIs(err, vm.ErrOption)
}

func doRunSingle(emu *Emulator, program []string, t *testing.T) (output []byte) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	emu.VM.Output = out

	err := emu.Assemble(strings.Join(program, "\n"))
	assert.NoError(err)
	if err != nil {
		t.FailNow()
	}

	for _, line := range emu.Listing {
		assert.Equal(line.LineNo, emu.LineNo())
		here := program[emu.LineNo()-1]
		assert.Equal(line.PC, emu.VM.PC, here)
		done, err := emu.Tick()
		if err != nil {
			t.Log(emu.VM.String())
			t.Fatalf("%v", err)
		}
		assert.False(done, here)
	}
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)

	output = out.Bytes()
	return
}

func doRunBranch(emu *Emulator, program []string, t *testing.T) (output []byte) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	emu.VM.Output = out

	err := emu.Assemble(strings.Join(program, "\n"))
	assert.NoError(err)
	if err != nil {
		t.FailNow()
	}

	var done bool
	for !done {
		line := emu.LineNo()
		if line == 0 {
			line = 1
		}
		done, err = emu.Tick()
		here := program[line-1]
		assert.NoError(err, here)
		if err != nil {
			t.Fatal(err)
		}
	}

	output = out.Bytes()
	return
}

func TestEmulatorRegisters(t *testing.T) {
	assert := assert.New(t)

	emu, _ := NewEmulator()

	program := []string{
		".data",
		".code",
		"load $0 #0x10",
		"load $1 #0x20",
		"add $0 $1 $2",
		"mul $2 $1 $3",
		"sub $3 $0 $4",
		"div $4 $1 $5",
	}

	doRunSingle(emu, program, t)

	assert.Equal(int32(0x10), emu.VM.Registers[0])
	assert.Equal(int32(0x20), emu.VM.Registers[1])
	assert.Equal(int32(0x30), emu.VM.Registers[2])
	assert.Equal(int32(0x600), emu.VM.Registers[3])
	assert.Equal(int32(0x5f0), emu.VM.Registers[4])
	assert.Equal(int32(0x2f), emu.VM.Registers[5])
	assert.Equal(uint32(0x10), emu.VM.Remainder)
}

func TestEmulatorEqu(t *testing.T) {
	assert := assert.New(t)

	emu, _ := NewEmulator(vm.HeapLimit(0x100))
	emu.Equates["CONST_10"] = "0x10"

	program := []string{
		".data",
		".code",
		"load $0 #$(CONST_10)",
		"load $1 #$(CONST_10 + CONST_10)",
		"load $2 #$(HEADER_LENGTH - 0x10)",
		"load $3 #$(LINENO * 8 + 0x10)",
		"load $4 #$(HEAP_LIMIT)",
	}

	doRunSingle(emu, program, t)

	assert.Equal(int32(0x10), emu.VM.Registers[0])
	assert.Equal(int32(0x20), emu.VM.Registers[1])
	assert.Equal(int32(0x30), emu.VM.Registers[2])
	assert.Equal(int32(0x40), emu.VM.Registers[3])
	assert.Equal(int32(0x100), emu.VM.Registers[4])
}

func TestEmulatorLabel(t *testing.T) {
	assert := assert.New(t)

	emu, _ := NewEmulator()
	program := []string{
		".data",
		"hello: .asciiz 'Hello'",
		"newline: .asciiz '\\n'",
		".code",
		"        load $0 #3",
		"        load $1 #0",
		"        load $2 @loop",
		"        load $3 @done",
		"loop:   prts @hello",
		"        dec $0",
		"        eq $0 $1",
		"        jeq $3",
		"        jmp $2",
		"done:   prts @newline",
		"        hlt",
	}

	output := doRunBranch(emu, program, t)

	assert.Equal("HelloHelloHello\n", string(output))
	assert.Equal(int32(0), emu.VM.Registers[0])

	loop, err := emu.Symbols.Resolve("loop")
	assert.NoError(err)
	assert.Equal(uint32(16), loop)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu, _ := NewEmulator()
	err := emu.Assemble(".data\n.code\nload $0 #1\n\ndiv $0 $1 $2\n")
	assert.NoError(err)

	err = emu.Run()
	assert.ErrorIs(err, vm.ErrDivideByZero)

	var runtime *ErrRuntime
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(5, runtime.LineNo)
		assert.Equal(68, runtime.PC)
		assert.Equal("div $0 $1 $2", runtime.Text)
		assert.Equal("line 5 div $0 $1 $2: pc 68 div: divide by zero", runtime.Error())
	}
	assert.Equal(5, emu.LineNo())

	// A loaded image has no listing.
	image := append([]byte(nil), emu.VM.Program...)
	assert.NoError(emu.Load(image))
	err = emu.Run()
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(0, runtime.LineNo)
		assert.Equal(68, runtime.PC)
		assert.Equal("pc 68 div: divide by zero", runtime.Error())
	}
}

func TestEmulatorAppend(t *testing.T) {
	assert := assert.New(t)

	emu, _ := NewEmulator()
	assert.NoError(emu.Append("load $0 #7", 1))
	assert.NoError(emu.Append("inc $0", 2))
	assert.Len(emu.Listing, 2)
	assert.Equal(68, emu.Listing[1].PC)
	assert.Equal(2, emu.Listing[1].LineNo)

	assert.NoError(emu.Run())
	assert.Equal(int32(8), emu.VM.Registers[0])

	err := emu.Append("load $0 @nowhere", 3)
	assert.ErrorContains(err, "line 3 undefined symbol nowhere")
	assert.Len(emu.Listing, 2)

	assert.NoError(emu.Append("div $0 $1 $2", 4))
	_, err = emu.Tick()
	var runtime *ErrRuntime
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(4, runtime.LineNo)
		assert.Equal(72, runtime.PC)
	}

	buf := &bytes.Buffer{}
	assert.NoError(emu.Disassemble(buf))
	assert.Contains(buf.String(), "load $0 #7")
	assert.Contains(buf.String(), "inc $0")

	emu.Clear()
	assert.Empty(emu.Listing)
	assert.True(emu.VM.Done())
}

func TestEmulatorLoad(t *testing.T) {
	assert := assert.New(t)

	emu, _ := NewEmulator()
	assert.NoError(emu.Assemble(".data\n.code\nload $0 #1"))
	assert.NotEmpty(emu.Listing)

	image := append([]byte{}, emu.VM.Program...)
	assert.NoError(emu.Load(image))
	assert.Empty(emu.Listing)
	assert.NoError(emu.Run())
	assert.Equal(int32(1), emu.VM.Registers[0])

	assert.Error(emu.Load([]byte("not an image")))
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu, _ := NewEmulator()
	emu.Equates["HEADER_LENGTH"] = "99"
	emu.Equates["NAME"] = "iridium"

	defines := maps.Collect(emu.Defines())
	assert.Equal("99", defines["HEADER_LENGTH"])
	assert.Equal("iridium", defines["NAME"])
	assert.Equal("32", defines["REGISTERS"])
	assert.Equal("1048576", defines["HEAP_LIMIT"])
}
