package asm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		code []byte
		text string
	}{
		{[]byte{0, 1, 0x01, 0x00}, "load $1 #256"},
		{[]byte{1, 1, 2, 3}, "add $1 $2 $3"},
		{[]byte{13, 4, 5, 0}, "ltq $4 $5"},
		{[]byte{15, 6, 0, 0}, "jneq $6"},
		{[]byte{20, 0, 8, 0}, "prts #8"},
		{[]byte{21, 0, 0, 0}, "hlt"},
		{[]byte{200, 1, 2, 3}, "igl 0xc8"},
		{[]byte{0, 1}, "load $1 ???"},
	}

	for _, entry := range table {
		buf := &bytes.Buffer{}
		next, err := Disassemble(entry.code, 0, buf)
		assert.NoError(err)
		assert.Equal(4, next)
		assert.Equal(entry.text, buf.String())
	}
}

func TestDisassembleImage(t *testing.T) {
	assert := assert.New(t)

	source := []string{
		"load $0 #100",
		"load $1 #3",
		"div $0 $1 $2",
		"eq $2 $0",
		"jneq $1",
		"inc $2",
		"aloc $1",
		"prts @hello",
		"hlt",
	}

	asm := &Assembler{}
	img, err := asm.Assemble(".data\nhello: .asciiz 'Hi\\n'\n.code\n" + strings.Join(source, "\n"))
	assert.NoError(err)

	buf := &bytes.Buffer{}
	err = DisassembleImage(img, buf)
	assert.NoError(err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(".data", lines[0])
	assert.Equal("0\t.asciiz 'Hi\\n'", strings.TrimSpace(lines[1]))
	assert.Equal(".code", lines[2])

	code := lines[3:]
	assert.Len(code, len(source))
	for n, line := range code {
		pc, text, ok := strings.Cut(strings.TrimSpace(line), "\t")
		assert.True(ok)
		assert.Equal(asm.Listing[n].PC, atoi(pc))
		want := source[n]
		if strings.HasPrefix(want, "prts") {
			want = "prts #0"
		}
		assert.Equal(want, text)
	}

	err = DisassembleImage([]byte{1, 2, 3}, buf)
	assert.Error(err)
}

func atoi(s string) (n int) {
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return
}

type brokenWriter struct{}

var errBroken = errors.New("broken")

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errBroken
}

func TestDisassembleWriteError(t *testing.T) {
	assert := assert.New(t)

	_, err := Disassemble([]byte{21, 0, 0, 0}, 0, brokenWriter{})
	assert.ErrorIs(err, errBroken)

	err = DisassembleCode([]byte{21, 0, 0, 0, 16, 0, 0, 0}, 64, brokenWriter{})
	assert.ErrorIs(err, errBroken)
}
