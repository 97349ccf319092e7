// Package repl is the interactive iridium shell.
//
// Lines starting with '.' are shell commands. Any other line is assembled
// as code, appended to the program, and executed one instruction at a time.
package repl

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ezrec/iridium/emulator"
	"github.com/ezrec/iridium/isa"
	"github.com/ezrec/iridium/translate"
	"github.com/ezrec/iridium/vm"
)

var f = translate.From

var (
	ErrCommand  = errors.New(f("unknown command"))
	ErrArgument = errors.New(f("missing argument"))
)

const (
	PROMPT  = ">> "
	WELCOME = "Welcome to iridium. Type .quit to leave."
)

// Shell is the terminal independent core of the REPL.
type Shell struct {
	Emulator *emulator.Emulator // Machine the shell drives.
	History  []string           // Every line entered.

	output bytes.Buffer // Program output of the current command.
}

// NewShell creates a shell around an emulator.
func NewShell(emu *emulator.Emulator) (sh *Shell) {
	sh = &Shell{
		Emulator: emu,
	}
	emu.VM.Output = &sh.output
	return
}

// command is a shell command handler.
type command func(sh *Shell, args []string) (text string, err error)

var commands = map[string]command{
	".quit":      (*Shell).cmdQuit,
	".history":   (*Shell).cmdHistory,
	".program":   (*Shell).cmdProgram,
	".registers": (*Shell).cmdRegisters,
	".symbols":   (*Shell).cmdSymbols,
	".clear":     (*Shell).cmdClear,
	".load_file": (*Shell).cmdLoadFile,
	".run":       (*Shell).cmdRun,
	".step":      (*Shell).cmdStep,
}

// Exec executes one line of input. Errors are reported in the output
// text, and never end the shell.
func (sh *Shell) Exec(line string) (output string, quit bool) {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	sh.History = append(sh.History, line)
	sh.output.Reset()

	var text string
	var err error
	if strings.HasPrefix(line, ".") {
		words := strings.Fields(line)
		cmd, ok := commands[words[0]]
		if !ok {
			err = fmt.Errorf("%w: %v", ErrCommand, words[0])
		} else {
			text, err = cmd(sh, words[1:])
			quit = words[0] == ".quit"
		}
	} else {
		text, err = sh.execCode(line)
	}

	var out strings.Builder
	out.Write(sh.output.Bytes())
	if sh.output.Len() > 0 && !bytes.HasSuffix(sh.output.Bytes(), []byte{'\n'}) {
		out.WriteByte('\n')
	}
	out.WriteString(text)
	if err != nil {
		out.WriteString(err.Error())
		out.WriteByte('\n')
	}
	output = out.String()

	return
}

// execCode appends the line as code, and steps it. Lines are numbered by
// their place in the history.
func (sh *Shell) execCode(line string) (text string, err error) {
	err = sh.Emulator.Append(line, len(sh.History))
	if err != nil {
		return
	}

	_, err = sh.Emulator.Tick()

	var fault *vm.ErrFault
	if errors.As(err, &fault) {
		// Step over the faulting word, so that the next line runs.
		sh.Emulator.VM.PC = fault.PC + isa.INSTRUCTION_WIDTH
	}

	return
}

func (sh *Shell) cmdQuit(args []string) (text string, err error) {
	text = f("Farewell.") + "\n"
	return
}

func (sh *Shell) cmdHistory(args []string) (text string, err error) {
	for _, line := range sh.History {
		text += line + "\n"
	}
	return
}

func (sh *Shell) cmdProgram(args []string) (text string, err error) {
	var buf strings.Builder
	err = sh.Emulator.Disassemble(&buf)
	text = buf.String()
	return
}

func (sh *Shell) cmdRegisters(args []string) (text string, err error) {
	text = sh.Emulator.VM.String()
	return
}

func (sh *Shell) cmdSymbols(args []string) (text string, err error) {
	if sh.Emulator.Symbols == nil || sh.Emulator.Symbols.Len() == 0 {
		text = f("no symbols") + "\n"
		return
	}

	for sym := range sh.Emulator.Symbols.All() {
		offset := "-"
		if sym.Offset != nil {
			offset = fmt.Sprintf("%d", *sym.Offset)
		}
		text += fmt.Sprintf("%-16s %-4v %v\n", sym.Name, sym.Section, offset)
	}
	return
}

func (sh *Shell) cmdClear(args []string) (text string, err error) {
	sh.Emulator.Clear()
	text = f("program cleared") + "\n"
	return
}

func (sh *Shell) cmdLoadFile(args []string) (text string, err error) {
	if len(args) != 1 {
		err = fmt.Errorf("%w: %v", ErrArgument, "path")
		return
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return
	}

	if isa.HasMagic(data) {
		err = sh.Emulator.Load(data)
	} else {
		err = sh.Emulator.Assemble(string(data))
	}
	if err != nil {
		return
	}

	text = f("loaded %d bytes", len(sh.Emulator.VM.Program)) + "\n"
	return
}

func (sh *Shell) cmdRun(args []string) (text string, err error) {
	err = sh.Emulator.Run()
	return
}

func (sh *Shell) cmdStep(args []string) (text string, err error) {
	done, err := sh.Emulator.Tick()
	if done && err == nil {
		text = f("done") + "\n"
	}
	return
}
