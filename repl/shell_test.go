package repl

import (
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/iridium/emulator"
	"github.com/ezrec/iridium/isa"
)

var _ = Describe("Shell", func() {
	var (
		emu *emulator.Emulator
		sh  *Shell
	)

	BeforeEach(func() {
		var err error
		emu, err = emulator.NewEmulator()
		Expect(err).NotTo(HaveOccurred())
		sh = NewShell(emu)
	})

	Describe("code lines", func() {
		It("should execute each line as it is entered", func() {
			output, quit := sh.Exec("load $0 #100")
			Expect(quit).To(BeFalse())
			Expect(output).To(BeEmpty())

			sh.Exec("load $1 #20")
			sh.Exec("add $0 $1 $2")
			Expect(emu.VM.Registers[2]).To(Equal(int32(120)))
			Expect(emu.VM.PC).To(Equal(isa.HEADER_LENGTH + 3*isa.INSTRUCTION_WIDTH))
		})

		It("should report assembly errors and keep going", func() {
			output, quit := sh.Exec("bogus $0")
			Expect(quit).To(BeFalse())
			Expect(output).To(Equal("line 1 unknown opcode\n"))
			Expect(emu.VM.Program).To(HaveLen(isa.HEADER_LENGTH))

			output, _ = sh.Exec("load $3 #3")
			Expect(output).To(BeEmpty())
			Expect(emu.VM.Registers[3]).To(Equal(int32(3)))
		})

		It("should report runtime errors at the history line", func() {
			sh.Exec("load $0 #1")
			output, _ := sh.Exec("div $0 $1 $2")
			Expect(output).To(Equal("line 2 div $0 $1 $2: pc 68 div: divide by zero\n"))
		})

		It("should keep executing lines after a fault", func() {
			output, _ := sh.Exec("div $0 $1 $2")
			Expect(output).To(ContainSubstring("divide by zero"))

			output, _ = sh.Exec("load $1 #5")
			Expect(output).To(BeEmpty())
			output, _ = sh.Exec("load $3 #7")
			Expect(output).To(BeEmpty())
			sh.Exec("inc $4")

			Expect(emu.VM.Registers[1]).To(Equal(int32(5)))
			Expect(emu.VM.Registers[3]).To(Equal(int32(7)))
			Expect(emu.VM.Registers[4]).To(Equal(int32(1)))
			Expect(emu.VM.PC).To(Equal(isa.HEADER_LENGTH + 4*isa.INSTRUCTION_WIDTH))
		})

		It("should number assembly errors by history line", func() {
			sh.Exec("nop")
			output, _ := sh.Exec("load $0 @nowhere")
			Expect(output).To(Equal("line 2 undefined symbol nowhere\n"))
		})

		It("should ignore blank lines", func() {
			output, quit := sh.Exec("   ")
			Expect(output).To(BeEmpty())
			Expect(quit).To(BeFalse())
			Expect(sh.History).To(BeEmpty())
		})
	})

	Describe("commands", func() {
		It("should quit", func() {
			output, quit := sh.Exec(".quit")
			Expect(quit).To(BeTrue())
			Expect(output).To(Equal("Farewell.\n"))
		})

		It("should reject unknown commands", func() {
			output, quit := sh.Exec(".frobnicate now")
			Expect(quit).To(BeFalse())
			Expect(output).To(Equal("unknown command: .frobnicate\n"))
		})

		It("should list the history", func() {
			sh.Exec("load $0 #1")
			sh.Exec("nop")
			output, _ := sh.Exec(".history")
			Expect(output).To(Equal("load $0 #1\nnop\n.history\n"))
		})

		It("should list the program", func() {
			sh.Exec("load $0 #7")
			output, _ := sh.Exec(".program")
			Expect(output).To(Equal("      64\tload $0 #7\n"))
		})

		It("should show the registers", func() {
			sh.Exec("load $5 #42")
			output, _ := sh.Exec(".registers")
			Expect(output).To(Equal(emu.VM.String()))
			Expect(output).To(ContainSubstring("42"))
		})

		It("should report no symbols", func() {
			output, _ := sh.Exec(".symbols")
			Expect(output).To(Equal("no symbols\n"))
		})

		It("should clear the program", func() {
			sh.Exec("load $0 #1")
			output, _ := sh.Exec(".clear")
			Expect(output).To(Equal("program cleared\n"))
			Expect(emu.VM.Program).To(HaveLen(isa.HEADER_LENGTH))
			Expect(emu.VM.PC).To(Equal(isa.HEADER_LENGTH))
		})

		It("should report a finished program on step", func() {
			output, _ := sh.Exec(".step")
			Expect(output).To(Equal("done\n"))
		})
	})

	Describe(".load_file", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should require a path", func() {
			output, _ := sh.Exec(".load_file")
			Expect(output).To(Equal("missing argument: path\n"))
		})

		It("should assemble and run a source file", func() {
			path := filepath.Join(dir, "hello.iasm")
			source := ".data\nhello: .asciiz 'Hello'\n.code\nload $0 #7\nprts @hello\nhlt\n"
			Expect(os.WriteFile(path, []byte(source), 0o644)).To(Succeed())

			output, _ := sh.Exec(".load_file " + path)
			Expect(output).To(Equal("loaded 84 bytes\n"))

			output, _ = sh.Exec(".symbols")
			Expect(output).To(ContainSubstring("hello"))

			output, _ = sh.Exec(".run")
			Expect(output).To(Equal("Hello\n"))
			Expect(emu.VM.Registers[0]).To(Equal(int32(7)))
		})

		It("should load a binary image", func() {
			Expect(emu.Assemble(".data\n.code\nload $1 #9\n")).To(Succeed())
			image := append([]byte(nil), emu.VM.Program...)
			emu.Clear()

			path := filepath.Join(dir, "prog.bin")
			Expect(os.WriteFile(path, image, 0o644)).To(Succeed())

			output, _ := sh.Exec(".load_file " + path)
			Expect(output).To(Equal("loaded 68 bytes\n"))
			Expect(emu.Listing).To(BeNil())

			sh.Exec(".run")
			Expect(emu.VM.Registers[1]).To(Equal(int32(9)))
		})

		It("should report a missing file", func() {
			output, quit := sh.Exec(".load_file " + filepath.Join(dir, "missing"))
			Expect(quit).To(BeFalse())
			Expect(output).To(ContainSubstring("missing"))
		})
	})

	Describe("RunLines", func() {
		It("should prompt for every line until .quit", func() {
			var out strings.Builder
			err := RunLines(sh, strings.NewReader("load $0 #5\n.quit\nload $0 #6\n"), &out)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal(WELCOME + "\n>> >> Farewell.\n"))
			Expect(emu.VM.Registers[0]).To(Equal(int32(5)))
		})

		It("should stop at the end of input", func() {
			var out strings.Builder
			err := RunLines(sh, strings.NewReader("load $0 #5"), &out)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal(WELCOME + "\n>> >> "))
		})
	})

	Describe("terminal model", func() {
		var m *shellModel

		BeforeEach(func() {
			m = newShellModel(sh)
		})

		enter := func(line string) tea.Cmd {
			m.input.SetValue(line)
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			return cmd
		}

		It("should execute entered lines", func() {
			Expect(enter("load $0 #3")).To(BeNil())
			Expect(emu.VM.Registers[0]).To(Equal(int32(3)))
			Expect(m.input.Value()).To(BeEmpty())
			Expect(m.View()).To(ContainSubstring("load $0 #3"))
		})

		It("should recall history", func() {
			enter("load $0 #3")
			enter("nop")

			m.Update(tea.KeyMsg{Type: tea.KeyUp})
			Expect(m.input.Value()).To(Equal("nop"))
			m.Update(tea.KeyMsg{Type: tea.KeyUp})
			Expect(m.input.Value()).To(Equal("load $0 #3"))
			m.Update(tea.KeyMsg{Type: tea.KeyUp})
			Expect(m.input.Value()).To(Equal("load $0 #3"))

			m.Update(tea.KeyMsg{Type: tea.KeyDown})
			Expect(m.input.Value()).To(Equal("nop"))
			m.Update(tea.KeyMsg{Type: tea.KeyDown})
			Expect(m.input.Value()).To(BeEmpty())
		})

		It("should quit on .quit", func() {
			cmd := enter(".quit")
			Expect(cmd).NotTo(BeNil())
			Expect(cmd()).To(Equal(tea.Quit()))
			Expect(m.View()).To(ContainSubstring("Farewell."))
		})

		It("should quit on ctrl+c", func() {
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
			Expect(cmd).NotTo(BeNil())
			Expect(m.quit).To(BeTrue())
		})

		It("should bound the scrollback", func() {
			for range SCROLLBACK + 10 {
				m.push("x")
			}
			Expect(m.lines).To(HaveLen(SCROLLBACK))
		})
	})
})
