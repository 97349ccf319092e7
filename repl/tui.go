package repl

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	echoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// SCROLLBACK is the number of output lines kept on screen.
const SCROLLBACK = 200

type shellModel struct {
	shell  *Shell
	input  textinput.Model
	lines  []string
	recall int // Index into the shell history, for up and down.
	height int
	quit   bool
}

func newShellModel(sh *Shell) *shellModel {
	ti := textinput.New()
	ti.Prompt = PROMPT
	ti.Placeholder = "load $0 #100"
	ti.Width = 60
	ti.Focus()

	return &shellModel{
		shell:  sh,
		input:  ti,
		recall: len(sh.History),
	}
}

func (m *shellModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d", "esc":
			m.quit = true
			return m, tea.Quit

		case "up":
			if m.recall > 0 {
				m.recall--
				m.input.SetValue(m.shell.History[m.recall])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.recall < len(m.shell.History) {
				m.recall++
			}
			if m.recall < len(m.shell.History) {
				m.input.SetValue(m.shell.History[m.recall])
				m.input.CursorEnd()
			} else {
				m.input.Reset()
			}
			return m, nil

		case "enter":
			line := m.input.Value()
			m.input.Reset()
			output, quit := m.shell.Exec(line)
			m.recall = len(m.shell.History)
			m.push(echoStyle.Render(PROMPT + line))
			m.push(strings.Split(strings.TrimSuffix(output, "\n"), "\n")...)
			if quit {
				m.quit = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// push appends lines to the scrollback.
func (m *shellModel) push(lines ...string) {
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		m.lines = append(m.lines, line)
	}
	if len(m.lines) > SCROLLBACK {
		m.lines = m.lines[len(m.lines)-SCROLLBACK:]
	}
}

func (m *shellModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("iridium"))
	b.WriteString("\n\n")

	lines := m.lines
	if m.height > 6 && len(lines) > m.height-6 {
		lines = lines[len(lines)-(m.height-6):]
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if m.quit {
		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(".quit  .run  .step  .registers  .program  .symbols  .clear  .load_file <path>"))
	b.WriteByte('\n')

	return b.String()
}

// RunTerminal drives the shell with an interactive terminal interface.
func RunTerminal(sh *Shell) (err error) {
	_, err = tea.NewProgram(newShellModel(sh)).Run()
	return
}
