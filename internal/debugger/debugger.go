// Package debugger provides an interactive, single-step TUI over a
// cpu.CPU: a memory page table plus register panel, stepping the
// processor one instruction per keypress.
package debugger

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/Tommypop2/mos-6502-emulator/cpu"
)

const pageWidth = 16

type model struct {
	c      *cpu.CPU
	offset uint16 // page-table scroll anchor, not the CPU's PC
	prevPC uint16
	err    error
	halted bool
}

// New builds a debugger model over c, anchoring the page table display
// at the CPU's current PC.
func New(c *cpu.CPU) tea.Model {
	return model{c: c, offset: c.PC &^ (pageWidth - 1)}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ", "n":
		if m.halted {
			return m, nil
		}
		m.prevPC = m.c.PC
		if err := m.c.Step(); err != nil {
			m.err = err
			m.halted = true
			return m, nil
		}
		m.offset = m.c.PC &^ (pageWidth - 1)

	case "j":
		m.offset += pageWidth
	case "k":
		if m.offset >= pageWidth {
			m.offset -= pageWidth
		}
	}
	return m, nil
}

func (m model) renderPage(start uint16) string {
	row := m.c.Mem.ReadSlice(start, pageWidth)
	s := fmt.Sprintf("%04X | ", start)
	for i, b := range row {
		if start+uint16(i) == m.c.PC {
			s += fmt.Sprintf("[%02X] ", b)
		} else {
			s += fmt.Sprintf(" %02X  ", b)
		}
	}
	return s
}

func (m model) pageTable() string {
	header := "addr | "
	for i := 0; i < pageWidth; i++ {
		header += fmt.Sprintf(" %01X  ", i)
	}
	rows := []string{header}
	for i := 0; i < 8; i++ {
		rows = append(rows, m.renderPage(m.offset+uint16(i*pageWidth)))
	}
	return strings.Join(rows, "\n")
}

func (m model) status() string {
	snap := m.c.Snapshot()
	return fmt.Sprintf(`
PC: %04X (prev %04X)
 A: %02X
 X: %02X
 Y: %02X
 S: %02X
%s`, snap.PC, m.prevPC, snap.A, snap.X, snap.Y, snap.S, flagLine(snap.P))
}

func flagLine(p uint8) string {
	names := "NV_BDIZC"
	var b strings.Builder
	b.WriteString(names + "\n")
	for i := 7; i >= 0; i-- {
		if p&(1<<uint(i)) != 0 {
			b.WriteString("1 ")
		} else {
			b.WriteString("0 ")
		}
	}
	return b.String()
}

var panelStyle = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder())

func (m model) View() string {
	inst, mode, err := cpu.Decode(m.c.PeekOpcode())
	var decoded string
	if err != nil {
		decoded = spew.Sdump(err)
	} else {
		decoded = spew.Sdump(struct {
			Instruction cpu.Instruction
			Mode        cpu.AddressingMode
		}{inst, mode})
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.pageTable()),
		panelStyle.Render(m.status()),
	)

	footer := "space/n: step  j/k: scroll  q: quit"
	if m.halted {
		footer = fmt.Sprintf("halted: %v", m.err)
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, panelStyle.Render(decoded), footer)
}

// Run starts the interactive TUI loop over c until the user quits. A
// step error halts further stepping and is shown in the footer; Run
// returns that error once the user quits.
func Run(c *cpu.CPU) error {
	p := tea.NewProgram(New(c))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok && m.err != nil {
		return m.err
	}
	return nil
}
