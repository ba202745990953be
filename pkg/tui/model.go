// Package tui is a terminal prompt surface over one flow. Each submitted
// line becomes a node; "/connect <src> <dst>" draws an edge.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/promptflow/pkg/graph"
	"github.com/dd0wney/promptflow/pkg/validation"
)

// Flow is the part of a session the TUI drives.
type Flow interface {
	AddNode(prompt string) (graph.Snapshot, bool)
	Connect(source, target string) (graph.Snapshot, bool, error)
	Snapshot() graph.Snapshot
}

// Model is the bubbletea model.
type Model struct {
	flow       Flow
	snapshot   graph.Snapshot
	input      textinput.Model
	help       help.Model
	keys       keyMap
	width      int
	message    string
	messageErr bool
}

// New creates a model over flow with the input focused.
func New(flow Flow) Model {
	ti := textinput.New()
	ti.Placeholder = "describe an image, or /connect node-1 node-3"
	ti.CharLimit = validation.MaxPromptLength
	ti.Width = 60
	ti.Focus()

	return Model{
		flow:     flow,
		snapshot: flow.Snapshot(),
		input:    ti,
		help:     help.New(),
		keys:     keys,
	}
}

// Snapshot returns the last snapshot the model rendered.
func (m Model) Snapshot() graph.Snapshot {
	return m.snapshot
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			m.submit()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles the current input line. Blank input is ignored and
// leaves the line as typed.
func (m *Model) submit() {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return
	}

	if strings.HasPrefix(line, "/") {
		m.command(line)
	} else {
		snap, added := m.flow.AddNode(line)
		m.snapshot = snap
		if added {
			last := snap.Nodes[len(snap.Nodes)-1]
			m.setMessage(false, "added %s", last.ID)
		}
	}
	m.input.Reset()
}

func (m *Model) command(line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/connect":
		if len(fields) != 3 {
			m.setMessage(true, "usage: /connect <source> <target>")
			return
		}
		snap, added, err := m.flow.Connect(fields[1], fields[2])
		m.snapshot = snap
		switch {
		case err != nil:
			m.setMessage(true, "%v", err)
		case added:
			m.setMessage(false, "connected %s -> %s", fields[1], fields[2])
		default:
			m.setMessage(false, "%s -> %s already connected", fields[1], fields[2])
		}
	default:
		m.setMessage(true, "unknown command %s", fields[0])
	}
}

func (m *Model) setMessage(isErr bool, format string, args ...any) {
	m.message = fmt.Sprintf(format, args...)
	m.messageErr = isErr
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("promptflow  v%d  %d nodes  %d edges",
		m.snapshot.Version, m.snapshot.NodeCount(), m.snapshot.EdgeCount())))
	s.WriteString("\n")

	s.WriteString(contentStyle.Render(m.renderFlow()))
	s.WriteString("\n\n  ")
	s.WriteString(m.input.View())

	if m.message != "" {
		s.WriteString("\n\n  ")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m Model) renderFlow() string {
	if len(m.snapshot.Nodes) == 0 {
		return "No prompts yet."
	}

	cols := Columns(m.snapshot)
	rendered := make([]string, 0, len(cols))
	for _, col := range cols {
		boxes := make([]string, 0, len(col))
		for _, n := range col {
			boxes = append(boxes, nodeBoxStyle.Render(
				nodeIDStyle.Render(n.ID)+"\n"+truncate(n.Payload.Prompt, 40)))
		}
		rendered = append(rendered, columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxes...)))
	}

	var out strings.Builder
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	for _, e := range m.snapshot.Edges {
		if e.Origin == graph.OriginUser {
			out.WriteString("\n")
			out.WriteString(edgeStyle.Render(fmt.Sprintf("%s → %s", e.Source, e.Target)))
		}
	}
	return out.String()
}

// Columns groups snapshot nodes by x position, left to right, each
// column ordered top to bottom.
func Columns(snap graph.Snapshot) [][]graph.Node {
	byX := make(map[float64][]graph.Node)
	for _, n := range snap.Nodes {
		x := snap.Positions[n.ID].X
		byX[x] = append(byX[x], n)
	}

	xs := make([]float64, 0, len(byX))
	for x := range byX {
		xs = append(xs, x)
	}
	sort.Float64s(xs)

	cols := make([][]graph.Node, 0, len(xs))
	for _, x := range xs {
		col := byX[x]
		sort.SliceStable(col, func(i, j int) bool {
			return snap.Positions[col[i].ID].Y < snap.Positions[col[j].ID].Y
		})
		cols = append(cols, col)
	}
	return cols
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
