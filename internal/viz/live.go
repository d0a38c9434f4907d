// Package viz renders the live terminal animation: a braille canvas of the
// moving leaflets and streamlines next to a metric sidebar, driven by a
// bubbletea event loop.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/valveflow/internal/frames"
)

const (
	canvasWidth     = 72
	canvasHeight    = 22
	historyCapacity = 240
	frameRate       = 30
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	phaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the live animation state: a frame sequencer plus UI context.
type Model struct {
	seq      *frames.Sequencer
	frameIdx int
	selected int // severity index
	running  bool
	canvas   *Canvas
	history  []float64 // peak velocity trace for the selected severity
}

func NewModel(seq *frames.Sequencer) Model {
	return Model{
		seq:     seq,
		running: true,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		history: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.frameIdx = 0
			m.history = m.history[:0]
		case "tab":
			m.selected = (m.selected + 1) % len(m.seq.Profiles())
			m.history = m.history[:0]
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.frameIdx = (m.frameIdx + 1) % m.seq.Total()
			if rec, err := m.seq.Frame(m.frameIdx); err == nil {
				if len(m.history) >= historyCapacity {
					m.history = m.history[1:]
				}
				m.history = append(m.history, rec.Severities[m.selected].Sample.PeakVelocity)
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	rec, err := m.seq.Frame(m.frameIdx)
	if err != nil {
		return fmt.Sprintf("frame error: %v\n", err)
	}
	sf := rec.Severities[m.selected]

	m.canvas.Clear()
	m.canvas.DrawStreamlines(sf.Streamlines)
	m.canvas.DrawLeaflets(m.seq.Base(m.selected), sf.Vertices)

	var stats strings.Builder
	stats.WriteString(headerStyle.Render("valveflow") + "\n")
	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("severity", sf.Profile.Name)
	stats.WriteString(labelStyle.Render("phase") + phaseStyle.Render(sf.State.Phase.String()) + "\n")
	row("time", fmt.Sprintf("%.3f s", rec.T))
	row("opening", fmt.Sprintf("%.2f", sf.State.Opening))
	row("peak velocity", fmt.Sprintf("%.1f cm/s", sf.Sample.PeakVelocity))
	row("gradient", fmt.Sprintf("%.1f mmHg", sf.Sample.PressureGradient))
	row("orifice area", fmt.Sprintf("%.2f cm²", sf.Sample.EOA))

	if len(m.history) >= 2 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(34),
			asciigraph.Caption("peak velocity"),
		)
		stats.WriteString(graphStyle.Render(graph))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats.String()),
	)
	help := helpStyle.Render("space pause · tab severity · r restart · q quit")
	return body + "\n" + help + "\n"
}
