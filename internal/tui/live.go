// Package tui runs a simulation inside an interactive terminal
// session: braille canvas on the left, live stats and a speed chart on
// the right.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/georgpou/particlebox/internal/sim"
	"github.com/georgpou/particlebox/internal/term"
	"github.com/georgpou/particlebox/internal/view"
)

const (
	defaultFPS   = 30
	graphSamples = 120
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// Options configure an interactive session.
type Options struct {
	Engine   sim.Engine
	Params   sim.Params
	Visual   view.Config
	FPS      int
	Width    int
	Height   int
	ShowAxes bool
}

type TickMsg time.Time

// Model owns the simulation, its canvas surface and the UI state.
type Model struct {
	sc      *term.Scene
	sim     *sim.Simulation
	meter   *sim.SpeedMeter
	params  sim.Params
	fps     int
	running bool
	first   bool
	err     error
}

// NewModel brings the simulation up on a detached canvas so setup
// failures surface before the program starts.
func NewModel(opts Options) (Model, error) {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	sc := term.New(nil, opts.Width, opts.Height)
	s, err := sim.New(sc, opts.Engine, opts.Params, opts.Visual)
	if err != nil {
		return Model{}, err
	}
	s.ShowAxes = opts.ShowAxes
	meter := sim.NewSpeedMeter(graphSamples)
	s.AddObserver(meter)
	return Model{
		sc:      sc,
		sim:     s,
		meter:   meter,
		params:  opts.Params,
		fps:     opts.FPS,
		running: true,
		first:   true,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick(m.fps)
}

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the simulation on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "a":
			m.sim.ShowAxes = !m.sim.ShowAxes
		case "r":
			m.rescatter()
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick(m.fps)
	}
	return m, nil
}

// advance runs one step-and-present cycle. The first presentation
// carries the camera reset.
func (m *Model) advance() {
	if err := m.sim.Step(); err != nil {
		m.fail(err)
		return
	}
	if err := m.sc.Present(m.first, m.sim.ShowAxes); err != nil {
		m.fail(err)
		return
	}
	m.first = false
}

// rescatter replaces the population with a freshly placed one.
func (m *Model) rescatter() {
	next, err := m.sim.Reconfigure(m.params)
	if err != nil {
		m.fail(err)
		return
	}
	m.sim = next
	m.meter = sim.NewSpeedMeter(graphSamples)
	m.sim.AddObserver(m.meter)
	m.first = true
	m.err = nil
	m.running = true
}

func (m *Model) fail(err error) {
	m.err = err
	m.running = false
}

// Err reports the failure that stopped the session, if any.
func (m Model) Err() error { return m.err }

// Close tears the underlying simulation down.
func (m Model) Close() error { return m.sim.Close() }

// View renders the canvas beside the stats panel.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.sc.Frame())

	var b strings.Builder
	b.WriteString(headerStyle.Render("PARTICLEBOX") + "\n")
	status := "RUNNING"
	if m.err != nil {
		status = "FAILED"
	} else if !m.running {
		status = "PAUSED"
	}
	b.WriteString(status + "\n")

	hist := m.meter.History()
	if len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("mean speed"))
		b.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	p := m.sim.Params()
	b.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", p.Count)) + "\n")
	b.WriteString(labelStyle.Render("Radius") + valueStyle.Render(fmt.Sprintf("%.3f to %.3f", p.RadiusMin, p.RadiusMax)) + "\n")
	b.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Frames())) + "\n")
	b.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.5f", m.meter.Last())) + "\n")
	if m.err != nil {
		b.WriteString("\n" + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("\nSP:Pause R:Rescatter A:Axes Q:Quit"))

	statsView := statsStyle.Render(b.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run executes the interactive session and tears the simulation down
// when it ends. A simulation failure surfaced in the UI is returned
// after the user quits.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, runErr := p.Run()
	fm, ok := final.(Model)
	if !ok {
		fm = m
	}
	closeErr := fm.Close()
	switch {
	case runErr != nil:
		return runErr
	case fm.Err() != nil:
		return fm.Err()
	default:
		return closeErr
	}
}
