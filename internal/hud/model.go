package hud

import (
	"errors"
	"log"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/telemetry"
)

const (
	defaultWidth    = 60
	defaultHeight   = 24
	statsWidth      = 64
	historyCapacity = 120
)

type TickMsg time.Time

type Options struct {
	// StepsPerTick is how many physics steps run per rendered frame.
	StepsPerTick int
	// Tick is the frame period, 30 frames per second by default.
	Tick  time.Duration
	Theme string
}

func DefaultOptions() Options {
	return Options{StepsPerTick: 1, Tick: time.Second / 30, Theme: ThemeSpace.Name}
}

// zeroSeeds replace a zero tunable when it is first nudged upward, since
// scaling zero goes nowhere.
var zeroSeeds = map[string]float64{
	sim.ParamMinForce:       1e-3,
	sim.ParamProximityRange: 1e6,
}

// Model drives a simulation from bubbletea ticks and renders it.
type Model struct {
	sim     *sim.Simulation
	name    string
	opts    Options
	running bool
	err     error

	canvas *Canvas
	camera *Camera
	trails *Trails
	theme  Theme
	styles styles

	snap      telemetry.Snapshot
	stepHist  []float64
	paramKeys []string
	selected  int
	focus     int
	showHelp  bool
}

func NewModel(s *sim.Simulation, name string, opts Options) Model {
	def := DefaultOptions()
	if opts.StepsPerTick < 1 {
		opts.StepsPerTick = def.StepsPerTick
	}
	if opts.Tick <= 0 {
		opts.Tick = def.Tick
	}
	theme := GetTheme(opts.Theme)

	m := Model{
		sim:       s,
		name:      name,
		opts:      opts,
		running:   true,
		canvas:    NewCanvas(defaultWidth, defaultHeight),
		camera:    NewCamera(),
		trails:    NewTrails(MaxSegments),
		theme:     theme,
		styles:    newStyles(theme),
		stepHist:  make([]float64, 0, historyCapacity),
		paramKeys: s.ParamNames(),
		focus:     -1,
	}
	m.refresh()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := max(msg.Width-statsWidth-6, 10)
		h := max(msg.Height-4, 5)
		m.canvas = NewCanvas(w, h)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.restart()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "d":
			m.defaultParam()
		case "f":
			m.cycleFocus()
		case "a":
			m.camera.AutoFit = !m.camera.AutoFit
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "x":
			m.camera.Pitch += 0.1
		case "X":
			m.camera.Pitch -= 0.1
		case "y":
			m.camera.Yaw += 0.1
		case "Y":
			m.camera.Yaw -= 0.1
		case "t":
			m.theme = m.theme.next()
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step runs one frame worth of physics. A step error pauses the model.
func (m *Model) step() {
	for i := 0; i < m.opts.StepsPerTick; i++ {
		rep, err := m.sim.Step()
		m.stepHist = append(m.stepHist, float64(rep.Took)/float64(time.Millisecond))
		if len(m.stepHist) > historyCapacity {
			m.stepHist = m.stepHist[1:]
		}
		if err != nil {
			log.Printf("hud: %v", err)
			m.err = err
			m.running = false
			break
		}
	}
	m.refresh()
}

// refresh takes a new snapshot and extends the trails.
func (m *Model) refresh() {
	m.snap = m.sim.Snapshot()
	for _, b := range m.snap.Bodies {
		if !b.Frozen && finite(b.Position) {
			m.trails.Add(b.Name, b.Position)
		}
	}
	m.camera.Focus = ""
	if m.focus >= 0 && m.focus < len(m.snap.Bodies) {
		m.camera.Focus = m.snap.Bodies[m.focus].Name
	}
	m.camera.Fit(m.snap)
}

func (m *Model) restart() {
	m.sim.Restart()
	m.trails.Clear()
	m.stepHist = m.stepHist[:0]
	m.err = nil
	m.running = true
	m.refresh()
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.sim.Params()[key]
	if val == 0 && factor > 1 {
		val = zeroSeeds[key]
		factor = 1
	}
	m.setParam(key, val*factor)
}

func (m *Model) defaultParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	m.setParam(key, sim.ParamDefaults[key])
}

func (m *Model) setParam(key string, v float64) {
	if err := m.sim.SetParam(key, v); err != nil {
		log.Printf("hud: %v", err)
		if !errors.Is(err, sim.ErrUnknownParam) {
			m.err = err
		}
	}
}

func (m *Model) cycleFocus() {
	n := len(m.snap.Bodies)
	if n == 0 {
		return
	}
	m.focus++
	if m.focus >= n {
		m.focus = -1
	}
	m.camera.Focus = ""
	if m.focus >= 0 {
		m.camera.Focus = m.snap.Bodies[m.focus].Name
	}
	m.camera.Fit(m.snap)
}

// StepHistory returns recent step durations in milliseconds.
func (m Model) StepHistory() []float64 { return m.stepHist }

func (m Model) Running() bool { return m.running }

func (m Model) Err() error { return m.err }

func (m Model) Snapshot() telemetry.Snapshot { return m.snap }

func clamp01(x float64) float64 { return math.Max(0, math.Min(1, x)) }
