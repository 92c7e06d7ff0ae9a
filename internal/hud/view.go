package hud

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/telemetry"
)

const (
	maxListedBodies = 8
	maxDiscRadius   = 6
)

func (m Model) View() string {
	m.draw()
	canvasView := m.styles.canvas.Render(m.canvas.String())
	statsView := m.styles.stats.Render(m.stats())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

// draw renders trails first and bodies on top of them.
func (m Model) draw() {
	c := m.canvas
	c.Clear()
	w, h := c.Dots()

	for _, b := range m.snap.Bodies {
		color := m.theme.Trail
		if b.Class == telemetry.Escaping {
			color = string(m.theme.Error)
		}
		pts := m.trails.Points(b.Name)
		for i := 1; i < len(pts); i++ {
			x0, y0, ok0 := m.camera.Project(pts[i-1], w, h)
			x1, y1, ok1 := m.camera.Project(pts[i], w, h)
			if ok0 && ok1 {
				c.Line(x0, y0, x1, y1, color)
			}
		}
	}

	for _, b := range m.snap.Bodies {
		x, y, ok := m.camera.Project(b.Position, w, h)
		if !ok {
			continue
		}
		r := int(math.Min(maxDiscRadius, math.Round(m.camera.Scale(b.Radius, w, h))))
		c.Disc(x, y, r, b.Color)
	}
}

func (m Model) stats() string {
	st := m.styles
	var s strings.Builder

	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.failed.Render("HALTED") + "\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING") + "\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n")
	}
	s.WriteString("\n")

	for _, line := range m.snap.Lines() {
		s.WriteString(st.value.Render(line) + "\n")
	}
	s.WriteString(st.label.Render("Years") + st.value.Render(fmt.Sprintf("%.3f", m.snap.Clock.CalendarYears)) + "\n")
	s.WriteString(st.label.Render("Steps") + st.value.Render(fmt.Sprintf("%d", m.snap.Clock.Steps)) + "\n")
	s.WriteString(st.label.Render("Fastest") + st.value.Render(fmt.Sprintf("%.1f m/s", m.snap.Clock.FastestSpeed)) + "\n")

	if len(m.stepHist) > 1 {
		chart := asciigraph.Plot(m.stepHist, asciigraph.Height(4), asciigraph.Width(36), asciigraph.Caption("step ms"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString("\nBODIES\n")
	for i, b := range m.snap.Bodies {
		if i == maxListedBodies {
			s.WriteString(st.label.Render(fmt.Sprintf("  +%d more", len(m.snap.Bodies)-i)) + "\n")
			break
		}
		class := st.classes[b.Class.String()].Render(fmt.Sprintf("%-10s", b.Class))
		marker := "  "
		if b.Name == m.camera.Focus {
			marker = st.active.Render("> ")
		}
		speed := b.Velocity.Len()
		s.WriteString(fmt.Sprintf("%s%-12s %s %-10s %9.1f m/s\n", marker, truncate(b.Name, 12), class, truncate(b.Primary, 10), speed))
	}

	s.WriteString("\nPARAMETERS\n")
	params := m.sim.Params()
	if len(m.paramKeys) == 0 {
		s.WriteString(st.label.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		val := params[k]
		line := fmt.Sprintf("%-18s %s %.4g", k, bar(val, sim.ParamDefaults[k]), val)
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}

	if m.err != nil {
		s.WriteString("\n" + st.failed.Render(truncate(m.err.Error(), statsWidth-6)) + "\n")
	}

	s.WriteString(st.help.Render("─────────────────────\nSP:Pause R:Restart Q:Quit\nTab ↑↓:Tune D:Default ?:Help"))
	return s.String()
}

// bar shows a value relative to twice its default.
func bar(val, def float64) string {
	const width = 10
	ratio := 0.5
	if def != 0 {
		ratio = clamp01(val / (2 * def))
	}
	filled := int(ratio * width)
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart the clock        ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  D        - Restore default value    ║
║  F        - Cycle focused body       ║
║  A        - Toggle auto zoom         ║
║  + / -    - Zoom in / out            ║
║  x X y Y  - Tilt the view            ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
