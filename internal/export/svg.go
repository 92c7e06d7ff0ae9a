// Package export renders recorded runs to formats viewable outside the
// terminal.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gravsim/internal/storage"
)

const background = "#0a0a0a"

// Track is one body's path projected onto the x/y plane.
type Track struct {
	Name   string
	Color  string
	Points [][2]float64
}

// TracksFromSeries builds tracks for the named bodies. colors may be shorter
// than bodies; missing or invalid entries get a generated hue.
func TracksFromSeries(series *storage.Series, bodies, colors []string) ([]Track, error) {
	tracks := make([]Track, 0, len(bodies))
	for i, name := range bodies {
		xs, okX := series.Column(name + ".x")
		ys, okY := series.Column(name + ".y")
		if !okX || !okY {
			return nil, fmt.Errorf("no position columns for %q", name)
		}

		tr := Track{Name: name, Color: trackColor(colors, i, len(bodies))}
		for j := range min(len(xs), len(ys)) {
			if finite(xs[j]) && finite(ys[j]) {
				tr.Points = append(tr.Points, [2]float64{xs[j], ys[j]})
			}
		}
		tracks = append(tracks, tr)
	}
	return tracks, nil
}

func trackColor(colors []string, i, n int) string {
	if i < len(colors) {
		if c, err := colorful.Hex(colors[i]); err == nil {
			return c.Hex()
		}
	}
	return colorful.Hsv(360*float64(i)/float64(max(n, 1)), 0.6, 0.95).Hex()
}

// TrajectoriesToSVG draws every track on a shared scale with equal axes, a
// dot at each track's last point and its name next to it.
func TrajectoriesToSVG(tracks []Track, width, height int) string {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, tr := range tracks {
		for _, p := range tr.Points {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	if math.IsInf(minX, 1) {
		sb.WriteString("</svg>")
		return sb.String()
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	scale := float64(min(width, height)) / span

	project := func(p [2]float64) (float64, float64) {
		return float64(width)/2 + (p[0]-cx)*scale, float64(height)/2 - (p[1]-cy)*scale
	}

	for _, tr := range tracks {
		if len(tr.Points) == 0 {
			continue
		}
		if len(tr.Points) > 1 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, tr.Color)
			for i, p := range tr.Points {
				x, y := project(p)
				if i == 0 {
					fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := project(tr.Points[len(tr.Points)-1])
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="12">%s</text>
`, x, y, tr.Color, x+6, y-6, tr.Color, escape(tr.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
