package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/gearbox-lab/gearbox/internal/mech"
	"github.com/gearbox-lab/gearbox/internal/scene"
	"github.com/gearbox-lab/gearbox/internal/sweep"
)

const (
	background   = "#0a0a0a"
	runningColor = "#00ff00"
	idleColor    = "#666666"
	jammedColor  = "#ff3b30"
	motorColor   = "#ffcc00"
	stackColor   = "#00aaff"
	meshColor    = "#444444"
	margin       = 10.0
)

func partColor(p scene.Part, res *mech.Result) string {
	switch {
	case res.IsJammed(p.ID):
		return jammedColor
	case p.Type == mech.Motor:
		return motorColor
	case res.Velocities[p.ID] == 0:
		return idleColor
	}
	return runningColor
}

// SceneToSVG draws every part as its outer and pitch circle, with a line
// for each stack or mesh link. Scene coordinates are kept, y pointing down.
func SceneToSVG(sc *scene.Scene, res *mech.Result) string {
	comps := sc.Snapshot()

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range comps {
		r := mech.OuterRadius(c.Teeth)
		minX = math.Min(minX, c.X-r)
		minY = math.Min(minY, c.Y-r)
		maxX = math.Max(maxX, c.X+r)
		maxY = math.Max(maxY, c.Y+r)
	}
	if len(comps) == 0 {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}
	minX -= margin
	minY -= margin
	width := maxX - minX + margin
	height := maxY - minY + margin

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="%.1f %.1f %.1f %.1f">
<rect x="%.1f" y="%.1f" width="100%%" height="100%%" fill="%s"/>
`, width, height, minX, minY, width, height, minX, minY, background))

	pos := make(map[string]mech.Component, len(comps))
	for _, c := range comps {
		if _, ok := pos[c.ID]; !ok {
			pos[c.ID] = c
		}
	}

	sb.WriteString("<g stroke-width=\"1\">\n")
	seen := make(map[[2]string]bool)
	for _, c := range comps {
		for _, e := range res.Graph[c.ID] {
			key := [2]string{c.ID, e.To}
			if e.To < c.ID {
				key = [2]string{e.To, c.ID}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			other := pos[e.To]
			color := meshColor
			if e.Relation == mech.Stack {
				color = stackColor
			}
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, c.X, c.Y, other.X, other.Y, color))
		}
	}
	sb.WriteString("</g>\n")

	sb.WriteString("<g fill=\"none\">\n")
	for _, p := range sc.Components {
		color := partColor(p, res)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" stroke="%s" stroke-width="2"/>
`, p.X, p.Y, mech.OuterRadius(p.Teeth), color))
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" stroke="%s" stroke-dasharray="2,2"/>
`, p.X, p.Y, mech.PitchRadius(p.Teeth), color))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf("<g fill=\"%s\" font-family=\"monospace\" font-size=\"6\" text-anchor=\"middle\">\n", runningColor))
	for _, p := range sc.Components {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%s</text>
`, p.X, p.Y, escape(p.ID)))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SweepToSVG plots probe rpm against the swept value. Jammed points are
// drawn as red markers and break the line.
func SweepToSVG(points []sweep.Point, width, height int) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].Value, points[0].Value
	minY, maxY := points[0].RPM, points[0].RPM
	for _, p := range points {
		minX = math.Min(minX, p.Value)
		maxX = math.Max(maxX, p.Value)
		minY = math.Min(minY, p.RPM)
		maxY = math.Max(maxY, p.RPM)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	project := func(p sweep.Point) (float64, float64) {
		x := (p.Value - minX) / rangeX * float64(width)
		y := float64(height) - (p.RPM-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, background, runningColor))

	pen, started := false, false
	for _, p := range points {
		if p.Jammed {
			pen = false
			continue
		}
		x, y := project(p)
		if pen {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		} else {
			if started {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			pen, started = true, true
		}
	}
	sb.WriteString("\"/>\n")

	for _, p := range points {
		if !p.Jammed {
			continue
		}
		x, y := project(p)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, jammedColor))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func WriteFile(path, svg string) error {
	return os.WriteFile(path, []byte(svg), 0644)
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
