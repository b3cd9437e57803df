package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gearbox-lab/gearbox/internal/mech"
	"github.com/gearbox-lab/gearbox/internal/scene"
	"github.com/gearbox-lab/gearbox/internal/sweep"
	"github.com/guptarohit/asciigraph"
	"github.com/mattn/go-runewidth"
)

var columns = []struct {
	title string
	width int
}{
	{"ID", 14},
	{"KIND", 7},
	{"TEETH", 7},
	{"RADIUS", 8},
	{"RPM", 10},
	{"DIR", 5},
	{"STATUS", 8},
}

const (
	statusDrive  = "drive"
	statusRun    = "running"
	statusIdle   = "idle"
	statusJammed = "JAMMED"
)

// Direction names the turning sense of a signed velocity. Positive is
// clockwise on screen.
func Direction(v float64) string {
	switch {
	case v > 0:
		return "cw"
	case v < 0:
		return "ccw"
	default:
		return "-"
	}
}

// Status classifies one component of a solve result.
func Status(p scene.Part, res *mech.Result) string {
	switch {
	case res.IsJammed(p.ID):
		return statusJammed
	case p.Type == mech.Motor:
		return statusDrive
	case res.Velocities[p.ID] == 0:
		return statusIdle
	default:
		return statusRun
	}
}

// RPMLabel is the unsigned, rounded speed shown next to a part.
func RPMLabel(res *mech.Result, id string) string {
	if res.IsJammed(id) {
		return statusJammed
	}
	return fmt.Sprintf("%d RPM", int(math.Abs(math.Round(res.RPM(id)))))
}

// cell pads text to width terminal columns, truncating so at least one
// column of spacing remains.
func cell(s lipgloss.Style, width int, text string) string {
	text = runewidth.Truncate(text, width-1, "")
	return s.Render(text + strings.Repeat(" ", width-runewidth.StringWidth(text)))
}

func Table(sc *scene.Scene, res *mech.Result, st Styles) string {
	var b strings.Builder

	b.WriteString(st.Title.Render(sc.Name))
	b.WriteString("\n")

	for _, c := range columns {
		b.WriteString(cell(st.Header, c.width, c.title))
	}
	b.WriteString("\n")

	for _, p := range sc.Components {
		v := res.Velocities[p.ID]
		status := Status(p, res)

		kindStyle := st.Cell
		if p.Type == mech.Motor {
			kindStyle = st.Motor
		}
		statusStyle := st.Running
		switch status {
		case statusJammed:
			statusStyle = st.Jammed
		case statusIdle:
			statusStyle = st.Idle
		case statusDrive:
			statusStyle = st.Motor
		}

		row := []struct {
			style lipgloss.Style
			text  string
		}{
			{st.Cell, p.ID},
			{kindStyle, strings.ToLower(string(p.Type))},
			{st.Cell, fmt.Sprintf("%d", p.Teeth)},
			{st.Subtle, fmt.Sprintf("%.1f", mech.PitchRadius(p.Teeth))},
			{st.Cell, fmt.Sprintf("%.1f", math.Abs(res.RPM(p.ID)))},
			{st.Cell, Direction(v)},
			{statusStyle, status},
		}
		for i, r := range row {
			b.WriteString(cell(r.style, columns[i].width, r.text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func Summary(sc *scene.Scene, res *mech.Result, st Styles) string {
	clusters := mech.Clusters(res.Graph, sc.Snapshot())
	jammedClusters := 0
	for _, cl := range clusters {
		for _, id := range cl {
			if res.IsJammed(id) {
				jammedClusters++
				break
			}
		}
	}

	text := fmt.Sprintf("%d components, %d links, %d motors, %d clusters",
		len(sc.Components), res.Graph.EdgeCount(), sc.Motors(), len(clusters))
	if len(res.Jammed) == 0 {
		return st.Subtle.Render(text + ", no jams")
	}
	return st.Subtle.Render(text+", ") +
		st.Jammed.Render(fmt.Sprintf("%d jammed in %d clusters: %s",
			len(res.Jammed), jammedClusters, strings.Join(res.Jammed, " ")))
}

// Links lists every coupling once, in scene order.
func Links(sc *scene.Scene, g mech.Graph, st Styles) string {
	var b strings.Builder
	order := make(map[string]int, len(sc.Components))
	for i, p := range sc.Components {
		if _, ok := order[p.ID]; !ok {
			order[p.ID] = i
		}
	}

	for i, p := range sc.Components {
		if order[p.ID] != i {
			continue
		}
		for _, e := range g[p.ID] {
			if order[e.To] <= i {
				continue
			}
			fmt.Fprintf(&b, "%s %s %s\n",
				cell(st.Cell, 14, p.ID), cell(st.Subtle, 7, e.Relation.String()), st.Cell.Render(e.To))
		}
	}
	if b.Len() == 0 {
		return st.Subtle.Render("no links") + "\n"
	}
	return b.String()
}

// SweepPlot charts the probe's signed RPM against the swept values.
func SweepPlot(points []sweep.Point, caption string) string {
	if len(points) == 0 {
		return ""
	}
	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = p.RPM
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

func SweepTable(points []sweep.Point, param sweep.Param, st Styles) string {
	var b strings.Builder
	b.WriteString(cell(st.Header, 10, strings.ToUpper(string(param))))
	b.WriteString(cell(st.Header, 12, "RPM"))
	b.WriteString(cell(st.Header, 8, "JAMS"))
	b.WriteString("\n")
	for _, p := range points {
		b.WriteString(cell(st.Cell, 10, fmt.Sprintf("%g", p.Value)))
		b.WriteString(cell(st.Cell, 12, fmt.Sprintf("%.2f", p.RPM)))
		if p.Jammed {
			b.WriteString(cell(st.Jammed, 8, statusJammed))
		} else {
			b.WriteString(cell(st.Subtle, 8, fmt.Sprintf("%d", p.Jams)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
