package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gearbox-lab/gearbox/internal/mech"
	"github.com/gearbox-lab/gearbox/internal/scene"
	"github.com/gearbox-lab/gearbox/internal/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneToSVG(t *testing.T) {
	sc := &scene.Scene{Name: "pair", Components: []scene.Part{
		{ID: "m", Type: mech.Motor, X: 0, Y: 0, Teeth: 8, Speed: 60, Direction: 1},
		{ID: "g", Type: mech.Gear, X: 60, Y: 0, Teeth: 16},
		{ID: "<s>", Type: mech.Gear, X: 500, Y: 500, Teeth: 12},
	}}
	svg := SceneToSVG(sc, sc.Solve())

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Equal(t, 6, strings.Count(svg, "<circle"), "two circles per part")
	assert.Equal(t, 1, strings.Count(svg, "<line"), "one mesh link")
	assert.Contains(t, svg, meshColor)
	assert.Contains(t, svg, motorColor)
	assert.Contains(t, svg, idleColor)
	assert.Contains(t, svg, "&lt;s&gt;")
}

func TestSceneToSVGJammed(t *testing.T) {
	sc := &scene.Scene{Name: "stack", Components: []scene.Part{
		{ID: "a", Type: mech.Motor, Teeth: 8, Speed: 60, Direction: 1},
		{ID: "b", Type: mech.Motor, Teeth: 8, Speed: 60, Direction: -1},
	}}
	svg := SceneToSVG(sc, sc.Solve())

	assert.Contains(t, svg, jammedColor)
	assert.Contains(t, svg, stackColor)
	assert.Equal(t, 1, strings.Count(svg, "<line"))
}

func TestSceneToSVGEmpty(t *testing.T) {
	sc := &scene.Scene{Name: "empty"}
	svg := SceneToSVG(sc, sc.Solve())
	assert.NotContains(t, svg, "<circle")
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
}

func TestSweepToSVG(t *testing.T) {
	assert.Empty(t, SweepToSVG([]sweep.Point{{Value: 1}}, 100, 50))

	points := []sweep.Point{
		{Value: 0, RPM: 0},
		{Value: 10, RPM: 5},
		{Value: 20, Jammed: true},
		{Value: 30, RPM: 15},
		{Value: 40, RPM: 20},
	}
	svg := SweepToSVG(points, 100, 50)

	assert.Equal(t, 2, strings.Count(svg, "M"), "jam breaks the line")
	assert.Equal(t, 2, strings.Count(svg, " L"))
	assert.Equal(t, 1, strings.Count(svg, "<circle"))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	require.NoError(t, WriteFile(path, "<svg></svg>"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>", string(data))
}
