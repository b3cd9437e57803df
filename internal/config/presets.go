package config

import (
	"math"
	"sort"

	"github.com/gearbox-lab/gearbox/internal/mech"
	"github.com/gearbox-lab/gearbox/internal/scene"
)

func motor(id string, x, y float64, teeth int, speed float64, dir int) scene.Part {
	return scene.Part{ID: id, Type: mech.Motor, X: x, Y: y, Teeth: teeth, Speed: speed, Direction: dir}
}

func gear(id string, x, y float64, teeth int) scene.Part {
	return scene.Part{ID: id, Type: mech.Gear, X: x, Y: y, Teeth: teeth}
}

// Presets builds a fresh scene on every call so callers may edit the result.
var Presets = map[string]func() *scene.Scene{
	"single": func() *scene.Scene {
		return &scene.Scene{Name: "single", Components: []scene.Part{
			motor("motor", 0, 0, 8, 60, 1),
		}}
	},
	"pair": func() *scene.Scene {
		return &scene.Scene{Name: "pair", Components: []scene.Part{
			motor("motor", 0, 0, 8, 60, 1),
			gear("gear", 60, 0, 16),
		}}
	},
	"stacked-motors": func() *scene.Scene {
		return &scene.Scene{Name: "stacked-motors", Components: []scene.Part{
			motor("slow", 100, 100, 10, 60, 1),
			motor("fast", 100, 100, 10, 120, 1),
		}}
	},
	"triangle": func() *scene.Scene {
		side := 50.0
		return &scene.Scene{Name: "triangle", Components: []scene.Part{
			motor("motor", 0, 0, 10, 60, 1),
			gear("right", side, 0, 10),
			gear("top", side/2, side*math.Sqrt(3)/2, 10),
		}}
	},
	"idle": func() *scene.Scene {
		return &scene.Scene{Name: "idle", Components: []scene.Part{
			gear("left", 0, 0, 12),
			gear("right", 60, 0, 12),
		}}
	},
	"train": func() *scene.Scene {
		return &scene.Scene{Name: "train", Components: []scene.Part{
			motor("motor", 0, 0, 8, 60, 1),
			gear("big", 60, 0, 16),
			gear("pinion", 60, 0, 8),
			gear("output", 60, 80, 24),
		}}
	},
	"reverser": func() *scene.Scene {
		return &scene.Scene{Name: "reverser", Components: []scene.Part{
			motor("motor", 0, 0, 12, 120, -1),
			gear("idler", 60, 0, 12),
			gear("output", 120, 0, 12),
		}}
	},
}

func GetPreset(name string) *scene.Scene {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
