package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/gearbox-lab/gearbox/internal/mech"
	"github.com/gearbox-lab/gearbox/internal/scene"
)

type ComponentState struct {
	ID       string    `json:"id"`
	Type     mech.Kind `json:"type"`
	Teeth    int       `json:"teeth"`
	Velocity float64   `json:"velocity"`
	RPM      float64   `json:"rpm"`
	Jammed   bool      `json:"jammed"`
}

type EdgeData struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

type ExportData struct {
	Scene      string           `json:"scene"`
	Components []ComponentState `json:"components"`
	Edges      []EdgeData       `json:"edges"`
	Jammed     []string         `json:"jammed"`
}

// NewExportData flattens a solve result in scene order. Each undirected edge
// appears once, from the earlier component to the later one.
func NewExportData(sc *scene.Scene, res *mech.Result) ExportData {
	data := ExportData{
		Scene:      sc.Name,
		Components: make([]ComponentState, 0, len(sc.Components)),
		Edges:      []EdgeData{},
		Jammed:     res.Jammed,
	}

	order := make(map[string]int, len(sc.Components))
	for i, p := range sc.Components {
		if _, ok := order[p.ID]; !ok {
			order[p.ID] = i
		}
	}

	for i, p := range sc.Components {
		data.Components = append(data.Components, ComponentState{
			ID:       p.ID,
			Type:     p.Type,
			Teeth:    p.Teeth,
			Velocity: res.Velocities[p.ID],
			RPM:      res.RPM(p.ID),
			Jammed:   res.IsJammed(p.ID),
		})
		if order[p.ID] != i {
			continue
		}
		for _, e := range res.Graph[p.ID] {
			if order[e.To] > i {
				data.Edges = append(data.Edges, EdgeData{From: p.ID, To: e.To, Relation: e.Relation.String()})
			}
		}
	}
	return data
}

func ExportJSON(w io.Writer, sc *scene.Scene, res *mech.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(sc, res))
}

func ExportJSONFile(path string, sc *scene.Scene, res *mech.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, sc, res)
}
