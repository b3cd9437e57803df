package mech

import "math"

type Relation int

const (
	Stack Relation = iota
	Mesh
)

func (r Relation) String() string {
	switch r {
	case Stack:
		return "STACK"
	case Mesh:
		return "MESH"
	default:
		return "UNKNOWN"
	}
}

type Edge struct {
	To       string
	Relation Relation
}

// Graph maps a component ID to its edges. Every input component has a key,
// isolated ones map to an empty slice.
type Graph map[string][]Edge

// Classify reports how a and b are coupled. Stacking is checked first and
// wins over meshing.
func Classify(a, b Component) (Relation, bool) {
	dist := Distance(a, b)
	if dist < StackDistance {
		return Stack, true
	}

	optimal := PitchRadius(a.Teeth) + PitchRadius(b.Teeth)
	if math.Abs(dist-optimal) < MeshTolerance {
		return Mesh, true
	}
	return 0, false
}

func BuildGraph(components []Component) Graph {
	g := make(Graph, len(components))
	for _, c := range components {
		if _, ok := g[c.ID]; !ok {
			g[c.ID] = []Edge{}
		}
	}

	for i := 0; i < len(components); i++ {
		for j := i + 1; j < len(components); j++ {
			a, b := components[i], components[j]
			rel, ok := Classify(a, b)
			if !ok {
				continue
			}
			g[a.ID] = append(g[a.ID], Edge{To: b.ID, Relation: rel})
			g[b.ID] = append(g[b.ID], Edge{To: a.ID, Relation: rel})
		}
	}
	return g
}

func (g Graph) EdgeCount() int {
	n := 0
	for _, edges := range g {
		n += len(edges)
	}
	return n / 2
}

// Clusters returns the connected components of g. Clusters and their members
// follow the order of components.
func Clusters(g Graph, components []Component) [][]string {
	seen := make(map[string]bool, len(components))
	var clusters [][]string

	for _, c := range components {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		members := map[string]bool{c.ID: true}
		stack := []string{c.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, e := range g[id] {
				if seen[e.To] {
					continue
				}
				seen[e.To] = true
				members[e.To] = true
				stack = append(stack, e.To)
			}
		}

		cluster := make([]string, 0, len(members))
		for _, m := range components {
			if members[m.ID] {
				cluster = append(cluster, m.ID)
				delete(members, m.ID)
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}
