package mech

import "math"

type nodeState int

const (
	unvisited nodeState = iota
	visited
)

// node is the per-solve record for one component. jammed is orthogonal to
// state: a jammed node keeps the velocity it was first assigned.
type node struct {
	comp     Component
	state    nodeState
	velocity float64
	jammed   bool
}

// Result is the output of one solve. Velocities holds every input ID,
// unreached components map to 0. Jammed lists conflicting IDs in the order
// they were discovered.
type Result struct {
	Velocities map[string]float64
	Jammed     []string
	Graph      Graph

	jammed map[string]bool
}

func (r *Result) IsJammed(id string) bool { return r.jammed[id] }

// RPM reports the signed speed of id in revolutions per minute.
func (r *Result) RPM(id string) float64 { return r.Velocities[id] * 60 }

func (r *Result) JammedSet() map[string]bool {
	set := make(map[string]bool, len(r.jammed))
	for id := range r.jammed {
		set[id] = true
	}
	return set
}

type solver struct {
	nodes  []node
	index  map[string]int
	queue  []int
	result *Result
}

// Solve assigns a signed angular velocity to every component reachable from a
// motor and flags components whose required velocities disagree. It is a pure
// function of its input and never fails.
func Solve(components []Component) *Result {
	s := &solver{
		nodes: make([]node, 0, len(components)),
		index: make(map[string]int, len(components)),
		result: &Result{
			Velocities: make(map[string]float64, len(components)),
			Jammed:     []string{},
			Graph:      BuildGraph(components),
			jammed:     make(map[string]bool),
		},
	}
	for _, c := range components {
		if _, ok := s.index[c.ID]; ok {
			continue
		}
		s.index[c.ID] = len(s.nodes)
		s.nodes = append(s.nodes, node{comp: c})
	}

	s.seed(components)
	s.propagate()

	for _, n := range s.nodes {
		s.result.Velocities[n.comp.ID] = n.velocity
	}
	return s.result
}

func (s *solver) seed(components []Component) {
	for _, c := range components {
		if !c.IsMotor() {
			continue
		}
		i := s.index[c.ID]
		v := MotorVelocity(c)
		n := &s.nodes[i]
		if n.state == unvisited {
			n.velocity = v
			n.state = visited
			s.queue = append(s.queue, i)
			continue
		}
		if conflicts(n.velocity, v) {
			s.jam(i)
		}
	}
}

func (s *solver) propagate() {
	for head := 0; head < len(s.queue); head++ {
		ci := s.queue[head]
		cur := &s.nodes[ci]

		for _, e := range s.result.Graph[cur.comp.ID] {
			di, ok := s.index[e.To]
			if !ok {
				continue
			}
			next := &s.nodes[di]
			required := transfer(cur.comp, next.comp, cur.velocity, e.Relation)

			if next.state == visited {
				if conflicts(next.velocity, required) {
					s.jam(di)
					s.jam(ci)
				}
				continue
			}
			next.velocity = required
			next.state = visited
			s.queue = append(s.queue, di)
		}
	}
}

func (s *solver) jam(i int) {
	n := &s.nodes[i]
	if n.jammed {
		return
	}
	n.jammed = true
	s.result.jammed[n.comp.ID] = true
	s.result.Jammed = append(s.result.Jammed, n.comp.ID)
}

// transfer returns the velocity that to must have when from turns at v.
// Meshed gears reverse direction and keep tangential speed at the pitch circle.
func transfer(from, to Component, v float64, rel Relation) float64 {
	if rel == Stack {
		return v
	}
	return -v * float64(from.Teeth) / float64(to.Teeth)
}

func conflicts(a, b float64) bool {
	return math.Abs(a-b) > JamTolerance
}
