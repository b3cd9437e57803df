package mech_test

import (
	"fmt"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gearbox-lab/gearbox/internal/mech"
)

// randomBoard places parts on a 10-unit grid with tooth counts whose pitch
// radii are multiples of 10, so stacks and meshes occur often.
func randomBoard(r *rand.Rand, n int, motorRatio float64) []mech.Component {
	teeth := []int{8, 12, 16, 24}
	rpms := []float64{30, 60, 120}

	out := make([]mech.Component, n)
	for i := range out {
		c := mech.Component{
			ID:    fmt.Sprintf("c%d", i),
			Kind:  mech.Gear,
			X:     float64(r.Intn(11) * 10),
			Y:     float64(r.Intn(11) * 10),
			Teeth: teeth[r.Intn(len(teeth))],
		}
		if r.Float64() < motorRatio {
			c.Kind = mech.Motor
			c.RPM = rpms[r.Intn(len(rpms))]
			c.Direction = 1
			if r.Intn(2) == 0 {
				c.Direction = -1
			}
		}
		out[i] = c
	}
	return out
}

func byID(components []mech.Component) map[string]mech.Component {
	m := make(map[string]mech.Component, len(components))
	for _, c := range components {
		m[c.ID] = c
	}
	return m
}

var _ = Describe("Solve", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	Context("with no motors", func() {
		It("leaves every component at rest and nothing jammed", func() {
			for trial := 0; trial < 50; trial++ {
				board := randomBoard(rng, 12, 0)
				res := mech.Solve(board)

				Expect(res.Jammed).To(BeEmpty())
				for _, c := range board {
					Expect(res.Velocities).To(HaveKeyWithValue(c.ID, 0.0))
				}
			}
		})
	})

	Context("on random boards", func() {
		It("reports every input id", func() {
			for trial := 0; trial < 50; trial++ {
				board := randomBoard(rng, 15, 0.3)
				res := mech.Solve(board)

				Expect(res.Velocities).To(HaveLen(len(board)))
				for _, c := range board {
					Expect(res.Velocities).To(HaveKey(c.ID))
				}
			}
		})

		It("is idempotent", func() {
			for trial := 0; trial < 50; trial++ {
				board := randomBoard(rng, 15, 0.3)
				first := mech.Solve(board)
				second := mech.Solve(board)

				Expect(second.Velocities).To(Equal(first.Velocities))
				Expect(second.Jammed).To(Equal(first.Jammed))
			}
		})

		It("flags conflicts in pairs of connected components", func() {
			for trial := 0; trial < 100; trial++ {
				board := randomBoard(rng, 15, 0.3)
				res := mech.Solve(board)

				for _, id := range res.Jammed {
					partnered := false
					for _, e := range res.Graph[id] {
						if res.IsJammed(e.To) {
							partnered = true
							break
						}
					}
					Expect(partnered).To(BeTrue(), "jammed %s has no jammed neighbour", id)
				}
			}
		})

		It("keeps stacks equal and meshes inverted when nothing jams", func() {
			checked := 0
			for trial := 0; trial < 200; trial++ {
				board := randomBoard(rng, 10, 0.15)
				res := mech.Solve(board)
				if len(res.Jammed) > 0 {
					continue
				}
				checked++

				parts := byID(board)
				for id, edges := range res.Graph {
					va := res.Velocities[id]
					for _, e := range edges {
						vb := res.Velocities[e.To]
						switch e.Relation {
						case mech.Stack:
							Expect(vb).To(BeNumerically("~", va, mech.JamTolerance))
						case mech.Mesh:
							want := -va * float64(parts[id].Teeth) / float64(parts[e.To].Teeth)
							Expect(vb).To(BeNumerically("~", want, mech.JamTolerance))
						}
					}
				}
			}
			Expect(checked).To(BeNumerically(">", 0))
		})
	})

	Context("with a single driven pair", func() {
		DescribeTable("meshed speed follows the tooth ratio",
			func(t1, t2 int, rpm float64, dir int) {
				dist := mech.PitchRadius(t1) + mech.PitchRadius(t2)
				res := mech.Solve([]mech.Component{
					{ID: "drive", Kind: mech.Motor, Teeth: t1, RPM: rpm, Direction: dir},
					{ID: "driven", Kind: mech.Gear, X: dist, Teeth: t2},
				})

				v := rpm / 60 * float64(dir)
				Expect(res.Velocities["drive"]).To(Equal(v))
				Expect(res.Velocities["driven"]).To(BeNumerically("~", -v*float64(t1)/float64(t2), 1e-12))
				Expect(res.Jammed).To(BeEmpty())
			},
			Entry("8 to 16", 8, 16, 60.0, 1),
			Entry("16 to 8", 16, 8, 60.0, 1),
			Entry("reverse motor", 12, 36, 120.0, -1),
			Entry("stopped motor", 10, 20, 0.0, 1),
		)

		It("gives stacked parts identical velocity", func() {
			res := mech.Solve([]mech.Component{
				{ID: "m", Kind: mech.Motor, X: 40, Y: 40, Teeth: 8, RPM: 90, Direction: -1},
				{ID: "g", Kind: mech.Gear, X: 42, Y: 41, Teeth: 30},
			})

			Expect(res.Velocities["g"]).To(Equal(res.Velocities["m"]))
			Expect(res.Velocities["g"]).To(Equal(-1.5))
		})
	})

	Context("with opposing motors on one axle", func() {
		It("jams both and keeps each motor's own velocity", func() {
			res := mech.Solve([]mech.Component{
				{ID: "a", Kind: mech.Motor, Teeth: 10, RPM: 60, Direction: 1},
				{ID: "b", Kind: mech.Motor, Teeth: 10, RPM: 120, Direction: 1},
			})

			Expect(res.Jammed).To(ConsistOf("a", "b"))
			Expect(res.Velocities).To(HaveKeyWithValue("a", 1.0))
			Expect(res.Velocities).To(HaveKeyWithValue("b", 2.0))
		})
	})

	It("never produces non-finite velocities for valid input", func() {
		for trial := 0; trial < 50; trial++ {
			board := randomBoard(rng, 20, 0.4)
			Expect(mech.Validate(board)).To(Succeed())
			for _, v := range mech.Solve(board).Velocities {
				Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
			}
		}
	})
})
