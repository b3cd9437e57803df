package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gearbox-lab/gearbox/internal/mech"
	"github.com/gearbox-lab/gearbox/internal/scene"
)

var (
	ErrUnknownComponent = errors.New("sweep: unknown component")
	ErrInvalidParam     = errors.New("sweep: invalid parameter")
	ErrInvalidValue     = errors.New("sweep: invalid value")
	ErrTooManyValues    = errors.New("sweep: too many values")
)

// MaxValues bounds the number of snapshots one sweep may solve.
const MaxValues = 10000

type Param string

const (
	Teeth Param = "teeth"
	RPM   Param = "rpm"
)

// Sweep varies one parameter of Target and records how Probe responds.
type Sweep struct {
	Target  string
	Probe   string
	Param   Param
	Values  []float64
	Workers int
}

type Point struct {
	Value    float64
	Velocity float64
	RPM      float64
	Jammed   bool
	Jams     int
}

// Count reports how many values Range(from, to, step) yields. An empty range
// counts 0 without error.
func Count(from, to, step float64) (int, error) {
	if !finite(from) || !finite(to) || !finite(step) {
		return 0, fmt.Errorf("%w: range %v..%v step %v", ErrInvalidValue, from, to, step)
	}
	if step <= 0 || to < from {
		return 0, nil
	}
	n := math.Floor((to-from)/step+1e-9) + 1
	if n > MaxValues {
		return 0, fmt.Errorf("%w: %.0f exceeds %d", ErrTooManyValues, n, MaxValues)
	}
	return int(n), nil
}

// Range returns from, from+step, ... up to and including to. Ranges Count
// rejects yield nil.
func Range(from, to, step float64) []float64 {
	n, err := Count(from, to, step)
	if err != nil || n == 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s *Sweep) validate(base []mech.Component) (int, error) {
	target, probe := -1, -1
	for i, c := range base {
		if c.ID == s.Target && target < 0 {
			target = i
		}
		if c.ID == s.Probe && probe < 0 {
			probe = i
		}
	}
	if target < 0 {
		return 0, fmt.Errorf("%w: target %q", ErrUnknownComponent, s.Target)
	}
	if probe < 0 {
		return 0, fmt.Errorf("%w: probe %q", ErrUnknownComponent, s.Probe)
	}

	switch s.Param {
	case Teeth:
		for _, v := range s.Values {
			if !finite(v) || v < 1 || v > scene.MaxTeeth || v != math.Trunc(v) {
				return 0, fmt.Errorf("%w: teeth %v", ErrInvalidValue, v)
			}
		}
	case RPM:
		if !base[target].IsMotor() {
			return 0, fmt.Errorf("%w: %s is not a motor", ErrInvalidParam, s.Target)
		}
		for _, v := range s.Values {
			if v < 0 || !finite(v) {
				return 0, fmt.Errorf("%w: rpm %v", ErrInvalidValue, v)
			}
		}
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidParam, s.Param)
	}
	return target, nil
}

// Run solves one snapshot per value. Snapshots are independent, so they are
// split across Workers goroutines. Points keep the order of Values.
func (s *Sweep) Run(ctx context.Context, base []mech.Component) ([]Point, error) {
	target, err := s.validate(base)
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(s.Values))
	parallelFor(len(s.Values), s.Workers, func(start, end int) {
		snapshot := make([]mech.Component, len(base))
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			copy(snapshot, base)
			s.apply(&snapshot[target], s.Values[i])

			res := mech.Solve(snapshot)
			points[i] = Point{
				Value:    s.Values[i],
				Velocity: res.Velocities[s.Probe],
				RPM:      res.RPM(s.Probe),
				Jammed:   res.IsJammed(s.Probe),
				Jams:     len(res.Jammed),
			}
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *Sweep) apply(c *mech.Component, v float64) {
	switch s.Param {
	case Teeth:
		c.Teeth = int(v)
	case RPM:
		c.RPM = v
	}
}

func parallelFor(n, workers int, fn func(start, end int)) {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
