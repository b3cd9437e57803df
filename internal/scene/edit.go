package scene

import (
	"fmt"
	"math"

	"github.com/gearbox-lab/gearbox/internal/mech"
	"github.com/google/uuid"
)

// Editing limits of the property panel.
const (
	MinTeeth  = 6
	MaxTeeth  = 36
	MaxSpeed  = 300.0
	SpeedStep = 10.0
)

// Patch holds optional changes to a part. Nil fields are left alone.
type Patch struct {
	X, Y      *float64
	Teeth     *int
	Speed     *float64
	Direction *int
}

func newID() string {
	return uuid.NewString()[:8]
}

// Add places a new part with default settings and returns it.
func (s *Scene) Add(kind mech.Kind, x, y float64) (Part, error) {
	p := Part{ID: newID(), Type: kind, X: x, Y: y}
	switch kind {
	case mech.Gear:
		p.Teeth = DefaultGearTeeth
	case mech.Motor:
		p.Teeth = DefaultMotorTeeth
		p.Speed = DefaultMotorSpeed
		p.Direction = 1
	default:
		return Part{}, fmt.Errorf("%w: %q", mech.ErrUnknownKind, kind)
	}
	s.Components = append(s.Components, p)
	return p, nil
}

func (s *Scene) Find(id string) (*Part, error) {
	for i := range s.Components {
		if s.Components[i].ID == id {
			return &s.Components[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Update applies patch to the part with the given id. Nothing is changed if
// any field is out of range.
func (s *Scene) Update(id string, patch Patch) error {
	p, err := s.Find(id)
	if err != nil {
		return err
	}
	next := *p

	if patch.X != nil {
		next.X = *patch.X
	}
	if patch.Y != nil {
		next.Y = *patch.Y
	}
	if math.IsNaN(next.X) || math.IsInf(next.X, 0) || math.IsNaN(next.Y) || math.IsInf(next.Y, 0) {
		return fmt.Errorf("%w: position (%v, %v)", ErrOutOfRange, next.X, next.Y)
	}
	if patch.Teeth != nil {
		if *patch.Teeth < MinTeeth || *patch.Teeth > MaxTeeth {
			return fmt.Errorf("%w: teeth %d not in [%d, %d]", ErrOutOfRange, *patch.Teeth, MinTeeth, MaxTeeth)
		}
		next.Teeth = *patch.Teeth
	}
	if patch.Speed != nil || patch.Direction != nil {
		if next.Type != mech.Motor {
			return fmt.Errorf("%w: %s is not a motor", ErrOutOfRange, id)
		}
	}
	if patch.Speed != nil {
		speed := *patch.Speed
		if speed < 0 || speed > MaxSpeed || math.Mod(speed, SpeedStep) != 0 {
			return fmt.Errorf("%w: speed %v not in [0, %v] step %v", ErrOutOfRange, speed, MaxSpeed, SpeedStep)
		}
		next.Speed = speed
	}
	if patch.Direction != nil {
		if *patch.Direction != 1 && *patch.Direction != -1 {
			return fmt.Errorf("%w: direction %d", ErrOutOfRange, *patch.Direction)
		}
		next.Direction = *patch.Direction
	}

	*p = next
	return nil
}

func (s *Scene) Remove(id string) error {
	for i := range s.Components {
		if s.Components[i].ID == id {
			s.Components = append(s.Components[:i], s.Components[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
