package mech

import "math"

type Kind string

const (
	Gear  Kind = "GEAR"
	Motor Kind = "MOTOR"
)

const (
	GridSize    = 20.0
	ToothModule = 2.5 * (GridSize / 10)

	// StackDistance is the axle-lock distance. It does not depend on tooth size.
	StackDistance = 5.0
	MeshTolerance = ToothModule * 0.8
	JamTolerance  = 0.01
)

// Component is one positioned part on the pegboard. RPM and Direction are
// only read for motors.
type Component struct {
	ID        string
	Kind      Kind
	X, Y      float64
	Teeth     int
	RPM       float64
	Direction int
}

func (c Component) IsMotor() bool { return c.Kind == Motor }

func PitchRadius(teeth int) float64 {
	return float64(teeth) * ToothModule / 2
}

func OuterRadius(teeth int) float64 {
	return PitchRadius(teeth) + ToothModule
}

func Distance(a, b Component) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// MotorVelocity converts a motor's RPM to revolutions per second, signed by
// its direction. Gears have no velocity of their own.
func MotorVelocity(c Component) float64 {
	if !c.IsMotor() {
		return 0
	}
	return c.RPM / 60 * float64(c.Direction)
}
