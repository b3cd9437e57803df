package mech

import (
	"errors"
	"fmt"
	"math"
)

// Contract violations reported by Validate. Solve itself accepts any input.
var (
	// ErrEmptyID indicates a component without an identifier.
	ErrEmptyID = errors.New("mech: empty component id")

	// ErrDuplicateID indicates two components sharing one identifier.
	ErrDuplicateID = errors.New("mech: duplicate component id")

	// ErrUnknownKind indicates a kind other than GEAR or MOTOR.
	ErrUnknownKind = errors.New("mech: unknown component kind")

	// ErrInvalidTeeth indicates a tooth count that is not a positive integer.
	ErrInvalidTeeth = errors.New("mech: tooth count must be positive")

	// ErrNonFinitePosition indicates a NaN or infinite coordinate.
	ErrNonFinitePosition = errors.New("mech: position is not finite")

	// ErrNegativeRPM indicates a motor with a negative or non-finite speed.
	ErrNegativeRPM = errors.New("mech: motor rpm must be non-negative")

	// ErrInvalidDirection indicates a motor direction other than +1 or -1.
	ErrInvalidDirection = errors.New("mech: motor direction must be +1 or -1")
)

// ComponentError wraps a contract violation with the offending component.
type ComponentError struct {
	Index   int
	ID      string
	Wrapped error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("component %d (%q): %v", e.Index, e.ID, e.Wrapped)
}

func (e *ComponentError) Unwrap() error {
	return e.Wrapped
}

// Validate checks the caller contract of Solve and returns the first
// violation found.
func Validate(components []Component) error {
	seen := make(map[string]bool, len(components))
	for i, c := range components {
		fail := func(err error) error {
			return &ComponentError{Index: i, ID: c.ID, Wrapped: err}
		}

		if c.ID == "" {
			return fail(ErrEmptyID)
		}
		if seen[c.ID] {
			return fail(ErrDuplicateID)
		}
		seen[c.ID] = true

		if c.Kind != Gear && c.Kind != Motor {
			return fail(ErrUnknownKind)
		}
		if c.Teeth <= 0 {
			return fail(ErrInvalidTeeth)
		}
		if !finite(c.X) || !finite(c.Y) {
			return fail(ErrNonFinitePosition)
		}
		if !c.IsMotor() {
			continue
		}
		if c.RPM < 0 || !finite(c.RPM) {
			return fail(ErrNegativeRPM)
		}
		if c.Direction != 1 && c.Direction != -1 {
			return fail(ErrInvalidDirection)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
