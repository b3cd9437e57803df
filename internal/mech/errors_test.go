package mech

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		comps []Component
		want  error
		index int
	}{
		{"valid", []Component{motor("m", 0, 0, 8, 60, 1), gear("g", 60, 0, 16)}, nil, 0},
		{"empty", nil, nil, 0},
		{"stopped motor", []Component{motor("m", 0, 0, 8, 0, -1)}, nil, 0},
		{"empty id", []Component{gear("", 0, 0, 8)}, ErrEmptyID, 0},
		{"duplicate", []Component{gear("a", 0, 0, 8), gear("a", 90, 0, 8)}, ErrDuplicateID, 1},
		{"kind", []Component{{ID: "x", Kind: "BELT", Teeth: 8}}, ErrUnknownKind, 0},
		{"teeth", []Component{gear("g", 0, 0, 0)}, ErrInvalidTeeth, 0},
		{"nan", []Component{gear("g", math.NaN(), 0, 8)}, ErrNonFinitePosition, 0},
		{"inf", []Component{gear("g", 0, math.Inf(1), 8)}, ErrNonFinitePosition, 0},
		{"negative rpm", []Component{motor("m", 0, 0, 8, -1, 1)}, ErrNegativeRPM, 0},
		{"direction", []Component{gear("g", 0, 0, 8), motor("m", 90, 0, 8, 60, 0)}, ErrInvalidDirection, 1},
		{"gear direction ignored", []Component{{ID: "g", Kind: Gear, Teeth: 8, Direction: 7}}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.comps)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var ce *ComponentError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ComponentError, got %T", err)
			}
			if ce.Index != tt.index {
				t.Errorf("expected index %d, got %d", tt.index, ce.Index)
			}
		})
	}
}

func TestComponentErrorMessage(t *testing.T) {
	err := Validate([]Component{gear("g1", 0, 0, -3)})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, `"g1"`) || !strings.Contains(msg, "tooth count") {
		t.Errorf("unexpected message %q", msg)
	}
}
