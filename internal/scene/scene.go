package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gearbox-lab/gearbox/internal/mech"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGearTeeth  = 12
	DefaultMotorTeeth = 8
	DefaultMotorSpeed = 60.0
)

var (
	ErrNotFound          = errors.New("scene: component not found")
	ErrOutOfRange        = errors.New("scene: value out of range")
	ErrUnsupportedFormat = errors.New("scene: unsupported file format")
)

// Part is one component as stored in a scene document.
type Part struct {
	ID        string    `yaml:"id" json:"id"`
	Type      mech.Kind `yaml:"type" json:"type"`
	X         float64   `yaml:"x" json:"x"`
	Y         float64   `yaml:"y" json:"y"`
	Teeth     int       `yaml:"teeth,omitempty" json:"teeth,omitempty"`
	Speed     float64   `yaml:"speed,omitempty" json:"speed,omitempty"`
	Direction int       `yaml:"direction,omitempty" json:"direction,omitempty"`
}

type Scene struct {
	Name       string `yaml:"name" json:"name"`
	Components []Part `yaml:"components" json:"components"`
}

type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func Parse(data []byte, format Format) (*Scene, error) {
	sc := &Scene{}
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, sc)
	case JSON:
		err = json.Unmarshal(data, sc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	sc.ApplyDefaults()
	return sc, nil
}

func Load(path string) (*Scene, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

func (s *Scene) Marshal(format Format) ([]byte, error) {
	switch format {
	case YAML:
		return yaml.Marshal(s)
	case JSON:
		return json.MarshalIndent(s, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func Save(path string, sc *Scene) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := sc.Marshal(format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyDefaults fills zero fields the way a freshly placed part starts out.
func (s *Scene) ApplyDefaults() {
	for i := range s.Components {
		p := &s.Components[i]
		if p.Type == "" {
			p.Type = mech.Gear
		}
		if p.Teeth == 0 {
			p.Teeth = DefaultGearTeeth
			if p.Type == mech.Motor {
				p.Teeth = DefaultMotorTeeth
			}
		}
		if p.Type == mech.Motor && p.Direction == 0 {
			p.Direction = 1
		}
	}
}

// Snapshot returns the solver input for the current state of the scene.
func (s *Scene) Snapshot() []mech.Component {
	out := make([]mech.Component, len(s.Components))
	for i, p := range s.Components {
		out[i] = mech.Component{
			ID:    p.ID,
			Kind:  p.Type,
			X:     p.X,
			Y:     p.Y,
			Teeth: p.Teeth,
		}
		if p.Type == mech.Motor {
			out[i].RPM = p.Speed
			out[i].Direction = p.Direction
		}
	}
	return out
}

func (s *Scene) Validate() error {
	if err := mech.Validate(s.Snapshot()); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	return nil
}

func (s *Scene) Solve() *mech.Result {
	return mech.Solve(s.Snapshot())
}

func (s *Scene) Motors() int {
	n := 0
	for _, p := range s.Components {
		if p.Type == mech.Motor {
			n++
		}
	}
	return n
}
