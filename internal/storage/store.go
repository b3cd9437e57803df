package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gearbox-lab/gearbox/internal/scene"
	"github.com/google/uuid"
)

var ErrSceneNotFound = errors.New("storage: scene not found")

const (
	metadataFile = "metadata.json"
	sceneFile    = "scene.yaml"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
	Components int       `json:"components"`
	Motors     int       `json:"motors"`
	Jammed     int       `json:"jammed"`
}

// Save writes sc as a new library entry and returns its id.
func (s *Store) Save(sc *scene.Scene) (string, error) {
	id := uuid.NewString()
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := Metadata{
		ID:         id,
		Name:       sc.Name,
		Timestamp:  s.now(),
		Components: len(sc.Components),
		Motors:     sc.Motors(),
		Jammed:     len(sc.Solve().Jammed),
	}

	if err := scene.Save(filepath.Join(dir, sceneFile), sc); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return id, nil
}

// List returns every saved scene, newest first. Entries with unreadable
// metadata are skipped.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	scenes := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			continue
		}
		scenes = append(scenes, *meta)
	}

	sort.SliceStable(scenes, func(i, j int) bool {
		return scenes[i].Timestamp.After(scenes[j].Timestamp)
	})
	return scenes, nil
}

func (s *Store) Load(id string) (*Metadata, *scene.Scene, error) {
	meta, err := s.readMetadata(id)
	if err != nil {
		return nil, nil, err
	}
	sc, err := scene.Load(filepath.Join(s.baseDir, id, sceneFile))
	if err != nil {
		return nil, nil, fmt.Errorf("load scene %s: %w", id, err)
	}
	return meta, sc, nil
}

func (s *Store) Delete(id string) error {
	if _, err := s.readMetadata(id); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, id))
}

func (s *Store) readMetadata(id string) (*Metadata, error) {
	if id == "" || filepath.Base(id) != id {
		return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, id)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, id)
		}
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
