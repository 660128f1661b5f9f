package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bakehouse/internal/models"
)

// Collection file names, kept stable across versions.
const (
	ingredientsFile = "ingredients.json"
	productsFile    = "products.json"
	ordersFile      = "orders.json"
	staffFile       = "staff.json"
)

// JSONStore persists each collection as a JSON file in a data
// directory. Files are written atomically: marshalled to a temp file,
// flushed, then renamed over the target.
type JSONStore struct {
	dir string
}

// NewJSONStore creates the data directory if needed and returns a store
// over it.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

// Save writes all four collections. Each file either fully replaces its
// predecessor or is left untouched.
func (s *JSONStore) Save(snap models.Snapshot) error {
	if err := s.writeFile(ingredientsFile, snap.Ingredients); err != nil {
		return err
	}
	if err := s.writeFile(productsFile, snap.Products); err != nil {
		return err
	}
	if err := s.writeFile(ordersFile, snap.Orders); err != nil {
		return err
	}
	return s.writeFile(staffFile, snap.Staff)
}

// Load reads all four collections. Missing files load as empty
// collections; unreadable JSON fails with models.ErrCorruptState.
func (s *JSONStore) Load() (models.Snapshot, error) {
	var snap models.Snapshot
	if err := s.readFile(ingredientsFile, &snap.Ingredients); err != nil {
		return models.Snapshot{}, err
	}
	if err := s.readFile(productsFile, &snap.Products); err != nil {
		return models.Snapshot{}, err
	}
	if err := s.readFile(ordersFile, &snap.Orders); err != nil {
		return models.Snapshot{}, err
	}
	if err := s.readFile(staffFile, &snap.Staff); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// Close is a no-op; files are closed per write.
func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) writeFile(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *JSONStore) readFile(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrCorruptState, name, err)
	}
	return nil
}
