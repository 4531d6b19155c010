package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ryokan-explorer/models"
)

// Checkpoint persists the collect-stage result so a failed geocoding stage
// can resume without re-scraping the site. Uses the same
// write-to-temp-then-rename discipline as the CSV store.
type Checkpoint struct {
	path string
}

func NewCheckpoint(path string) *Checkpoint {
	return &Checkpoint{path: path}
}

// Exists reports whether a previous run left a checkpoint behind.
func (c *Checkpoint) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

// Save writes the raw listings as JSON, atomically replacing any previous
// checkpoint.
func (c *Checkpoint) Save(raws []*models.RawRyokan) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("checkpoint: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".checkpoint-*.json")
	if err != nil {
		return fmt.Errorf("checkpoint: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raws); err != nil {
		tmp.Close()
		return fmt.Errorf("checkpoint: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("checkpoint: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("checkpoint: replace %q: %w", c.path, err)
	}
	return nil
}

// Load reads a previously saved checkpoint.
func (c *Checkpoint) Load() ([]*models.RawRyokan, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open %q: %w", c.path, err)
	}
	defer f.Close()

	var raws []*models.RawRyokan
	if err := json.NewDecoder(f).Decode(&raws); err != nil {
		return nil, fmt.Errorf("checkpoint: decode %q: %w", c.path, err)
	}
	return raws, nil
}

// Remove deletes the checkpoint after a fully successful run.
func (c *Checkpoint) Remove() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("checkpoint: remove %q: %w", c.path, err)
	}
	return nil
}
