package storage

import (
	"path/filepath"
	"testing"

	"ryokan-explorer/models"
)

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ryokans_raw.json")
	cp := NewCheckpoint(path)

	if cp.Exists() {
		t.Fatal("checkpoint should not exist before Save")
	}

	raws := []*models.RawRyokan{
		{Name: "Yufuin Sansuikan", Address: "Yufuin, Oita", PriceMin: intPtr(30000)},
		{Name: "Hidden Mountain Inn"},
	}
	if err := cp.Save(raws); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !cp.Exists() {
		t.Fatal("checkpoint should exist after Save")
	}

	got, err := cp.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d raws, want 2", len(got))
	}
	if got[0].Name != "Yufuin Sansuikan" {
		t.Errorf("Name = %q", got[0].Name)
	}
	if got[0].PriceMin == nil || *got[0].PriceMin != 30000 {
		t.Errorf("PriceMin = %v", got[0].PriceMin)
	}
	if got[1].PriceMin != nil {
		t.Errorf("absent price should stay nil, got %v", got[1].PriceMin)
	}
}

func TestCheckpointRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ryokans_raw.json")
	cp := NewCheckpoint(path)

	if err := cp.Save([]*models.RawRyokan{{Name: "Inn"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := cp.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if cp.Exists() {
		t.Error("checkpoint still exists after Remove")
	}
	// Removing twice is fine.
	if err := cp.Remove(); err != nil {
		t.Errorf("second Remove returned error: %v", err)
	}
}
