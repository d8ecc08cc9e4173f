package config

import (
	"os"
	"path/filepath"
	"testing"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestFileStoreMissingFileStartsEmpty(t *testing.T) {
	store, err := NewFileStore(tempStorePath(t))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	all, err := store.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty store, got %d sections", len(all))
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := tempStorePath(t)

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if err := store.SetSection("resolver", map[string]interface{}{
		"match_floor": 0.65,
	}); err != nil {
		t.Fatalf("SetSection failed: %v", err)
	}
	if !store.IsModified() {
		t.Error("store should report unsaved changes")
	}

	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if store.IsModified() {
		t.Error("store should be clean after Save")
	}

	reloaded, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	data, err := reloaded.GetSection("resolver")
	if err != nil {
		t.Fatalf("GetSection failed: %v", err)
	}
	if data["match_floor"] != 0.65 {
		t.Errorf("match_floor = %v, want 0.65", data["match_floor"])
	}
}

func TestFileStoreGetSectionReturnsCopy(t *testing.T) {
	store, err := NewFileStore(tempStorePath(t))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	store.SetSection("llm", map[string]interface{}{"model": "a"})

	data, _ := store.GetSection("llm")
	data["model"] = "mutated"

	again, _ := store.GetSection("llm")
	if again["model"] != "a" {
		t.Error("GetSection must return a copy, not the backing map")
	}
}

func TestFileStoreUnknownSectionIsEmpty(t *testing.T) {
	store, err := NewFileStore(tempStorePath(t))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	data, err := store.GetSection("nonexistent")
	if err != nil {
		t.Fatalf("GetSection failed: %v", err)
	}
	if len(data) != 0 {
		t.Error("unknown section should yield an empty map")
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := tempStorePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path); err == nil {
		t.Error("expected error for corrupt config file")
	}
}

func TestFileStoreSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "config.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}
