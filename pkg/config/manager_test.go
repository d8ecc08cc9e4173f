package config

import (
	"fmt"
	"testing"
)

// stubSection is a minimal Section for manager tests.
type stubSection struct {
	id          string
	data        map[string]interface{}
	validateErr error
}

func (s *stubSection) ID() string                                { return s.id }
func (s *stubSection) Title() string                             { return s.id }
func (s *stubSection) Description() string                       { return "" }
func (s *stubSection) Data() map[string]interface{}              { return s.data }
func (s *stubSection) SetData(data map[string]interface{}) error { s.data = data; return nil }
func (s *stubSection) Validate() error                           { return s.validateErr }
func (s *stubSection) Reset()                                    { s.data = map[string]interface{}{} }

// stubStore is an in-memory Store for manager tests.
type stubStore struct {
	sections map[string]map[string]interface{}
	loadErr  error
	saveErr  error
	saved    bool
}

func newStubStore() *stubStore {
	return &stubStore{sections: make(map[string]map[string]interface{})}
}

func (s *stubStore) Load() error { return s.loadErr }
func (s *stubStore) Save() error { s.saved = true; return s.saveErr }

func (s *stubStore) GetSection(id string) (map[string]interface{}, error) {
	if data, ok := s.sections[id]; ok {
		return data, nil
	}
	return make(map[string]interface{}), nil
}

func (s *stubStore) SetSection(id string, data map[string]interface{}) error {
	s.sections[id] = data
	return nil
}

func (s *stubStore) GetAll() (map[string]map[string]interface{}, error) {
	return s.sections, nil
}

func (s *stubStore) SetAll(data map[string]map[string]interface{}) error {
	s.sections = data
	return nil
}

func TestManagerRegisterSection(t *testing.T) {
	m := NewManager(newStubStore())

	if err := m.RegisterSection(&stubSection{id: "alpha"}); err != nil {
		t.Fatalf("RegisterSection failed: %v", err)
	}
	if err := m.RegisterSection(&stubSection{id: "alpha"}); err == nil {
		t.Error("expected error for duplicate registration")
	}

	if _, ok := m.GetSection("alpha"); !ok {
		t.Error("registered section not found")
	}
	if _, ok := m.GetSection("missing"); ok {
		t.Error("unregistered section should not be found")
	}
}

func TestManagerSectionOrder(t *testing.T) {
	m := NewManager(newStubStore())
	for _, id := range []string{"first", "second", "third"} {
		if err := m.RegisterSection(&stubSection{id: id}); err != nil {
			t.Fatalf("RegisterSection(%q) failed: %v", id, err)
		}
	}

	sections := m.GetSections()
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	for i, want := range []string{"first", "second", "third"} {
		if sections[i].ID() != want {
			t.Errorf("sections[%d] = %q, want %q", i, sections[i].ID(), want)
		}
	}
}

func TestManagerLoadAll(t *testing.T) {
	store := newStubStore()
	store.sections["alpha"] = map[string]interface{}{"key": "value"}

	m := NewManager(store)
	section := &stubSection{id: "alpha"}
	m.RegisterSection(section)

	if err := m.LoadAll(); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if section.data["key"] != "value" {
		t.Error("section data not loaded from store")
	}
}

func TestManagerLoadAllStoreError(t *testing.T) {
	store := newStubStore()
	store.loadErr = fmt.Errorf("disk gone")

	m := NewManager(store)
	if err := m.LoadAll(); err == nil {
		t.Error("expected load error to propagate")
	}
}

func TestManagerSaveAll(t *testing.T) {
	store := newStubStore()
	m := NewManager(store)
	m.RegisterSection(&stubSection{id: "alpha", data: map[string]interface{}{"key": "value"}})

	if err := m.SaveAll(); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if store.sections["alpha"]["key"] != "value" {
		t.Error("section data not staged to store")
	}
	if !store.saved {
		t.Error("store Save not called")
	}
}

func TestManagerSaveAllValidatesFirst(t *testing.T) {
	store := newStubStore()
	m := NewManager(store)
	m.RegisterSection(&stubSection{
		id:          "alpha",
		data:        map[string]interface{}{"key": "value"},
		validateErr: fmt.Errorf("bad value"),
	})

	if err := m.SaveAll(); err == nil {
		t.Fatal("expected validation error")
	}
	if store.saved {
		t.Error("an invalid section must block the save entirely")
	}
}

func TestManagerResetAll(t *testing.T) {
	m := NewManager(newStubStore())
	s1 := &stubSection{id: "a", data: map[string]interface{}{"k": "v"}}
	s2 := &stubSection{id: "b", data: map[string]interface{}{"k": "v"}}
	m.RegisterSection(s1)
	m.RegisterSection(s2)

	m.ResetAll()

	if len(s1.data) != 0 || len(s2.data) != 0 {
		t.Error("sections not reset")
	}
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager(newStubStore())

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		i := i
		go func() {
			m.RegisterSection(&stubSection{id: fmt.Sprintf("s%d", i)})
			m.GetSections()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	if got := len(m.GetSections()); got != 10 {
		t.Errorf("expected 10 sections, got %d", got)
	}
}
