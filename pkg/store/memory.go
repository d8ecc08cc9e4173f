package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ledgervox/ledgervox/pkg/types"
)

// Memory is an in-process Store for tests and the console harness.
type Memory struct {
	mu          sync.RWMutex
	vendors     map[string]types.Vendor
	locations   map[string]types.Location
	equipment   map[string]types.Equipment
	maintenance map[string]types.MaintenanceLog
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		vendors:     make(map[string]types.Vendor),
		locations:   make(map[string]types.Location),
		equipment:   make(map[string]types.Equipment),
		maintenance: make(map[string]types.MaintenanceLog),
	}
}

// ActiveVendors returns all vendors ordered by name.
func (m *Memory) ActiveVendors(ctx context.Context) ([]types.Vendor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Vendor, 0, len(m.vendors))
	for _, v := range m.vendors {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i].Name, out[j].Name) })
	return out, nil
}

// ActiveLocations returns all locations ordered by name.
func (m *Memory) ActiveLocations(ctx context.Context) ([]types.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Location, 0, len(m.locations))
	for _, l := range m.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i].Name, out[j].Name) })
	return out, nil
}

// ActiveEquipment returns all equipment ordered by name.
func (m *Memory) ActiveEquipment(ctx context.Context) ([]types.Equipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Equipment, 0, len(m.equipment))
	for _, e := range m.equipment {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i].Name, out[j].Name) })
	return out, nil
}

// CreateVendor persists a minimal vendor flagged incomplete.
func (m *Memory) CreateVendor(ctx context.Context, v types.Vendor) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = uuid.New().String()
	v.Incomplete = true
	m.vendors[v.ID] = v
	return v.ID, nil
}

// CreateLocation persists a minimal location flagged incomplete.
func (m *Memory) CreateLocation(ctx context.Context, l types.Location) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = uuid.New().String()
	l.Incomplete = true
	m.locations[l.ID] = l
	return l.ID, nil
}

// InsertVendor persists a finished vendor record.
func (m *Memory) InsertVendor(ctx context.Context, v types.Vendor) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = uuid.New().String()
	m.vendors[v.ID] = v
	return v.ID, nil
}

// InsertLocation persists a finished location record.
func (m *Memory) InsertLocation(ctx context.Context, l types.Location) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = uuid.New().String()
	m.locations[l.ID] = l
	return l.ID, nil
}

// InsertEquipment persists a finished equipment record.
func (m *Memory) InsertEquipment(ctx context.Context, e types.Equipment) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.New().String()
	m.equipment[e.ID] = e
	return e.ID, nil
}

// InsertMaintenance persists a finished maintenance log.
func (m *Memory) InsertMaintenance(ctx context.Context, log types.MaintenanceLog) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.ID = uuid.New().String()
	m.maintenance[log.ID] = log
	return log.ID, nil
}

// UpdateEquipment replaces an existing equipment record.
func (m *Memory) UpdateEquipment(ctx context.Context, e types.Equipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.equipment[e.ID]; !ok {
		return ErrNotFound
	}
	m.equipment[e.ID] = e
	return nil
}

// MaintenanceLogs returns all stored maintenance logs, for inspection in
// tests and the console harness.
func (m *Memory) MaintenanceLogs() []types.MaintenanceLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.MaintenanceLog, 0, len(m.maintenance))
	for _, log := range m.maintenance {
		out = append(out, log)
	}
	return out
}

func less(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
