// Package store defines the persistence ports the dictation core consumes.
// The real storage schema and query layer live in an external collaborator;
// the core only lists candidate records for entity resolution and hands
// finished records over. Memory is an in-process implementation for tests
// and the console harness.
package store

import (
	"context"
	"errors"

	"github.com/ledgervox/ledgervox/pkg/types"
)

// ErrNotFound is returned when updating a record that does not exist.
var ErrNotFound = errors.New("store: record not found")

// Directory lists active candidate records for entity resolution, ordered
// by name.
type Directory interface {
	ActiveVendors(ctx context.Context) ([]types.Vendor, error)
	ActiveLocations(ctx context.Context) ([]types.Location, error)
	ActiveEquipment(ctx context.Context) ([]types.Equipment, error)
}

// Writer persists records. Create* are the inline "not found — create now"
// flows: they accept minimal records and flag them incomplete for later
// follow-up. Insert* persist finished records.
type Writer interface {
	CreateVendor(ctx context.Context, v types.Vendor) (string, error)
	CreateLocation(ctx context.Context, l types.Location) (string, error)

	InsertVendor(ctx context.Context, v types.Vendor) (string, error)
	InsertLocation(ctx context.Context, l types.Location) (string, error)
	InsertEquipment(ctx context.Context, e types.Equipment) (string, error)
	InsertMaintenance(ctx context.Context, m types.MaintenanceLog) (string, error)

	UpdateEquipment(ctx context.Context, e types.Equipment) error
}

// Store combines the directory and writer ports.
type Store interface {
	Directory
	Writer
}
