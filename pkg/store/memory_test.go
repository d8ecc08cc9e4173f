package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgervox/ledgervox/pkg/types"
)

func TestMemoryVendorLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.InsertVendor(ctx, types.Vendor{Name: "Medika Srl"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = m.InsertVendor(ctx, types.Vendor{Name: "Elettro Impianti Srl"})
	require.NoError(t, err)

	vendors, err := m.ActiveVendors(ctx)
	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, "Elettro Impianti Srl", vendors[0].Name, "listing must be ordered by name")
}

func TestMemoryInlineCreateFlagsIncomplete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.CreateVendor(ctx, types.Vendor{Name: "Siemens Healthcare"})
	require.NoError(t, err)

	vendors, err := m.ActiveVendors(ctx)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, id, vendors[0].ID)
	assert.True(t, vendors[0].Incomplete, "inline-created records are flagged for follow-up")
}

func TestMemoryUpdateEquipment(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.InsertEquipment(ctx, types.Equipment{Name: "Autoclave", Class: "sterilization"})
	require.NoError(t, err)

	err = m.UpdateEquipment(ctx, types.Equipment{ID: id, Name: "Autoclave Europa", Class: "sterilization"})
	require.NoError(t, err)

	items, err := m.ActiveEquipment(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Autoclave Europa", items[0].Name)

	assert.ErrorIs(t, m.UpdateEquipment(ctx, types.Equipment{ID: "missing"}), ErrNotFound)
}
