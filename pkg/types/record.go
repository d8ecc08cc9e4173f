package types

// EntityKind identifies a resolvable entity domain.
type EntityKind string

const (
	KindVendor    EntityKind = "vendor"
	KindLocation  EntityKind = "location"
	KindEquipment EntityKind = "equipment"
)

// Named is implemented by records that can be resolved by spoken name.
type Named interface {
	// RecordName returns the canonical display name used for matching.
	RecordName() string
}

// Vendor is a supplier or service company record.
type Vendor struct {
	ID    string
	Name  string
	Phone string
	Email string
	Notes string

	// Incomplete marks records created inline from an unresolved spoken
	// reference; they are flagged for later follow-up.
	Incomplete bool
}

func (v Vendor) RecordName() string { return v.Name }

// Location is a physical place where equipment is installed.
type Location struct {
	ID         string
	Name       string
	Floor      string
	Notes      string
	Incomplete bool
}

func (l Location) RecordName() string { return l.Name }

// Equipment is a tracked inventory item.
type Equipment struct {
	ID           string
	Name         string
	Serial       string
	Model        string
	Manufacturer string
	Class        string
	VendorID     string
	LocationID   string
	Notes        string
	Incomplete   bool
}

func (e Equipment) RecordName() string { return e.Name }

// MaintenanceLog records one maintenance visit on a piece of equipment.
type MaintenanceLog struct {
	ID          string
	EquipmentID string
	VendorID    string

	// Kind is the intervention classification (preventive, corrective,
	// inspection, installation).
	Kind string

	Description string

	// Performer is who carried out the intervention. It may be inferred
	// from the transcript's grammatical person instead of dictated.
	Performer string

	Outcome string
	Date    string
}
