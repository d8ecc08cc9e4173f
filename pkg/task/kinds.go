package task

import (
	"fmt"

	"github.com/ledgervox/ledgervox/pkg/types"
)

// Field keys shared by the extraction pipeline and the presentation layer.
const (
	FieldName         = "name"
	FieldClass        = "class"
	FieldSerial       = "serial"
	FieldModel        = "model"
	FieldManufacturer = "manufacturer"
	FieldVendor       = "vendor"
	FieldLocation     = "location"
	FieldNotes        = "notes"

	FieldType        = "type"
	FieldDescription = "description"
	FieldPerformer   = "performer"
	FieldEquipment   = "equipment"
	FieldOutcome     = "outcome"
	FieldDate        = "date"

	FieldPhone = "phone"
	FieldEmail = "email"
	FieldFloor = "floor"
)

// EquipmentTask collects a new equipment record.
type EquipmentTask struct {
	base
}

// NewEquipment creates an equipment-creation task in collecting state.
func NewEquipment() *EquipmentTask {
	return &EquipmentTask{base: newBase(KindEquipment, []field{
		{key: FieldName, label: "Name", required: true},
		{key: FieldClass, label: "Class", required: true},
		{key: FieldSerial, label: "Serial number"},
		{key: FieldModel, label: "Model"},
		{key: FieldManufacturer, label: "Manufacturer"},
		{key: FieldVendor, label: "Vendor"},
		{key: FieldLocation, label: "Location"},
		{key: FieldNotes, label: "Notes"},
	})}
}

// MaintenanceTask collects one maintenance visit. The performer slot is
// required only while the speaker inference is inconclusive: once the
// transcript's grammatical person identifies the narrator, the performer
// can be derived instead of dictated.
type MaintenanceTask struct {
	base
	hint types.SpeakerHint
}

// NewMaintenance creates a maintenance-event task in collecting state.
func NewMaintenance() *MaintenanceTask {
	return &MaintenanceTask{
		base: newBase(KindMaintenance, []field{
			{key: FieldType, label: "Intervention type", required: true},
			{key: FieldDescription, label: "Description", required: true},
			{key: FieldPerformer, label: "Performed by", required: true},
			{key: FieldEquipment, label: "Equipment"},
			{key: FieldVendor, label: "Vendor"},
			{key: FieldOutcome, label: "Outcome"},
			{key: FieldDate, label: "Date"},
		}),
		hint: types.SpeakerUnknown,
	}
}

// SetSpeakerHint records the current speaker inference for this task.
func (t *MaintenanceTask) SetSpeakerHint(hint types.SpeakerHint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hint = hint
}

// SpeakerHint returns the current speaker inference.
func (t *MaintenanceTask) SpeakerHint() types.SpeakerHint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hint
}

// missingForHint computes the hint-aware required set. Callers hold mu.
func (t *MaintenanceTask) missingForHint() []string {
	if t.hint.Conclusive() {
		return t.missing(map[string]bool{FieldPerformer: true})
	}
	return t.missing(nil)
}

// MissingRequiredFields excuses the performer slot when the speaker
// inference is conclusive.
func (t *MaintenanceTask) MissingRequiredFields() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.missingForHint()
}

// State derives completeness from the hint-aware required set.
func (t *MaintenanceTask) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.state == StateCollecting && len(t.missingForHint()) == 0 {
		return StateComplete
	}
	return t.state
}

// Confirm moves the task to confirmed using the hint-aware required set.
func (t *MaintenanceTask) Confirm() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ended() {
		return ErrTerminal
	}
	if len(t.missingForHint()) != 0 {
		return ErrNotComplete
	}
	t.state = StateConfirmed
	return nil
}

// VendorTask collects a new vendor record.
type VendorTask struct {
	base
}

// NewVendor creates a vendor-creation task in collecting state.
func NewVendor() *VendorTask {
	return &VendorTask{base: newBase(KindVendor, []field{
		{key: FieldName, label: "Name", required: true},
		{key: FieldPhone, label: "Phone"},
		{key: FieldEmail, label: "Email"},
		{key: FieldNotes, label: "Notes"},
	})}
}

// LocationTask collects a new location record.
type LocationTask struct {
	base
}

// NewLocation creates a location-creation task in collecting state.
func NewLocation() *LocationTask {
	return &LocationTask{base: newBase(KindLocation, []field{
		{key: FieldName, label: "Name", required: true},
		{key: FieldFloor, label: "Floor"},
		{key: FieldNotes, label: "Notes"},
	})}
}

// New creates the task variant for the given kind.
func New(kind Kind) (Task, error) {
	switch kind {
	case KindEquipment:
		return NewEquipment(), nil
	case KindMaintenance:
		return NewMaintenance(), nil
	case KindVendor:
		return NewVendor(), nil
	case KindLocation:
		return NewLocation(), nil
	default:
		return nil, fmt.Errorf("task: unknown kind %q", kind)
	}
}
