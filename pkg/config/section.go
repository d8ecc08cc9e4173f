package config

// Section is a self-describing unit of configuration. Each section owns
// its defaults, its serialized shape, and its validation rules; the
// Manager only moves section data between memory and the store.
type Section interface {
	// ID returns the stable identifier used as the storage key
	ID() string

	// Title returns a short human-readable name
	Title() string

	// Description explains what the section controls
	Description() string

	// Data returns the current values in serializable form
	Data() map[string]interface{}

	// SetData applies stored values; unknown keys are ignored
	SetData(data map[string]interface{}) error

	// Validate checks the current values for consistency
	Validate() error

	// Reset restores the section defaults
	Reset()
}
