// Package task implements the per-domain slot-filling state machine.
//
// Each dictation session drives at most one active task: a tagged variant
// per domain (equipment creation, maintenance event, vendor creation,
// location creation) holding optional scalar fields. Tasks move through
// collecting, complete, confirmed, and abandoned; completeness is a pure
// predicate over the required fields, never a stored flag.
//
// Field values only grow: merging an update map is monotonic, so an absent
// or blank field in an update never clears a value collected earlier.
package task

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Kind tags the task variant.
type Kind string

const (
	KindEquipment   Kind = "equipment_creation"
	KindMaintenance Kind = "maintenance_event"
	KindVendor      Kind = "vendor_creation"
	KindLocation    Kind = "location_creation"
)

// State is the lifecycle position of a task.
type State string

const (
	// StateCollecting is the default: the task is accepting field updates.
	StateCollecting State = "collecting"
	// StateComplete is derived: collecting with no required field blank.
	StateComplete State = "complete"
	// StateConfirmed is reached only through explicit operator confirmation.
	StateConfirmed State = "confirmed"
	// StateAbandoned is reached through explicit cancel or navigate-away.
	StateAbandoned State = "abandoned"
)

var (
	// ErrNotComplete is returned when confirming a task that still has
	// required fields missing.
	ErrNotComplete = errors.New("task: required fields missing")

	// ErrTerminal is returned when mutating a confirmed or abandoned task.
	ErrTerminal = errors.New("task: task already ended")

	// ErrNotConfirmed is returned when rolling back a task that was never
	// confirmed.
	ErrNotConfirmed = errors.New("task: task not confirmed")
)

// Task is the capability interface shared by all domain variants, so
// completeness and summary logic stay centralized instead of copy-pasted
// per domain.
type Task interface {
	// Kind returns the domain tag of this variant.
	Kind() Kind

	// State returns the current lifecycle state, deriving StateComplete
	// from the required-field predicate.
	State() State

	// Fields returns a copy of the collected field values.
	Fields() map[string]string

	// Apply merges an update map monotonically: blank or absent values
	// never clear collected ones. Unknown keys are ignored. Returns
	// ErrTerminal once the task has ended.
	Apply(updates map[string]string) error

	// SyncSnapshot replaces the collected values with the presentation
	// layer's authoritative snapshot, including manual edits and manual
	// clears. Returns ErrTerminal once the task has ended.
	SyncSnapshot(fields map[string]string) error

	// MissingRequiredFields lists required fields that are still blank.
	MissingRequiredFields() []string

	// CollectedSummary renders a human-readable summary of what has been
	// gathered so far, for read-back to the operator.
	CollectedSummary() string

	// Confirm moves a complete task to confirmed. ErrNotComplete when
	// fields are missing, ErrTerminal when the task already ended.
	Confirm() error

	// Rollback returns a confirmed task to collecting with all field
	// values intact, so a failed persistence call can be retried without
	// re-dictation.
	Rollback() error

	// Abandon ends the task. Idempotent.
	Abandon()
}

// field describes one slot of a domain variant.
type field struct {
	key      string
	label    string
	required bool
}

// base carries the shared slot-filling mechanics for every variant. The
// presentation layer reads a task while the extraction round mutates it,
// so every accessor takes the lock.
type base struct {
	mu     sync.RWMutex
	values map[string]string
	spec   []field
	kind   Kind
	state  State
}

func newBase(kind Kind, spec []field) base {
	return base{
		values: make(map[string]string),
		spec:   spec,
		kind:   kind,
		state:  StateCollecting,
	}
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.state == StateCollecting && len(b.missing(nil)) == 0 {
		return StateComplete
	}
	return b.state
}

func (b *base) Fields() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

func (b *base) Apply(updates map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ended() {
		return ErrTerminal
	}
	for _, f := range b.spec {
		v, ok := updates[f.key]
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			// Monotonic merge: absence never clears.
			continue
		}
		b.values[f.key] = v
	}
	return nil
}

func (b *base) SyncSnapshot(fields map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ended() {
		return ErrTerminal
	}
	next := make(map[string]string, len(fields))
	for _, f := range b.spec {
		if v := strings.TrimSpace(fields[f.key]); v != "" {
			next[f.key] = v
		}
	}
	b.values = next
	return nil
}

func (b *base) Confirm() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ended() {
		return ErrTerminal
	}
	if len(b.missing(nil)) != 0 {
		return ErrNotComplete
	}
	b.state = StateConfirmed
	return nil
}

func (b *base) Rollback() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateConfirmed {
		return ErrNotConfirmed
	}
	b.state = StateCollecting
	return nil
}

func (b *base) Abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateAbandoned
}

// ended reports a terminal state. Callers hold mu.
func (b *base) ended() bool {
	return b.state == StateConfirmed || b.state == StateAbandoned
}

// missing computes the unfilled required fields. skip holds keys a variant
// excuses for this evaluation (e.g. an inferred performer). Callers hold mu.
func (b *base) missing(skip map[string]bool) []string {
	var out []string
	for _, f := range b.spec {
		if !f.required || skip[f.key] {
			continue
		}
		if strings.TrimSpace(b.values[f.key]) == "" {
			out = append(out, f.key)
		}
	}
	return out
}

func (b *base) MissingRequiredFields() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.missing(nil)
}

func (b *base) CollectedSummary() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var sb strings.Builder
	for _, f := range b.spec {
		v := b.values[f.key]
		if v == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", f.label, v)
	}
	return strings.TrimRight(sb.String(), "\n")
}
