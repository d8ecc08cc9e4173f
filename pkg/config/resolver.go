package config

import (
	"fmt"
	"sync"

	"github.com/ledgervox/ledgervox/pkg/resolve"
)

// SectionIDResolver is the identifier for the entity resolution section
const SectionIDResolver = "resolver"

// ResolverSection exposes the fuzzy-matching thresholds used when spoken
// names are resolved against the known entity pools.
type ResolverSection struct {
	MatchFloor   float64
	AutoAccept   float64
	AmbiguityGap float64
	WordPenalty  float64
	mu           sync.RWMutex
}

// NewResolverSection creates a resolver section with the default thresholds.
func NewResolverSection() *ResolverSection {
	d := resolve.DefaultConfig()
	return &ResolverSection{
		MatchFloor:   d.MatchFloor,
		AutoAccept:   d.AutoAccept,
		AmbiguityGap: d.AmbiguityGap,
		WordPenalty:  d.WordPenalty,
	}
}

// ID returns the section identifier.
func (s *ResolverSection) ID() string {
	return SectionIDResolver
}

// Title returns the section title.
func (s *ResolverSection) Title() string {
	return "Entity Resolution"
}

// Description returns the section description.
func (s *ResolverSection) Description() string {
	return "Tune how strictly spoken vendor, location, and equipment names are matched against known records."
}

// Data returns the current configuration data.
func (s *ResolverSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"match_floor":   s.MatchFloor,
		"auto_accept":   s.AutoAccept,
		"ambiguity_gap": s.AmbiguityGap,
		"word_penalty":  s.WordPenalty,
	}
}

// SetData updates the configuration from the provided data. JSON numbers
// decode as float64, so only that shape is accepted.
func (s *ResolverSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := data["match_floor"].(float64); ok {
		s.MatchFloor = v
	}
	if v, ok := data["auto_accept"].(float64); ok {
		s.AutoAccept = v
	}
	if v, ok := data["ambiguity_gap"].(float64); ok {
		s.AmbiguityGap = v
	}
	if v, ok := data["word_penalty"].(float64); ok {
		s.WordPenalty = v
	}
	return nil
}

// Validate checks the thresholds for consistency.
func (s *ResolverSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for name, v := range map[string]float64{
		"match_floor":   s.MatchFloor,
		"auto_accept":   s.AutoAccept,
		"ambiguity_gap": s.AmbiguityGap,
		"word_penalty":  s.WordPenalty,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, v)
		}
	}

	if s.MatchFloor > s.AutoAccept {
		return fmt.Errorf("match_floor (%v) must not exceed auto_accept (%v)", s.MatchFloor, s.AutoAccept)
	}
	return nil
}

// Reset restores the default thresholds.
func (s *ResolverSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := resolve.DefaultConfig()
	s.MatchFloor = d.MatchFloor
	s.AutoAccept = d.AutoAccept
	s.AmbiguityGap = d.AmbiguityGap
	s.WordPenalty = d.WordPenalty
}

// ResolveConfig returns the thresholds as a resolver configuration.
func (s *ResolverSection) ResolveConfig() resolve.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolve.Config{
		MatchFloor:   s.MatchFloor,
		AutoAccept:   s.AutoAccept,
		AmbiguityGap: s.AmbiguityGap,
		WordPenalty:  s.WordPenalty,
	}
}
