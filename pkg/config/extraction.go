package config

import (
	"fmt"
	"sync"

	"github.com/ledgervox/ledgervox/pkg/extract"
)

// SectionIDExtraction is the identifier for the extraction section
const SectionIDExtraction = "extraction"

// ExtractionSection holds the field extraction tuning knobs.
type ExtractionSection struct {
	ConfidenceThreshold float64
	mu                  sync.RWMutex
}

// NewExtractionSection creates an extraction section with default settings.
func NewExtractionSection() *ExtractionSection {
	return &ExtractionSection{
		ConfidenceThreshold: extract.DefaultConfidenceThreshold,
	}
}

// ID returns the section identifier.
func (s *ExtractionSection) ID() string {
	return SectionIDExtraction
}

// Title returns the section title.
func (s *ExtractionSection) Title() string {
	return "Field Extraction"
}

// Description returns the section description.
func (s *ExtractionSection) Description() string {
	return "Configure the confidence level below which an extraction round is flagged for the operator to double-check."
}

// Data returns the current configuration data.
func (s *ExtractionSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"confidence_threshold": s.ConfidenceThreshold,
	}
}

// SetData updates the configuration from the provided data.
func (s *ExtractionSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := data["confidence_threshold"].(float64); ok {
		s.ConfidenceThreshold = v
	}
	return nil
}

// Validate checks the current configuration.
func (s *ExtractionSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ConfidenceThreshold < 0 || s.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be between 0 and 1, got %v", s.ConfidenceThreshold)
	}
	return nil
}

// Reset restores the section defaults.
func (s *ExtractionSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ConfidenceThreshold = extract.DefaultConfidenceThreshold
}

// GetConfidenceThreshold returns the configured threshold.
func (s *ExtractionSection) GetConfidenceThreshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ConfidenceThreshold
}
