package config

import (
	"fmt"
	"sync"

	"github.com/ledgervox/ledgervox/pkg/capture"
)

// SectionIDCapture is the identifier for the speech capture section
const SectionIDCapture = "capture"

// CaptureSection holds the speech capture tuning knobs.
type CaptureSection struct {
	MaxConsecutiveErrors int
	mu                   sync.RWMutex
}

// NewCaptureSection creates a capture section with default settings.
func NewCaptureSection() *CaptureSection {
	return &CaptureSection{
		MaxConsecutiveErrors: capture.DefaultMaxConsecutiveErrors,
	}
}

// ID returns the section identifier.
func (s *CaptureSection) ID() string {
	return SectionIDCapture
}

// Title returns the section title.
func (s *CaptureSection) Title() string {
	return "Speech Capture"
}

// Description returns the section description.
func (s *CaptureSection) Description() string {
	return "Configure how many recoverable recognition errors in a row are tolerated before a capture session is abandoned."
}

// Data returns the current configuration data.
func (s *CaptureSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"max_consecutive_errors": s.MaxConsecutiveErrors,
	}
}

// SetData updates the configuration from the provided data. JSON numbers
// decode as float64.
func (s *CaptureSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := data["max_consecutive_errors"].(float64); ok {
		s.MaxConsecutiveErrors = int(v)
	}
	return nil
}

// Validate checks the current configuration.
func (s *CaptureSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.MaxConsecutiveErrors < 1 {
		return fmt.Errorf("max_consecutive_errors must be at least 1, got %d", s.MaxConsecutiveErrors)
	}
	return nil
}

// Reset restores the section defaults.
func (s *CaptureSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MaxConsecutiveErrors = capture.DefaultMaxConsecutiveErrors
}

// GetMaxConsecutiveErrors returns the configured restart bound.
func (s *CaptureSection) GetMaxConsecutiveErrors() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MaxConsecutiveErrors
}
