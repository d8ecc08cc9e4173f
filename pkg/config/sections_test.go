package config

import (
	"testing"

	"github.com/ledgervox/ledgervox/pkg/capture"
	"github.com/ledgervox/ledgervox/pkg/extract"
	"github.com/ledgervox/ledgervox/pkg/resolve"
)

func TestLLMSectionDefaults(t *testing.T) {
	s := NewLLMSection()

	if s.GetProvider() != ProviderOpenAI {
		t.Errorf("default provider = %q, want %q", s.GetProvider(), ProviderOpenAI)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default section should validate: %v", err)
	}
}

func TestLLMSectionSetData(t *testing.T) {
	s := NewLLMSection()

	err := s.SetData(map[string]interface{}{
		"provider": "anthropic",
		"model":    "claude-sonnet-4-0",
		"api_key":  "sk-test",
	})
	if err != nil {
		t.Fatalf("SetData failed: %v", err)
	}

	if s.GetProvider() != ProviderAnthropic {
		t.Errorf("provider = %q", s.GetProvider())
	}
	if s.GetModel() != "claude-sonnet-4-0" {
		t.Errorf("model = %q", s.GetModel())
	}
	if s.GetAPIKey() != "sk-test" {
		t.Errorf("api_key = %q", s.GetAPIKey())
	}
}

func TestLLMSectionRejectsUnknownProvider(t *testing.T) {
	s := NewLLMSection()
	s.SetProvider("cohere")

	if err := s.Validate(); err == nil {
		t.Error("expected validation error for unknown provider")
	}
}

func TestLLMSectionEmptyProviderKeepsDefault(t *testing.T) {
	s := NewLLMSection()
	s.SetData(map[string]interface{}{"provider": ""})

	if s.GetProvider() != ProviderOpenAI {
		t.Error("blank stored provider must not clear the default")
	}
}

func TestResolverSectionDefaults(t *testing.T) {
	s := NewResolverSection()

	if got, want := s.ResolveConfig(), resolve.DefaultConfig(); got != want {
		t.Errorf("ResolveConfig() = %+v, want %+v", got, want)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default section should validate: %v", err)
	}
}

func TestResolverSectionSetData(t *testing.T) {
	s := NewResolverSection()

	s.SetData(map[string]interface{}{
		"match_floor": 0.5,
		"auto_accept": 0.9,
	})

	cfg := s.ResolveConfig()
	if cfg.MatchFloor != 0.5 || cfg.AutoAccept != 0.9 {
		t.Errorf("thresholds not applied: %+v", cfg)
	}
	if cfg.AmbiguityGap != resolve.DefaultConfig().AmbiguityGap {
		t.Error("untouched thresholds must keep their defaults")
	}
}

func TestResolverSectionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ResolverSection)
		wantErr bool
	}{
		{"defaults", func(s *ResolverSection) {}, false},
		{"floor above one", func(s *ResolverSection) { s.MatchFloor = 1.5 }, true},
		{"negative gap", func(s *ResolverSection) { s.AmbiguityGap = -0.1 }, true},
		{"floor above accept", func(s *ResolverSection) { s.MatchFloor = 0.9; s.AutoAccept = 0.7 }, true},
		{"floor equals accept", func(s *ResolverSection) { s.MatchFloor = 0.8; s.AutoAccept = 0.8 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewResolverSection()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolverSectionReset(t *testing.T) {
	s := NewResolverSection()
	s.SetData(map[string]interface{}{"match_floor": 0.1})

	s.Reset()

	if s.ResolveConfig() != resolve.DefaultConfig() {
		t.Error("Reset did not restore defaults")
	}
}

func TestCaptureSection(t *testing.T) {
	s := NewCaptureSection()

	if s.GetMaxConsecutiveErrors() != capture.DefaultMaxConsecutiveErrors {
		t.Errorf("default bound = %d", s.GetMaxConsecutiveErrors())
	}

	s.SetData(map[string]interface{}{"max_consecutive_errors": float64(5)})
	if s.GetMaxConsecutiveErrors() != 5 {
		t.Errorf("bound = %d, want 5", s.GetMaxConsecutiveErrors())
	}

	s.MaxConsecutiveErrors = 0
	if err := s.Validate(); err == nil {
		t.Error("a zero bound must not validate")
	}
}

func TestExtractionSection(t *testing.T) {
	s := NewExtractionSection()

	if s.GetConfidenceThreshold() != extract.DefaultConfidenceThreshold {
		t.Errorf("default threshold = %v", s.GetConfidenceThreshold())
	}

	s.SetData(map[string]interface{}{"confidence_threshold": 0.7})
	if s.GetConfidenceThreshold() != 0.7 {
		t.Errorf("threshold = %v, want 0.7", s.GetConfidenceThreshold())
	}

	s.ConfidenceThreshold = 1.2
	if err := s.Validate(); err == nil {
		t.Error("an out-of-range threshold must not validate")
	}
}

func TestInitializeAndGlobal(t *testing.T) {
	path := tempStorePath(t)

	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer func() {
		globalMu.Lock()
		globalManager = nil
		globalMu.Unlock()
	}()

	if !IsInitialized() {
		t.Fatal("IsInitialized should be true after Initialize")
	}
	if GetLLM() == nil {
		t.Error("GetLLM returned nil")
	}
	if GetResolver() == nil {
		t.Error("GetResolver returned nil")
	}
	if GetCapture() == nil {
		t.Error("GetCapture returned nil")
	}
	if GetExtraction() == nil {
		t.Error("GetExtraction returned nil")
	}
}
