package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	manager := NewManager(store)

	if err := manager.RegisterSection(NewLLMSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewResolverSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewCaptureSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewExtractionSection()); err != nil {
		return err
	}

	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetLLM returns the model settings section from global config.
// Returns nil if config is not initialized.
func GetLLM() *LLMSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDLLM)
	if !ok {
		return nil
	}
	llm, ok := section.(*LLMSection)
	if !ok {
		return nil
	}
	return llm
}

// GetResolver returns the entity resolution section from global config.
// Returns nil if config is not initialized.
func GetResolver() *ResolverSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDResolver)
	if !ok {
		return nil
	}
	resolver, ok := section.(*ResolverSection)
	if !ok {
		return nil
	}
	return resolver
}

// GetCapture returns the speech capture section from global config.
// Returns nil if config is not initialized.
func GetCapture() *CaptureSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDCapture)
	if !ok {
		return nil
	}
	capt, ok := section.(*CaptureSection)
	if !ok {
		return nil
	}
	return capt
}

// GetExtraction returns the field extraction section from global config.
// Returns nil if config is not initialized.
func GetExtraction() *ExtractionSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDExtraction)
	if !ok {
		return nil
	}
	extraction, ok := section.(*ExtractionSection)
	if !ok {
		return nil
	}
	return extraction
}
