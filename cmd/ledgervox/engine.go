package main

import (
	"context"
	"strings"
	"sync"

	"github.com/ledgervox/ledgervox/pkg/capture"
)

// consoleEngine is a line-based stand-in for a real speech recognizer: each
// Speak call is a recognized fragment, Pause simulates the engine ending a
// cycle on natural silence. It honors the capture contract of exactly one
// terminal callback per cycle.
type consoleEngine struct {
	mu       sync.Mutex
	cb       capture.Callbacks
	live     bool
	released bool
	pending  []string
}

func newConsoleEngine() *consoleEngine {
	return &consoleEngine{}
}

func (e *consoleEngine) Begin(ctx context.Context, cb capture.Callbacks) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return capture.NewEngineError(capture.ErrUnavailable, "engine released")
	}
	e.cb = cb
	e.live = true
	e.pending = nil
	return nil
}

// Speak feeds one recognized fragment into the live cycle.
func (e *consoleEngine) Speak(text string) {
	e.mu.Lock()
	if !e.live {
		e.mu.Unlock()
		return
	}
	e.pending = append(e.pending, text)
	cb := e.cb
	joined := strings.Join(e.pending, " ")
	e.mu.Unlock()

	cb.OnPartial(joined)
}

// Pause ends the current cycle as a natural silence would, delivering the
// pending text as the cycle's final result.
func (e *consoleEngine) Pause() {
	e.finalize()
}

func (e *consoleEngine) Abort() {
	e.finalize()
}

func (e *consoleEngine) Release() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.live = false
	e.released = true
	return nil
}

func (e *consoleEngine) finalize() {
	e.mu.Lock()
	if !e.live {
		e.mu.Unlock()
		return
	}
	e.live = false
	cb := e.cb
	joined := strings.Join(e.pending, " ")
	e.pending = nil
	e.mu.Unlock()

	cb.OnFinal(joined)
}
