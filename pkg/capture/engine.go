package capture

import "context"

// Callbacks receive recognition progress for one engine cycle. They are
// invoked on the engine's own goroutine, never on the caller's.
type Callbacks struct {
	// OnPartial reports interim text for the current cycle.
	OnPartial func(text string)

	// OnFinal ends the cycle with its recognized text, possibly empty.
	// Exactly one terminal callback (OnFinal or OnError) ends every cycle.
	OnFinal func(text string)

	// OnError ends the cycle with a classified failure.
	OnError func(err *EngineError)
}

// Engine adapts an external speech recognition service. Engines recognize
// one bounded cycle at a time: they listen until a natural pause, a forced
// abort, or an error, then report exactly one terminal callback. The
// controller stitches cycles into one logical utterance.
type Engine interface {
	// Begin opens a recognition cycle. It returns an error only when the
	// cycle cannot be opened at all; failures after that arrive via OnError.
	Begin(ctx context.Context, cb Callbacks) error

	// Abort forces the current cycle to end promptly. The engine must
	// still deliver the cycle's terminal callback, carrying whatever text
	// it had recognized.
	Abort()

	// Release frees the engine. No callbacks fire after Release returns.
	Release() error
}
