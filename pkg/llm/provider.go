// Package llm provides abstractions for LLM provider integration.
//
// Providers handle API communication with LLM services and return simple
// StreamChunk instances. This design keeps providers focused on transport
// concerns: the extraction pipeline converts completions into field
// updates, manages conversation state, and drives retries. Providers stay
// reusable outside the pipeline and testable on their own.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgervox/ledgervox/pkg/types"
)

// Provider defines the interface for LLM integrations.
type Provider interface {
	// StreamCompletion sends messages to the LLM and streams back response
	// chunks.
	//
	// The returned channel emits StreamChunk instances:
	// - First chunk typically has Role set (e.g., "assistant")
	// - Subsequent chunks contain Content deltas
	// - Final chunk has Finished=true
	// - Error chunks have Error set
	//
	// The channel is closed when streaming completes or an error occurs;
	// callers should continue reading until it is closed. An error return
	// means streaming could not be initiated at all.
	StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *StreamChunk, error)

	// Complete sends messages to the LLM and returns the full response.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModelInfo returns information about the LLM model being used.
	GetModelInfo() *types.ModelInfo

	// GetModel returns the model name being used.
	GetModel() string
}

// StreamChunk is one increment of a streamed completion.
type StreamChunk struct {
	// Error is set on failure chunks; no further content follows one.
	Error error

	// Role is set on the first chunk of a response.
	Role string

	// Content is a text delta.
	Content string

	// Finished marks the last chunk of a successful response.
	Finished bool
}

// IsError returns true if this chunk carries a stream-time error.
func (c *StreamChunk) IsError() bool {
	return c.Error != nil
}

// ErrorKind classifies provider failures so the pipeline can decide what is
// worth retrying.
type ErrorKind string

const (
	ErrNetwork           ErrorKind = "network"            // ErrNetwork covers transport failures and 5xx responses.
	ErrRateLimited       ErrorKind = "rate_limited"       // ErrRateLimited covers 429 responses.
	ErrMalformedResponse ErrorKind = "malformed_response" // ErrMalformedResponse covers unparseable completions.
	ErrContentFiltered   ErrorKind = "content_filtered"   // ErrContentFiltered covers safety-filter refusals.
)

// Error is a classified provider failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a classification.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the classification of err, defaulting to ErrNetwork for
// unclassified failures so transient transport problems get retried.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrNetwork
}

// Retryable reports whether a failure with this kind is worth retrying.
func (k ErrorKind) Retryable() bool {
	return k == ErrNetwork || k == ErrRateLimited
}
