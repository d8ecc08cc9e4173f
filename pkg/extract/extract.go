// Package extract turns raw transcripts plus accumulated task state into
// structured field updates via a generative model.
//
// Each round embeds the current date, the active task's collected fields,
// the bounded recent-exchange history, and the domain's extraction rules.
// Responses are parsed tolerantly: models occasionally wrap the JSON object
// in prose or fences, and a retriable transport hiccup must never lose the
// operator's utterance.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ledgervox/ledgervox/pkg/llm"
	"github.com/ledgervox/ledgervox/pkg/logging"
)

var extractLog *logging.Logger

func init() {
	var err error
	extractLog, err = logging.NewLogger("extract")
	if err != nil {
		extractLog.Warnf("Failed to initialize extract logger, using stderr fallback: %v", err)
	}
}

// DefaultConfidenceThreshold is the confidence below which a result is
// flagged low-confidence. Low results are still applied; the flag is a
// surfaced warning, never a block.
const DefaultConfidenceThreshold = 0.5

const (
	defaultMaxAttempts = 3
	defaultBackoffBase = 500 * time.Millisecond
)

// Result is one parsed extraction round.
type Result struct {
	// Updates maps field keys to newly extracted values. An empty map
	// means the utterance changed nothing; only the reply matters.
	Updates map[string]string

	// Reply is the conversational confirmation text.
	Reply string

	// Confidence is the model's self-reported certainty in [0,1].
	Confidence float64

	// LowConfidence flags a result below the configured threshold.
	LowConfidence bool
}

// Extractor runs extraction rounds against an LLM provider with bounded,
// backed-off retries.
type Extractor struct {
	provider    llm.Provider
	threshold   float64
	maxAttempts int
	backoffBase time.Duration
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithConfidenceThreshold overrides the low-confidence threshold.
func WithConfidenceThreshold(t float64) ExtractorOption {
	return func(e *Extractor) {
		e.threshold = t
	}
}

// WithMaxAttempts overrides the retry bound.
func WithMaxAttempts(n int) ExtractorOption {
	return func(e *Extractor) {
		e.maxAttempts = n
	}
}

// WithBackoffBase overrides the initial retry backoff (doubled per attempt).
func WithBackoffBase(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.backoffBase = d
	}
}

// NewExtractor creates an extractor over the given provider.
func NewExtractor(provider llm.Provider, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		provider:    provider,
		threshold:   DefaultConfidenceThreshold,
		maxAttempts: defaultMaxAttempts,
		backoffBase: defaultBackoffBase,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs one extraction round. Transport failures are retried with
// doubling backoff up to the attempt bound; the transcript is held by the
// caller throughout, so no spoken input is ever lost to a retry.
func (e *Extractor) Extract(ctx context.Context, transcript string, req Request) (*Result, error) {
	messages, err := BuildMessages(transcript, req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	backoff := e.backoffBase
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		reply, err := e.provider.Complete(ctx, messages)
		if err == nil {
			res, perr := parseResult(reply.Content)
			if perr == nil {
				res.LowConfidence = res.Confidence < e.threshold
				if res.LowConfidence {
					extractLog.Warnf("low-confidence extraction (%.2f): %d updates", res.Confidence, len(res.Updates))
				}
				return res, nil
			}
			err = perr
		}

		lastErr = err
		if !llm.KindOf(err).Retryable() || attempt == e.maxAttempts {
			break
		}
		extractLog.Warnf("extraction attempt %d/%d failed, retrying in %s: %v", attempt, e.maxAttempts, backoff, err)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("extract: %w", lastErr)
}

// parseResult reads the model output into a Result. The payload may be
// wrapped in code fences or surrounding prose; only the first JSON object
// is considered.
func parseResult(content string) (*Result, error) {
	payload := extractJSON(content)
	if payload == "" {
		return nil, llm.NewError(llm.ErrMalformedResponse, fmt.Errorf("no JSON object in completion: %q", truncate(content, 120)))
	}

	doc := gjson.Parse(payload)
	if !doc.IsObject() {
		return nil, llm.NewError(llm.ErrMalformedResponse, fmt.Errorf("completion is not a JSON object"))
	}

	res := &Result{
		Updates:    make(map[string]string),
		Reply:      doc.Get("reply").String(),
		Confidence: 1,
	}

	if c := doc.Get("confidence"); c.Exists() {
		res.Confidence = c.Float()
		if res.Confidence < 0 {
			res.Confidence = 0
		}
		if res.Confidence > 1 {
			res.Confidence = 1
		}
	}

	doc.Get("updates").ForEach(func(key, value gjson.Result) bool {
		if v := strings.TrimSpace(value.String()); v != "" && value.Type != gjson.Null {
			res.Updates[key.String()] = v
		}
		return true
	})

	return res, nil
}

// extractJSON returns the first balanced top-level JSON object in text.
func extractJSON(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
