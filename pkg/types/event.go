package types

// CaptureEventType defines the type of event emitted by the capture controller.
type CaptureEventType string

const (
	CaptureIdle      CaptureEventType = "capture_idle"      // CaptureIdle indicates no capture session is live.
	CaptureListening CaptureEventType = "capture_listening" // CaptureListening indicates the microphone session is open.
	CapturePartial   CaptureEventType = "capture_partial"   // CapturePartial carries the text accumulated so far.
	CaptureResult    CaptureEventType = "capture_result"    // CaptureResult carries the finalized transcript.
	CaptureError     CaptureEventType = "capture_error"     // CaptureError indicates the session ended abnormally.
)

// CaptureEvent is one state transition published by the capture controller.
// Events are published on a channel; consumers must never poll controller state.
type CaptureEvent struct {
	// Err carries the failure for CaptureError events.
	Err error

	// Transcript holds the text for partial and result events.
	Transcript string

	// Type indicates the kind of event.
	Type CaptureEventType
}

// NewCaptureIdleEvent creates an idle event.
func NewCaptureIdleEvent() *CaptureEvent {
	return &CaptureEvent{Type: CaptureIdle}
}

// NewCaptureListeningEvent creates a listening event.
func NewCaptureListeningEvent() *CaptureEvent {
	return &CaptureEvent{Type: CaptureListening}
}

// NewCapturePartialEvent creates a partial-result event with the text so far.
func NewCapturePartialEvent(text string) *CaptureEvent {
	return &CaptureEvent{Type: CapturePartial, Transcript: text}
}

// NewCaptureResultEvent creates a final-result event.
func NewCaptureResultEvent(text string) *CaptureEvent {
	return &CaptureEvent{Type: CaptureResult, Transcript: text}
}

// NewCaptureErrorEvent creates an error event.
func NewCaptureErrorEvent(err error) *CaptureEvent {
	return &CaptureEvent{Type: CaptureError, Err: err}
}

// ExtractEventType defines the type of event emitted by the extraction pipeline.
type ExtractEventType string

const (
	ExtractIdle       ExtractEventType = "extract_idle"       // ExtractIdle indicates no extraction is in flight.
	ExtractProcessing ExtractEventType = "extract_processing" // ExtractProcessing indicates a model round-trip is in flight.
	ExtractExtracted  ExtractEventType = "extract_extracted"  // ExtractExtracted carries the merged, resolved task data.
	ExtractFailed     ExtractEventType = "extract_error"      // ExtractFailed indicates the extraction round failed.
)

// ExtractEvent is one state transition published by the extraction pipeline.
type ExtractEvent struct {
	// Err carries the failure for ExtractFailed events.
	Err error

	// Fields is the task field snapshot after merging (for ExtractExtracted).
	Fields map[string]string

	// Reply is the conversational confirmation text (for ExtractExtracted).
	Reply string

	// Missing lists required fields still unfilled (for ExtractExtracted).
	Missing []string

	// Confidence is the extraction confidence in [0,1] (for ExtractExtracted).
	Confidence float64

	// LowConfidence flags an extraction below the confidence threshold.
	// Low-confidence updates are applied anyway; the flag is a warning.
	LowConfidence bool

	// Type indicates the kind of event.
	Type ExtractEventType
}

// NewExtractIdleEvent creates an idle event.
func NewExtractIdleEvent() *ExtractEvent {
	return &ExtractEvent{Type: ExtractIdle}
}

// NewExtractProcessingEvent creates a processing event.
func NewExtractProcessingEvent() *ExtractEvent {
	return &ExtractEvent{Type: ExtractProcessing}
}

// NewExtractedEvent creates an extracted event with the merged field snapshot.
func NewExtractedEvent(fields map[string]string, missing []string, reply string, confidence float64, low bool) *ExtractEvent {
	return &ExtractEvent{
		Type:          ExtractExtracted,
		Fields:        fields,
		Missing:       missing,
		Reply:         reply,
		Confidence:    confidence,
		LowConfidence: low,
	}
}

// NewExtractErrorEvent creates an error event.
func NewExtractErrorEvent(err error) *ExtractEvent {
	return &ExtractEvent{Type: ExtractFailed, Err: err}
}
