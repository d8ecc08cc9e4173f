package capture

import "fmt"

// ErrorCode classifies recognition engine failures.
type ErrorCode string

const (
	ErrNoMatch          ErrorCode = "no_match"          // ErrNoMatch means the engine heard speech it could not transcribe.
	ErrTimeout          ErrorCode = "timeout"           // ErrTimeout means the engine gave up waiting for speech.
	ErrBusy             ErrorCode = "busy"              // ErrBusy means the engine was occupied by another client.
	ErrPermissionDenied ErrorCode = "permission_denied" // ErrPermissionDenied means microphone access was refused.
	ErrUnavailable      ErrorCode = "unavailable"       // ErrUnavailable means no recognition service is present.
)

// EngineError is a classified failure reported by the recognition engine.
type EngineError struct {
	Code   ErrorCode
	Detail string
}

func (e *EngineError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("capture: engine error %s", e.Code)
	}
	return fmt.Sprintf("capture: engine error %s: %s", e.Code, e.Detail)
}

// Recoverable reports whether the controller may silently restart the
// engine after this error. Permission denial requires external remediation
// and is never retried.
func (e *EngineError) Recoverable() bool {
	switch e.Code {
	case ErrNoMatch, ErrTimeout, ErrBusy:
		return true
	default:
		return false
	}
}

// NewEngineError creates a classified engine error.
func NewEngineError(code ErrorCode, detail string) *EngineError {
	return &EngineError{Code: code, Detail: detail}
}
