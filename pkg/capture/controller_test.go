package capture

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgervox/ledgervox/pkg/types"
)

// fakeEngine is a scriptable recognition engine. Tests drive recognition by
// invoking the registered callbacks directly; Abort synchronously delivers
// the cycle's terminal callback with any pending text, matching the Engine
// contract.
type fakeEngine struct {
	mu       sync.Mutex
	cb       Callbacks
	begins   int
	released bool
	pending  string
}

func (f *fakeEngine) Begin(ctx context.Context, cb Callbacks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cb = cb
	f.begins++
	return nil
}

func (f *fakeEngine) Abort() {
	f.mu.Lock()
	cb := f.cb
	text := f.pending
	f.pending = ""
	f.mu.Unlock()
	if cb.OnFinal != nil {
		cb.OnFinal(text)
	}
}

func (f *fakeEngine) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
	return nil
}

func (f *fakeEngine) callbacks() Callbacks {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cb
}

func (f *fakeEngine) beginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.begins
}

// drain reads all buffered events.
func drain(c *Controller) []*types.CaptureEvent {
	var out []*types.CaptureEvent
	for {
		select {
		case ev := <-c.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventTypes(events []*types.CaptureEvent) []types.CaptureEventType {
	out := make([]types.CaptureEventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func TestCaptureAccumulatesAcrossPauses(t *testing.T) {
	eng := &fakeEngine{}
	c := NewController(eng)

	require.NoError(t, c.StartCapture(context.Background()))

	// First cycle ends at a natural pause; the controller restarts silently.
	eng.callbacks().OnFinal("new autoclave")
	assert.Equal(t, 2, eng.beginCount(), "pause must trigger a silent restart")

	eng.callbacks().OnPartial("from")
	eng.mu.Lock()
	eng.pending = "from medika"
	eng.mu.Unlock()

	c.StopCapture()

	events := drain(c)
	require.NotEmpty(t, events)
	assert.Equal(t, []types.CaptureEventType{
		types.CaptureListening,
		types.CapturePartial,
		types.CaptureResult,
		types.CaptureIdle,
	}, eventTypes(events))

	assert.Equal(t, "new autoclave from", events[1].Transcript)
	assert.Equal(t, "new autoclave from medika", events[2].Transcript)
}

func TestStopCaptureIdempotent(t *testing.T) {
	eng := &fakeEngine{}
	c := NewController(eng)

	require.NoError(t, c.StartCapture(context.Background()))
	eng.callbacks().OnFinal("only utterance")

	c.StopCapture()
	c.StopCapture()
	c.StopCapture()

	results := 0
	for _, ev := range drain(c) {
		if ev.Type == types.CaptureResult {
			results++
		}
	}
	assert.Equal(t, 1, results, "stop must produce exactly one Result")
}

func TestStartCaptureWhileLiveIsNoOp(t *testing.T) {
	eng := &fakeEngine{}
	c := NewController(eng)

	require.NoError(t, c.StartCapture(context.Background()))
	require.NoError(t, c.StartCapture(context.Background()))

	assert.Equal(t, 1, eng.beginCount(), "second start must not fork a session")
}

func TestStopWithNoSpeechFinalizesEmpty(t *testing.T) {
	eng := &fakeEngine{}
	c := NewController(eng)

	require.NoError(t, c.StartCapture(context.Background()))
	c.StopCapture()

	events := drain(c)
	require.Len(t, events, 3)
	assert.Equal(t, types.CaptureResult, events[1].Type)
	assert.Equal(t, "", events[1].Transcript)
}

func TestRecoverableErrorsRestartUntilBoundExceeded(t *testing.T) {
	eng := &fakeEngine{}
	c := NewController(eng)

	require.NoError(t, c.StartCapture(context.Background()))

	for i := 0; i < DefaultMaxConsecutiveErrors; i++ {
		eng.callbacks().OnError(NewEngineError(ErrNoMatch, ""))
	}
	assert.Equal(t, 4, eng.beginCount(), "three recoverable errors must restart silently")
	assert.True(t, c.Listening())

	// No Error event was published for the silent restarts.
	for _, ev := range drain(c) {
		assert.NotEqual(t, types.CaptureError, ev.Type)
	}

	// The fourth consecutive error escalates and disables auto-restart.
	eng.callbacks().OnError(NewEngineError(ErrNoMatch, ""))
	assert.Equal(t, 4, eng.beginCount(), "fatal error must not restart")
	assert.False(t, c.Listening())

	events := drain(c)
	require.Len(t, events, 2)
	assert.Equal(t, types.CaptureError, events[0].Type)
	assert.Error(t, events[0].Err)
	assert.Equal(t, types.CaptureIdle, events[1].Type)
}

func TestErrorCounterResetsOnSuccessfulCycle(t *testing.T) {
	eng := &fakeEngine{}
	c := NewController(eng)

	require.NoError(t, c.StartCapture(context.Background()))

	for i := 0; i < DefaultMaxConsecutiveErrors; i++ {
		eng.callbacks().OnError(NewEngineError(ErrBusy, ""))
	}
	eng.callbacks().OnFinal("recovered text")

	// A fresh run of recoverable errors is absorbed again.
	for i := 0; i < DefaultMaxConsecutiveErrors; i++ {
		eng.callbacks().OnError(NewEngineError(ErrNoMatch, ""))
	}
	assert.True(t, c.Listening())
}

func TestPermissionDeniedIsTerminal(t *testing.T) {
	eng := &fakeEngine{}
	c := NewController(eng)

	require.NoError(t, c.StartCapture(context.Background()))
	eng.callbacks().OnError(NewEngineError(ErrPermissionDenied, "microphone access refused"))

	assert.False(t, c.Listening())
	assert.Equal(t, 1, eng.beginCount(), "permission denial must never retry")

	events := drain(c)
	require.Len(t, events, 3)
	assert.Equal(t, types.CaptureError, events[1].Type)
}

func TestCancelDiscardsTranscript(t *testing.T) {
	eng := &fakeEngine{}
	c := NewController(eng)

	require.NoError(t, c.StartCapture(context.Background()))
	eng.callbacks().OnFinal("text that will be discarded")

	c.Cancel()

	for _, ev := range drain(c) {
		assert.NotEqual(t, types.CaptureResult, ev.Type, "cancel must not emit a Result")
	}
	assert.False(t, c.Listening())
}

func TestReleaseFreesEngine(t *testing.T) {
	eng := &fakeEngine{}
	c := NewController(eng)

	require.NoError(t, c.StartCapture(context.Background()))
	require.NoError(t, c.Release())

	assert.True(t, eng.released)
	assert.False(t, c.Listening())
}

func TestEngineErrorRecoverable(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrNoMatch, true},
		{ErrTimeout, true},
		{ErrBusy, true},
		{ErrPermissionDenied, false},
		{ErrUnavailable, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, NewEngineError(tt.code, "").Recoverable())
		})
	}
}
