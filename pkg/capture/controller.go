// Package capture manages one manually-controlled speech-capture session at
// a time.
//
// The operator starts listening explicitly and the controller keeps the
// session open with no implicit timeout: whenever the recognition engine
// reports a natural pause it is silently restarted and the new cycle's text
// is appended to the same logical utterance. StopCapture is the only
// authoritative end signal. Long dictations are therefore never truncated
// by engine-side pause detection.
package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ledgervox/ledgervox/pkg/logging"
	"github.com/ledgervox/ledgervox/pkg/types"
)

var captureLog *logging.Logger

func init() {
	var err error
	captureLog, err = logging.NewLogger("capture")
	if err != nil {
		captureLog.Warnf("Failed to initialize capture logger, using stderr fallback: %v", err)
	}
}

// DefaultMaxConsecutiveErrors is how many recoverable engine errors in a row
// are absorbed by silent restarts before the session fails.
const DefaultMaxConsecutiveErrors = 3

const defaultEventBuffer = 64

// Controller owns the capture session lifecycle. At most one session is
// live at a time; starting a second while one is live is a no-op, not a
// fork. State transitions are published on the event channel, never polled.
type Controller struct {
	engine    Engine
	events    chan *types.CaptureEvent
	maxErrors int

	mu   sync.Mutex
	sess *liveSession
}

// liveSession is the per-listen-cycle accumulator. It is created by
// StartCapture and destroyed on finalize, fatal error, or cancel.
type liveSession struct {
	ctx      context.Context
	cancel   context.CancelFunc
	parts    []string
	errCount int
	stopping bool
}

func (s *liveSession) transcript() string {
	return strings.Join(s.parts, " ")
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxConsecutiveErrors overrides the recoverable-error restart bound.
func WithMaxConsecutiveErrors(n int) Option {
	return func(c *Controller) {
		c.maxErrors = n
	}
}

// WithEventBuffer overrides the event channel capacity.
func WithEventBuffer(n int) Option {
	return func(c *Controller) {
		c.events = make(chan *types.CaptureEvent, n)
	}
}

// NewController creates a capture controller over the given engine.
func NewController(engine Engine, opts ...Option) *Controller {
	c := &Controller{
		engine:    engine,
		events:    make(chan *types.CaptureEvent, defaultEventBuffer),
		maxErrors: DefaultMaxConsecutiveErrors,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events returns the capture-progress stream: Idle, Listening,
// PartialResult, Result, Error.
func (c *Controller) Events() <-chan *types.CaptureEvent {
	return c.events
}

// StartCapture begins operator-controlled listening. If a session is
// already live the call is a no-op.
func (c *Controller) StartCapture(ctx context.Context) error {
	c.mu.Lock()
	if c.sess != nil {
		c.mu.Unlock()
		captureLog.Debugf("StartCapture ignored: session already live")
		return nil
	}
	sctx, cancel := context.WithCancel(ctx)
	s := &liveSession{ctx: sctx, cancel: cancel}
	c.sess = s
	c.mu.Unlock()

	c.publish(types.NewCaptureListeningEvent())
	captureLog.Infof("capture session started")

	if err := c.engine.Begin(sctx, c.callbacks(s)); err != nil {
		c.fail(s, fmt.Errorf("capture: engine start: %w", err))
		return err
	}
	return nil
}

// StopCapture disables auto-restart and finalizes whatever text has
// accumulated, possibly empty. It is the only authoritative end signal.
// Calling it when already stopped (or stopping) is a no-op: a session
// produces exactly one Result.
func (c *Controller) StopCapture() {
	c.mu.Lock()
	s := c.sess
	if s == nil || s.stopping {
		c.mu.Unlock()
		return
	}
	s.stopping = true
	c.mu.Unlock()

	captureLog.Infof("capture stop requested")
	// The engine ends the cycle with its terminal callback, which carries
	// any pending words into the final transcript before finalize.
	c.engine.Abort()
}

// Cancel tears the live session down without emitting a Result. The
// accumulated transcript is discarded.
func (c *Controller) Cancel() {
	c.mu.Lock()
	s := c.sess
	if s == nil {
		c.mu.Unlock()
		return
	}
	c.sess = nil
	c.mu.Unlock()

	s.cancel()
	c.engine.Abort()
	captureLog.Infof("capture session canceled, transcript discarded")
	c.publish(types.NewCaptureIdleEvent())
}

// Release frees the recognition engine. Any live session is canceled first.
func (c *Controller) Release() error {
	c.Cancel()
	return c.engine.Release()
}

// Listening reports whether a capture session is live.
func (c *Controller) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil
}

// callbacks builds the engine callbacks for one session. Every callback
// re-checks that s is still the live session, so callbacks from a torn-down
// cycle can never touch a newer one.
func (c *Controller) callbacks(s *liveSession) Callbacks {
	return Callbacks{
		OnPartial: func(text string) { c.onPartial(s, text) },
		OnFinal:   func(text string) { c.onFinal(s, text) },
		OnError:   func(err *EngineError) { c.onError(s, err) },
	}
}

func (c *Controller) onPartial(s *liveSession, text string) {
	c.mu.Lock()
	if c.sess != s {
		c.mu.Unlock()
		return
	}
	sofar := s.transcript()
	c.mu.Unlock()

	if sofar != "" {
		sofar += " "
	}
	c.publish(types.NewCapturePartialEvent(sofar + text))
}

func (c *Controller) onFinal(s *liveSession, text string) {
	c.mu.Lock()
	if c.sess != s {
		c.mu.Unlock()
		return
	}
	if t := strings.TrimSpace(text); t != "" {
		s.parts = append(s.parts, t)
	}
	s.errCount = 0
	stopping := s.stopping
	c.mu.Unlock()

	if stopping {
		c.finalize(s)
		return
	}
	// Natural pause: restart silently and keep accumulating.
	captureLog.Debugf("engine pause, restarting cycle (%d segments so far)", len(s.parts))
	c.restart(s)
}

func (c *Controller) onError(s *liveSession, err *EngineError) {
	c.mu.Lock()
	if c.sess != s {
		c.mu.Unlock()
		return
	}
	if s.stopping {
		// Stop already requested: finalize with what we have rather than
		// losing the utterance to a trailing engine hiccup.
		c.mu.Unlock()
		c.finalize(s)
		return
	}
	if !err.Recoverable() {
		c.mu.Unlock()
		c.fail(s, err)
		return
	}
	s.errCount++
	count := s.errCount
	c.mu.Unlock()

	if count > c.maxErrors {
		c.fail(s, fmt.Errorf("capture: %d consecutive engine errors: %w", count, err))
		return
	}
	captureLog.Debugf("recoverable engine error (%s), quiet restart %d/%d", err.Code, count, c.maxErrors)
	c.restart(s)
}

// restart opens the next engine cycle for a session that is still live.
func (c *Controller) restart(s *liveSession) {
	c.mu.Lock()
	if c.sess != s {
		c.mu.Unlock()
		return
	}
	if s.stopping {
		c.mu.Unlock()
		c.finalize(s)
		return
	}
	c.mu.Unlock()

	if err := c.engine.Begin(s.ctx, c.callbacks(s)); err != nil {
		c.fail(s, fmt.Errorf("capture: engine restart: %w", err))
	}
}

// finalize ends the session with its accumulated transcript.
func (c *Controller) finalize(s *liveSession) {
	c.mu.Lock()
	if c.sess != s {
		c.mu.Unlock()
		return
	}
	c.sess = nil
	transcript := s.transcript()
	c.mu.Unlock()

	s.cancel()
	captureLog.Infof("capture finalized: %d chars", len(transcript))
	c.publish(types.NewCaptureResultEvent(transcript))
	c.publish(types.NewCaptureIdleEvent())
}

// fail ends the session with an Error event; auto-restart is disabled by
// the session teardown itself.
func (c *Controller) fail(s *liveSession, err error) {
	c.mu.Lock()
	if c.sess != s {
		c.mu.Unlock()
		return
	}
	c.sess = nil
	c.mu.Unlock()

	s.cancel()
	captureLog.Errorf("capture session failed: %v", err)
	c.publish(types.NewCaptureErrorEvent(err))
	c.publish(types.NewCaptureIdleEvent())
}

// publish sends an event without ever blocking an engine callback: when the
// buffer is full the oldest event is dropped to make room.
func (c *Controller) publish(ev *types.CaptureEvent) {
	for {
		select {
		case c.events <- ev:
			return
		default:
			select {
			case <-c.events:
			default:
			}
		}
	}
}
