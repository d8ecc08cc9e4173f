// Package pipeline orchestrates the dictation flow: finalized transcripts
// from the capture controller are turned into field updates by the
// extractor, merged into the active task, entity references are resolved
// against the stored records, and confirmed tasks are handed to the
// persistence collaborator.
//
// The pipeline is the single writer of the conversation context and the
// active task. At most one extraction round is in flight at a time; a
// transcript arriving mid-round is queued and processed in order, never
// interleaved. Progress is published on an event channel, never polled.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ledgervox/ledgervox/pkg/capture"
	"github.com/ledgervox/ledgervox/pkg/extract"
	"github.com/ledgervox/ledgervox/pkg/logging"
	"github.com/ledgervox/ledgervox/pkg/resolve"
	"github.com/ledgervox/ledgervox/pkg/session"
	"github.com/ledgervox/ledgervox/pkg/speak"
	"github.com/ledgervox/ledgervox/pkg/store"
	"github.com/ledgervox/ledgervox/pkg/task"
	"github.com/ledgervox/ledgervox/pkg/types"
)

var pipelineLog *logging.Logger

func init() {
	var err error
	pipelineLog, err = logging.NewLogger("pipeline")
	if err != nil {
		pipelineLog.Warnf("Failed to initialize pipeline logger, using stderr fallback: %v", err)
	}
}

// ErrNoActiveTask is returned when a transcript or confirmation arrives
// with no task in progress.
var ErrNoActiveTask = errors.New("pipeline: no active task")

const defaultEventBuffer = 64

// Input is one transcript round plus the presentation layer's authoritative
// field snapshot. The snapshot carries manual edits (including manual
// clears); a nil snapshot means the pipeline's own state is current.
// Command is set when the transcript was a locally detected control phrase
// that arrived mid-extraction and must run in queue order.
type Input struct {
	Transcript string
	Snapshot   map[string]string
	Command    extract.Command
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCapture attaches a capture controller so Run can consume its
// finalized transcripts and Teardown can release the engine.
func WithCapture(c *capture.Controller) Option {
	return func(p *Pipeline) {
		p.capture = c
	}
}

// WithResolverConfig overrides the entity resolution thresholds.
func WithResolverConfig(cfg resolve.Config) Option {
	return func(p *Pipeline) {
		p.resolverCfg = cfg
	}
}

// WithClock overrides the time source used for extraction requests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithEventBuffer overrides the event channel capacity.
func WithEventBuffer(n int) Option {
	return func(p *Pipeline) {
		p.events = make(chan *types.ExtractEvent, n)
	}
}

// Pipeline drives transcripts through extraction, merging, resolution, and
// persistence handoff.
type Pipeline struct {
	extractor   *extract.Extractor
	st          store.Store
	conv        *session.Conversation
	capture     *capture.Controller
	resolverCfg resolve.Config
	now         func() time.Time
	events      chan *types.ExtractEvent

	mu          sync.Mutex
	inFlight    bool
	pending     []Input
	cancelRound context.CancelFunc
}

// New creates a pipeline over the given extractor and store.
func New(extractor *extract.Extractor, st store.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:   extractor,
		st:          st,
		conv:        session.New(),
		resolverCfg: resolve.DefaultConfig(),
		now:         time.Now,
		events:      make(chan *types.ExtractEvent, defaultEventBuffer),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Events returns the extraction progress stream.
func (p *Pipeline) Events() <-chan *types.ExtractEvent {
	return p.events
}

// BeginTask starts collecting a new record of the given kind. At most one
// task may be active.
func (p *Pipeline) BeginTask(kind task.Kind) (task.Task, error) {
	t, err := task.New(kind)
	if err != nil {
		return nil, err
	}
	if err := p.conv.BeginTask(t); err != nil {
		return nil, err
	}
	pipelineLog.Infof("task started: %s", kind)
	return t, nil
}

// ActiveTask returns the task in progress, or nil.
func (p *Pipeline) ActiveTask() task.Task {
	return p.conv.ActiveTask()
}

// Fields returns the current field snapshot of the active task, for the
// presentation layer to display and edit. Nil when no task is active.
func (p *Pipeline) Fields() map[string]string {
	t := p.conv.ActiveTask()
	if t == nil {
		return nil
	}
	return t.Fields()
}

// Submit feeds one finalized transcript into the pipeline. Stop and cancel
// phrases are detected locally and never reach the model. If an extraction
// round is already in flight the input is queued, a stop phrase included,
// so nothing runs ahead of the round it was dictated after; cancel alone
// takes effect immediately.
func (p *Pipeline) Submit(transcript string, snapshot map[string]string) error {
	t := p.conv.ActiveTask()
	if t == nil {
		return ErrNoActiveTask
	}

	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" {
		return nil
	}

	hint := p.conv.ObserveTranscript(trimmed)
	if mt, ok := t.(*task.MaintenanceTask); ok {
		mt.SetSpeakerHint(hint)
	}

	cmd := extract.DetectCommand(trimmed)
	if cmd == extract.CommandCancel {
		// Cancel is the one input that outranks the queue: it tears down
		// the in-flight round along with everything behind it.
		pipelineLog.Infof("cancel phrase detected")
		p.CancelTask()
		return nil
	}

	in := Input{Transcript: trimmed, Snapshot: snapshot, Command: cmd}

	p.mu.Lock()
	if p.inFlight {
		// A snapshot taken before the in-flight round merged would clobber
		// its updates; once the queue drains the pipeline's own state is
		// authoritative.
		in.Snapshot = nil
		p.pending = append(p.pending, in)
		p.mu.Unlock()
		pipelineLog.Debugf("input queued behind in-flight extraction")
		return nil
	}
	if cmd == extract.CommandDone {
		p.mu.Unlock()
		pipelineLog.Infof("done phrase detected")
		return p.finish(context.Background(), t, snapshot)
	}
	p.inFlight = true
	ctx, cancel := context.WithCancel(context.Background())
	p.cancelRound = cancel
	p.mu.Unlock()

	go p.runRounds(ctx, in)
	return nil
}

// Confirm explicitly confirms the complete active task and hands it to the
// persistence collaborator. On persistence failure the task returns to
// collecting with all values intact and the error is returned for retry.
func (p *Pipeline) Confirm(ctx context.Context) (string, error) {
	t := p.conv.ActiveTask()
	if t == nil {
		return "", ErrNoActiveTask
	}
	return p.persist(ctx, t)
}

// CancelTask abandons the active task: any in-flight extraction is
// cancelled, the live capture session is discarded, and the conversation
// context is reset.
func (p *Pipeline) CancelTask() {
	p.mu.Lock()
	cancel := p.cancelRound
	p.pending = nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	if p.capture != nil {
		p.capture.Cancel()
	}

	if t := p.conv.ActiveTask(); t != nil {
		t.Abandon()
		pipelineLog.Infof("task abandoned: %s", t.Kind())
	}
	p.conv.Reset()
	p.publish(types.NewExtractIdleEvent())
}

// Teardown ends the session: in-flight work is cancelled, the capture
// engine is released, and the context is reset. No background work
// survives.
func (p *Pipeline) Teardown() {
	p.CancelTask()
	if p.capture != nil {
		if err := p.capture.Release(); err != nil {
			pipelineLog.Warnf("engine release failed: %v", err)
		}
	}
}

// Run consumes the capture controller's event stream, submitting every
// finalized transcript, until ctx is cancelled. observe, when non-nil,
// sees each capture event before it is handled, so a presentation layer
// can render listening progress without competing for the stream. The
// pipeline's own field state serves as the snapshot; presentation layers
// with manual edits call Submit directly instead. The caller still owns
// Teardown.
func (p *Pipeline) Run(ctx context.Context, observe func(*types.CaptureEvent)) {
	if p.capture == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-p.capture.Events():
			if !ok {
				return
			}
			if observe != nil {
				observe(ev)
			}
			if ev.Type != types.CaptureResult || strings.TrimSpace(ev.Transcript) == "" {
				continue
			}
			if err := p.Submit(ev.Transcript, nil); err != nil {
				pipelineLog.Warnf("transcript dropped: %v", err)
			}
		}
	}
}

// runRounds processes the given input and then drains the pending queue in
// order. Exactly one goroutine runs at a time; the inFlight flag is only
// cleared here once the queue is empty.
func (p *Pipeline) runRounds(ctx context.Context, in Input) {
	for {
		if in.Command == extract.CommandDone {
			p.finishQueued(ctx)
		} else {
			p.round(ctx, in)
		}

		p.mu.Lock()
		if ctx.Err() != nil || len(p.pending) == 0 {
			p.inFlight = false
			p.cancelRound = nil
			p.pending = nil
			p.mu.Unlock()
			p.publish(types.NewExtractIdleEvent())
			return
		}
		in = p.pending[0]
		p.pending = p.pending[1:]
		p.mu.Unlock()
	}
}

// round runs one transcript through extraction, merge, and resolution.
func (p *Pipeline) round(ctx context.Context, in Input) {
	t := p.conv.ActiveTask()
	if t == nil {
		return
	}

	p.publish(types.NewExtractProcessingEvent())

	if in.Snapshot != nil {
		if err := t.SyncSnapshot(in.Snapshot); err != nil {
			p.publish(types.NewExtractErrorEvent(err))
			return
		}
	}

	req := extract.Request{
		Collected:   t.Fields(),
		History:     p.conv.History(),
		Date:        p.now(),
		Kind:        t.Kind(),
		SpeakerHint: p.conv.SpeakerHint(),
	}

	res, err := p.extractor.Extract(ctx, in.Transcript, req)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		pipelineLog.Errorf("extraction failed: %v", err)
		p.publish(types.NewExtractErrorEvent(err))
		return
	}

	if len(res.Updates) > 0 {
		if err := t.Apply(res.Updates); err != nil {
			p.publish(types.NewExtractErrorEvent(err))
			return
		}
	}

	reply := res.Reply
	if prompts := p.resolveReferences(ctx, t); len(prompts) > 0 {
		reply = strings.TrimSpace(reply + " " + strings.Join(prompts, " "))
	}

	p.conv.RecordExchange(in.Transcript, res.Reply)
	p.publish(types.NewExtractedEvent(
		t.Fields(),
		t.MissingRequiredFields(),
		speak.Plain(reply),
		res.Confidence,
		res.LowConfidence,
	))
}

// finishQueued runs a done phrase that was queued behind an extraction
// round, after every round ahead of it has merged.
func (p *Pipeline) finishQueued(ctx context.Context) {
	t := p.conv.ActiveTask()
	if t == nil || ctx.Err() != nil {
		return
	}
	pipelineLog.Infof("queued done phrase executing")
	if err := p.finish(ctx, t, nil); err != nil {
		p.publish(types.NewExtractErrorEvent(err))
	}
}

// finish is the local "done" path: if required fields are still missing it
// prompts for them without a model round-trip; otherwise it confirms and
// persists.
func (p *Pipeline) finish(ctx context.Context, t task.Task, snapshot map[string]string) error {
	if snapshot != nil {
		if err := t.SyncSnapshot(snapshot); err != nil {
			return err
		}
	}

	if missing := t.MissingRequiredFields(); len(missing) > 0 {
		reply := "I still need: " + strings.Join(missing, ", ") + "."
		p.publish(types.NewExtractedEvent(t.Fields(), missing, speak.Plain(reply), 1, false))
		return nil
	}

	if _, err := p.persist(ctx, t); err != nil {
		return err
	}
	return nil
}

// publish emits an event without ever blocking the pipeline. When the
// buffer is full the oldest event is dropped in favor of the newest.
func (p *Pipeline) publish(ev *types.ExtractEvent) {
	for {
		select {
		case p.events <- ev:
			return
		default:
			select {
			case <-p.events:
			default:
			}
		}
	}
}
