// Package session owns the process-scoped conversation state for one
// interactive dictation session.
//
// The state is a single explicitly-scoped object with one reset entrypoint,
// invoked at every task-exit edge (save, cancel, back-navigation), so
// teardown never depends on destructor or lifecycle timing. The extraction
// pipeline is the only writer.
package session

import (
	"errors"
	"sync"

	"github.com/ledgervox/ledgervox/pkg/task"
	"github.com/ledgervox/ledgervox/pkg/types"
)

// HistoryCap bounds the exchange history; the oldest exchange is evicted
// past it.
const HistoryCap = 6

// ErrTaskActive is returned when beginning a task while one is active.
var ErrTaskActive = errors.New("session: a task is already active")

// Exchange is one operator utterance and the assistant reply to it.
type Exchange struct {
	Transcript string
	Reply      string
}

// Conversation is the session state: the optional active task, a bounded
// ordered list of recent exchanges, and the speaker-inference hint.
type Conversation struct {
	mu        sync.Mutex
	active    task.Task
	exchanges []Exchange
	hint      types.SpeakerHint
}

// New creates an empty conversation. It is created at the first voice
// interaction of a session and reset on every task exit.
func New() *Conversation {
	return &Conversation{hint: types.SpeakerUnknown}
}

// BeginTask installs the active task. At most one task may be active;
// beginning a second is an error, not a replacement.
func (c *Conversation) BeginTask(t task.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return ErrTaskActive
	}
	c.active = t
	return nil
}

// ActiveTask returns the active task, or nil.
func (c *Conversation) ActiveTask() task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// RecordExchange appends an exchange, evicting the oldest past HistoryCap.
func (c *Conversation) RecordExchange(transcript, reply string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exchanges = append(c.exchanges, Exchange{Transcript: transcript, Reply: reply})
	if len(c.exchanges) > HistoryCap {
		c.exchanges = c.exchanges[len(c.exchanges)-HistoryCap:]
	}
}

// History returns a copy of the recent exchanges, oldest first.
func (c *Conversation) History() []Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Exchange, len(c.exchanges))
	copy(out, c.exchanges)
	return out
}

// SpeakerHint returns the current speaker inference.
func (c *Conversation) SpeakerHint() types.SpeakerHint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hint
}

// ObserveTranscript updates the speaker inference from the transcript's
// grammatical person and returns the resulting hint. Once a transcript is
// conclusive the hint sticks until reset; later neutral utterances do not
// degrade it back to unknown.
func (c *Conversation) ObserveTranscript(transcript string) types.SpeakerHint {
	inferred := InferSpeaker(transcript)

	c.mu.Lock()
	defer c.mu.Unlock()
	if inferred != types.SpeakerUnknown {
		c.hint = inferred
	}
	return c.hint
}

// Reset clears the task, history, and hint. It is the single teardown
// entrypoint for every task-exit edge.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
	c.exchanges = nil
	c.hint = types.SpeakerUnknown
}
