package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgervox/ledgervox/pkg/task"
	"github.com/ledgervox/ledgervox/pkg/types"
)

func TestSingleActiveTask(t *testing.T) {
	c := New()
	require.NoError(t, c.BeginTask(task.NewVendor()))
	assert.ErrorIs(t, c.BeginTask(task.NewLocation()), ErrTaskActive)
	assert.Equal(t, task.KindVendor, c.ActiveTask().Kind())
}

func TestHistoryEviction(t *testing.T) {
	c := New()
	for i := 0; i < HistoryCap+3; i++ {
		c.RecordExchange(fmt.Sprintf("utterance %d", i), fmt.Sprintf("reply %d", i))
	}

	h := c.History()
	require.Len(t, h, HistoryCap)
	assert.Equal(t, "utterance 3", h[0].Transcript, "oldest exchanges are evicted first")
	assert.Equal(t, fmt.Sprintf("utterance %d", HistoryCap+2), h[len(h)-1].Transcript)
}

func TestHistoryReturnsCopy(t *testing.T) {
	c := New()
	c.RecordExchange("first", "ok")

	h := c.History()
	h[0].Transcript = "mutated"

	assert.Equal(t, "first", c.History()[0].Transcript)
}

func TestReset(t *testing.T) {
	c := New()
	require.NoError(t, c.BeginTask(task.NewMaintenance()))
	c.RecordExchange("the technician came in", "noted")
	c.ObserveTranscript("the technician came in and replaced the filter")

	c.Reset()

	assert.Nil(t, c.ActiveTask())
	assert.Empty(t, c.History())
	assert.Equal(t, types.SpeakerUnknown, c.SpeakerHint())

	// A new task can begin after reset.
	assert.NoError(t, c.BeginTask(task.NewVendor()))
}

func TestInferSpeaker(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       types.SpeakerHint
	}{
		{
			name:       "first person performer",
			transcript: "I replaced the water filter and tested the pump",
			want:       types.SpeakerLikelyPerformer,
		},
		{
			name:       "third person operator",
			transcript: "the technician came in this morning and changed the seals",
			want:       types.SpeakerLikelyOperator,
		},
		{
			name:       "no grammatical signal",
			transcript: "annual maintenance on the autoclave, filters replaced",
			want:       types.SpeakerUnknown,
		},
		{
			name:       "mixed signals stay inconclusive",
			transcript: "I called and the technician came by to fix it",
			want:       types.SpeakerUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferSpeaker(tt.transcript))
		})
	}
}

func TestObserveTranscriptSticky(t *testing.T) {
	c := New()

	hint := c.ObserveTranscript("I replaced the filter")
	require.Equal(t, types.SpeakerLikelyPerformer, hint)

	// A later neutral utterance keeps the established hint.
	hint = c.ObserveTranscript("serial number AC 100")
	assert.Equal(t, types.SpeakerLikelyPerformer, hint)
}
