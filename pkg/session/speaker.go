package session

import (
	"strings"

	"github.com/ledgervox/ledgervox/pkg/types"
)

// firstPerson marks the narrator as the one who carried out the work.
var firstPerson = []string{
	"i ", "i'", "we ", "we'", "my ", "our ", "myself",
}

// thirdPerson marks the narrator as the operator reporting someone else's
// work.
var thirdPerson = []string{
	"the technician", "the engineer", "the vendor", "the supplier",
	"they ", "he ", "she ", "came in", "came by", "came to", "sent someone",
}

// InferSpeaker guesses, from grammatical person alone, whether the narrator
// performed the intervention or is the equipment's operator reporting it.
// A transcript with neither signal, or with both, is inconclusive.
func InferSpeaker(transcript string) types.SpeakerHint {
	t := " " + strings.ToLower(strings.TrimSpace(transcript)) + " "

	first := containsAny(t, firstPerson)
	third := containsAny(t, thirdPerson)

	switch {
	case first && !third:
		return types.SpeakerLikelyPerformer
	case third && !first:
		return types.SpeakerLikelyOperator
	default:
		return types.SpeakerUnknown
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, " "+m) {
			return true
		}
	}
	return false
}
