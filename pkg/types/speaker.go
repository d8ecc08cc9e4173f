package types

// SpeakerHint is the heuristic guess, from grammatical person in the
// transcript, of whether the narrator is the equipment's own operator or an
// external performer.
type SpeakerHint string

const (
	SpeakerUnknown         SpeakerHint = "unknown"
	SpeakerLikelyPerformer SpeakerHint = "likely_performer"
	SpeakerLikelyOperator  SpeakerHint = "likely_operator"
)

// Conclusive reports whether the hint identifies the narrator well enough
// to stand in for an explicitly dictated performer.
func (h SpeakerHint) Conclusive() bool {
	return h == SpeakerLikelyPerformer || h == SpeakerLikelyOperator
}
