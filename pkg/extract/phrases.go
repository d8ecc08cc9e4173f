package extract

import (
	"regexp"
	"strings"
)

// Command is a control intent detected locally in the raw transcript,
// before any model round-trip. Detecting these on-device short-circuits
// straight to the completion check or abandonment path.
type Command int

const (
	// CommandNone means the transcript is ordinary dictation.
	CommandNone Command = iota
	// CommandDone means the operator asked to finish and save.
	CommandDone
	// CommandCancel means the operator asked to abandon the task.
	CommandCancel
)

var donePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(ok(ay)? )?(save( it| this| that)?|done|finish(ed)?|that'?s (all|it|everything)|we'?re done)\b`),
	regexp.MustCompile(`\b(go ahead and )?save (it|this|that|the record)$`),
	regexp.MustCompile(`^confirm(ed)?$`),
}

var cancelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(no,? )?(cancel( it| this| that)?|never ?mind|forget (it|this|that)|stop,? (cancel|delete)|discard( it| this)?)\b`),
	regexp.MustCompile(`^(don'?t|do not) save\b`),
	regexp.MustCompile(`^(abort|scrap (it|this|that))\b`),
}

// DetectCommand checks the transcript for explicit finish/cancel phrases.
// Matching is deliberately anchored: a stop phrase buried inside a longer
// dictation ("the vendor said to cancel the contract") must not trigger.
func DetectCommand(transcript string) Command {
	t := strings.ToLower(strings.TrimSpace(transcript))
	t = strings.Trim(t, ".!,")

	for _, p := range cancelPatterns {
		if p.MatchString(t) {
			return CommandCancel
		}
	}
	for _, p := range donePatterns {
		if p.MatchString(t) {
			return CommandDone
		}
	}
	return CommandNone
}
