package extract

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ledgervox/ledgervox/pkg/session"
	"github.com/ledgervox/ledgervox/pkg/task"
	"github.com/ledgervox/ledgervox/pkg/types"
)

// defaultHistoryBudget caps how many prompt tokens the recent-exchange
// history may occupy; oldest exchanges are dropped first.
const defaultHistoryBudget = 1200

// Request is the context snapshot an extraction round is built from. The
// Collected map must be the presentation layer's authoritative current
// values, so manual edits are never merged against a stale copy.
type Request struct {
	Collected   map[string]string
	History     []session.Exchange
	Date        time.Time
	Kind        task.Kind
	SpeakerHint types.SpeakerHint
}

// BuildMessages renders the extraction request: a system message carrying
// the current date, the domain rules, and the already-collected fields,
// followed by the bounded exchange history and the new transcript.
func BuildMessages(transcript string, req Request) ([]*types.Message, error) {
	rules, err := RulesFor(req.Kind)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("You turn a spoken inventory dictation into structured field updates.\n\n")
	sb.WriteString(rules.describe())
	fmt.Fprintf(&sb, "\nCurrent date: %s.\n", req.Date.Format("Monday, 2 January 2006"))

	if len(req.Collected) > 0 {
		sb.WriteString("\nFields already collected (do not repeat them unless the operator changes them):\n")
		keys := make([]string, 0, len(req.Collected))
		for k := range req.Collected {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "- %s: %s\n", k, req.Collected[k])
		}
	}

	sb.WriteString(`
Respond with a single JSON object:
{"updates": {"field": "value", ...}, "reply": "...", "confidence": 0.0-1.0}

Rules:
- "updates" holds only fields this utterance actually provides; omit the rest. Never output empty values.
- "reply" is one short spoken-style sentence confirming what was understood and asking for at most one missing required field.
- "confidence" is your certainty that the updates reflect what was said.`)

	messages := []*types.Message{types.NewSystemMessage(sb.String())}
	messages = append(messages, historyMessages(req.History, defaultHistoryBudget)...)
	messages = append(messages, types.NewUserMessage(transcript))
	return messages, nil
}

// historyMessages converts the exchange history into alternating messages,
// dropping the oldest exchanges once the token budget is exceeded.
func historyMessages(history []session.Exchange, budget int) []*types.Message {
	start := 0
	total := 0
	for i := len(history) - 1; i >= 0; i-- {
		total += countTokens(history[i].Transcript) + countTokens(history[i].Reply)
		if total > budget {
			start = i + 1
			break
		}
	}

	var out []*types.Message
	for _, ex := range history[start:] {
		out = append(out, types.NewUserMessage(ex.Transcript))
		if ex.Reply != "" {
			out = append(out, types.NewAssistantMessage(ex.Reply))
		}
	}
	return out
}
