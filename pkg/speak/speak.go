// Package speak prepares confirmation text for the spoken-output
// collaborator. Model replies may carry lightweight markup; every marker
// must be stripped before handoff so no literal symbol is read aloud.
package speak

import (
	"regexp"
	"strings"
)

var (
	emphasis    = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
	inlineCode  = regexp.MustCompile("`([^`]*)`")
	heading     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	bulletStart = regexp.MustCompile(`(?m)^\s*[-*•]\s+`)
	spaces      = regexp.MustCompile(`[ \t]{2,}`)
)

// Plain strips markup from text, returning what should actually be spoken.
func Plain(text string) string {
	out := emphasis.ReplaceAllString(text, "$2")
	out = inlineCode.ReplaceAllString(out, "$1")
	out = heading.ReplaceAllString(out, "")
	out = bulletStart.ReplaceAllString(out, "")
	out = spaces.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
