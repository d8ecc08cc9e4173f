// Package resolve maps loosely-spoken entity names ("Medika", "Elettro
// Impianti") to canonical stored records using tiered exact, substring, and
// fuzzy matching.
//
// Resolution never mutates storage: it is a pure function of the query and
// the candidate pool. Ambiguity and absence are normal outcomes, not errors;
// every caller must handle all four branches of a Resolution.
package resolve

import (
	"sort"
	"strings"

	"github.com/ledgervox/ledgervox/pkg/similarity"
	"github.com/ledgervox/ledgervox/pkg/types"
)

// Outcome identifies the branch of a Resolution.
type Outcome string

const (
	OutcomeFound             Outcome = "found"              // OutcomeFound means exactly one record matched.
	OutcomeAmbiguous         Outcome = "ambiguous"          // OutcomeAmbiguous means several records are plausible.
	OutcomeNotFound          Outcome = "not_found"          // OutcomeNotFound means no record is plausible.
	OutcomeNeedsConfirmation Outcome = "needs_confirmation" // OutcomeNeedsConfirmation means one record is likely but not certain.
)

// Resolution is the four-way result of resolving a spoken name.
type Resolution[T types.Named] struct {
	// Candidates holds the plausible records for OutcomeAmbiguous,
	// best match first.
	Candidates []T

	// Query is the original spoken name, preserved for follow-up prompts
	// and inline creation.
	Query string

	// Record is the matched record for OutcomeFound and the likely
	// candidate for OutcomeNeedsConfirmation.
	Record T

	// Similarity is the fuzzy score of Record for OutcomeNeedsConfirmation.
	Similarity float64

	// Outcome indicates which branch this resolution took.
	Outcome Outcome
}

// Config holds the fuzzy-matching thresholds. The defaults are empirically
// tuned for short domain vocabularies (vendor and location names) where
// transcription errors are systematic phonetic substitutions.
type Config struct {
	// MatchFloor is the minimum similarity for a record to be considered
	// a fuzzy candidate at all. Inclusive.
	MatchFloor float64

	// AutoAccept is the similarity at or above which a sole fuzzy
	// candidate resolves without confirmation.
	AutoAccept float64

	// AmbiguityGap is the top-two score gap above which the leading
	// candidate is offered for confirmation instead of listing all of them.
	AmbiguityGap float64

	// WordPenalty is subtracted from a token-aligned score per candidate
	// word beyond the spoken words, so "Siemenz" against "Siemens
	// Healthcare" confirms instead of auto-resolving.
	WordPenalty float64
}

// DefaultConfig returns the default threshold set.
func DefaultConfig() Config {
	return Config{
		MatchFloor:   0.6,
		AutoAccept:   0.8,
		AmbiguityGap: 0.2,
		WordPenalty:  0.1,
	}
}

// maxAmbiguousSubstring caps how many substring matches are still considered
// a useful disambiguation list; past it the query is too generic and falls
// through to fuzzy scoring.
const maxAmbiguousSubstring = 5

// maxAmbiguousCandidates caps the candidate list on the fuzzy tier.
const maxAmbiguousCandidates = 3

// Resolver resolves spoken names against a read-only candidate pool.
type Resolver[T types.Named] struct {
	cfg Config
}

// NewResolver creates a resolver with the given thresholds.
func NewResolver[T types.Named](cfg Config) *Resolver[T] {
	return &Resolver[T]{cfg: cfg}
}

// Resolve runs the tiered match of query against pool. Tiers short-circuit:
//
//  1. Exact case-insensitive name equality.
//  2. Substring containment in either direction: one match resolves, two to
//     five are returned as ambiguous.
//  3. Normalized edit-distance similarity over the pool, keeping scores at
//     or above the match floor.
func (r *Resolver[T]) Resolve(query string, pool []T) Resolution[T] {
	res := Resolution[T]{Query: query, Outcome: OutcomeNotFound}

	q := similarity.Normalize(query)
	if q == "" || len(pool) == 0 {
		return res
	}

	// Tier 1: exact.
	for _, c := range pool {
		if similarity.Normalize(c.RecordName()) == q {
			res.Outcome = OutcomeFound
			res.Record = c
			return res
		}
	}

	// Tier 2: substring containment, either direction.
	var contained []T
	for _, c := range pool {
		n := similarity.Normalize(c.RecordName())
		if strings.Contains(n, q) || strings.Contains(q, n) {
			contained = append(contained, c)
		}
	}
	switch {
	case len(contained) == 1:
		res.Outcome = OutcomeFound
		res.Record = contained[0]
		return res
	case len(contained) >= 2 && len(contained) <= maxAmbiguousSubstring:
		res.Outcome = OutcomeAmbiguous
		res.Candidates = contained
		return res
	}

	// Tier 3: fuzzy scoring.
	type scored struct {
		record T
		score  float64
	}
	var kept []scored
	for _, c := range pool {
		s := r.score(q, c.RecordName())
		if s >= r.cfg.MatchFloor {
			kept = append(kept, scored{record: c, score: s})
		}
	}

	if len(kept) == 0 {
		return res
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	if len(kept) == 1 {
		if kept[0].score >= r.cfg.AutoAccept {
			res.Outcome = OutcomeFound
			res.Record = kept[0].record
			return res
		}
		res.Outcome = OutcomeNeedsConfirmation
		res.Record = kept[0].record
		res.Similarity = kept[0].score
		return res
	}

	if kept[0].score-kept[1].score > r.cfg.AmbiguityGap {
		res.Outcome = OutcomeNeedsConfirmation
		res.Record = kept[0].record
		res.Similarity = kept[0].score
		return res
	}

	top := kept
	if len(top) > maxAmbiguousCandidates {
		top = top[:maxAmbiguousCandidates]
	}
	res.Outcome = OutcomeAmbiguous
	res.Candidates = make([]T, len(top))
	for i, s := range top {
		res.Candidates[i] = s.record
	}
	return res
}

// score rates a candidate name against the normalized query. Whole-string
// similarity covers same-shape names; the token alignment covers candidates
// carrying extra corporate suffix words ("Srl", "Healthcare") that whole-string
// distance would drown, discounted per extra word so a partial spoken name
// confirms instead of auto-resolving. The better of the two wins.
func (r *Resolver[T]) score(q, name string) float64 {
	whole := similarity.Score(q, name)

	qWords := strings.Fields(q)
	nWords := strings.Fields(similarity.Normalize(name))
	if len(qWords) == 0 || len(nWords) == 0 {
		return whole
	}

	var total float64
	for _, qw := range qWords {
		best := 0.0
		for _, nw := range nWords {
			if s := similarity.Score(qw, nw); s > best {
				best = s
			}
		}
		total += best
	}
	aligned := total / float64(len(qWords))
	if extra := len(nWords) - len(qWords); extra > 0 {
		aligned -= r.cfg.WordPenalty * float64(extra)
	}

	if aligned > whole {
		return aligned
	}
	return whole
}
