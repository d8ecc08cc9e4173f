package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgervox/ledgervox/pkg/types"
)

func vendors(names ...string) []types.Vendor {
	out := make([]types.Vendor, len(names))
	for i, n := range names {
		out[i] = types.Vendor{ID: n, Name: n}
	}
	return out
}

func newTestResolver() *Resolver[types.Vendor] {
	return NewResolver[types.Vendor](DefaultConfig())
}

func TestResolveExactTier(t *testing.T) {
	r := newTestResolver()

	res := r.Resolve("medika srl", vendors("Elettro Impianti Srl", "Medika Srl"))
	require.Equal(t, OutcomeFound, res.Outcome)
	assert.Equal(t, "Medika Srl", res.Record.Name)
	assert.Equal(t, "medika srl", res.Query)
}

func TestResolveSubstringSingleMatch(t *testing.T) {
	r := newTestResolver()

	res := r.Resolve("Elettro Impianti", vendors("Elettro Impianti Srl"))
	require.Equal(t, OutcomeFound, res.Outcome)
	assert.Equal(t, "Elettro Impianti Srl", res.Record.Name)
}

func TestResolveSubstringAmbiguous(t *testing.T) {
	r := newTestResolver()

	res := r.Resolve("Medika", vendors("Medika Srl", "Medika Service"))
	require.Equal(t, OutcomeAmbiguous, res.Outcome)
	require.Len(t, res.Candidates, 2)
	names := []string{res.Candidates[0].Name, res.Candidates[1].Name}
	assert.Contains(t, names, "Medika Srl")
	assert.Contains(t, names, "Medika Service")
}

func TestResolveFuzzyNeedsConfirmation(t *testing.T) {
	r := newTestResolver()

	res := r.Resolve("Siemenz", vendors("Siemens Healthcare"))
	require.Equal(t, OutcomeNeedsConfirmation, res.Outcome)
	assert.Equal(t, "Siemens Healthcare", res.Record.Name)
	assert.GreaterOrEqual(t, res.Similarity, 0.7)
	assert.Less(t, res.Similarity, 0.8)
}

func TestResolveEmptyPool(t *testing.T) {
	r := newTestResolver()

	res := r.Resolve("Medika", nil)
	assert.Equal(t, OutcomeNotFound, res.Outcome)
	assert.Equal(t, "Medika", res.Query)
}

func TestResolveBlankQuery(t *testing.T) {
	r := newTestResolver()

	res := r.Resolve("   ", vendors("Medika Srl"))
	assert.Equal(t, OutcomeNotFound, res.Outcome)
}

func TestResolveThresholdEdges(t *testing.T) {
	r := newTestResolver()

	t.Run("similarity 0.8 auto-resolves", func(t *testing.T) {
		// One edit over five runes: 1 - 1/5 = 0.8 exactly.
		res := r.Resolve("Boscj", vendors("Bosch"))
		require.Equal(t, OutcomeFound, res.Outcome)
		assert.Equal(t, "Bosch", res.Record.Name)
	})

	t.Run("similarity 0.6 kept as candidate", func(t *testing.T) {
		// Two edits over five runes: 1 - 2/5 = 0.6, inclusive floor.
		res := r.Resolve("Zeixj", vendors("Zeiss"))
		require.Equal(t, OutcomeNeedsConfirmation, res.Outcome)
		assert.Equal(t, "Zeiss", res.Record.Name)
		assert.InDelta(t, 0.6, res.Similarity, 1e-9)
	})

	t.Run("below 0.6 is not found", func(t *testing.T) {
		res := r.Resolve("Medika", vendors("Tecnogaz"))
		assert.Equal(t, OutcomeNotFound, res.Outcome)
	})
}

func TestResolveFuzzyGap(t *testing.T) {
	r := newTestResolver()

	t.Run("wide gap confirms top candidate", func(t *testing.T) {
		// Scores 0.9 and 0.6 over ten runes; gap 0.3 exceeds 0.2.
		res := r.Resolve("laborsccle", vendors("laborscale", "labxxscyye"))
		require.Equal(t, OutcomeNeedsConfirmation, res.Outcome)
		assert.Equal(t, "laborscale", res.Record.Name)
		assert.InDelta(t, 0.9, res.Similarity, 1e-9)
	})

	t.Run("narrow gap lists candidates", func(t *testing.T) {
		// Scores 0.9 and 0.8; gap 0.1 is within the ambiguity gap.
		res := r.Resolve("laborsccle", vendors("laborscale", "laborscyye"))
		require.Equal(t, OutcomeAmbiguous, res.Outcome)
		require.Len(t, res.Candidates, 2)
		assert.Equal(t, "laborscale", res.Candidates[0].Name, "best match must come first")
	})

	t.Run("ambiguous list caps at three", func(t *testing.T) {
		res := r.Resolve("laborsccle", vendors("laborscale", "laborscyye", "laborscyyy", "laborsxyyy"))
		require.Equal(t, OutcomeAmbiguous, res.Outcome)
		assert.Len(t, res.Candidates, 3)
	})
}

// Resolution is deterministic and side-effect free for a fixed query/pool pair.
func TestResolveDeterministic(t *testing.T) {
	r := newTestResolver()
	pool := vendors("Medika Srl", "Medika Service", "Elettro Impianti Srl", "Siemens Healthcare")

	first := r.Resolve("Medika", pool)
	second := r.Resolve("Medika", pool)

	assert.Equal(t, first, second)
	assert.Equal(t, "Medika Srl", pool[0].Name, "pool must not be mutated")
}

func TestResolveCustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoAccept = 0.7
	r := NewResolver[types.Vendor](cfg)

	// 0.75 under the default config would need confirmation; with the
	// lowered auto-accept it resolves directly.
	res := r.Resolve("Siemenz", vendors("Siemens Healthcare"))
	assert.Equal(t, OutcomeFound, res.Outcome)
}
