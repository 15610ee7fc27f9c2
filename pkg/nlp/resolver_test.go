package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	ranked []ScoredIntent
}

func (s stubClassifier) Predict(string) []ScoredIntent {
	return s.ranked
}

func TestResolveAcceptsConfidentClassifier(t *testing.T) {
	r := NewIntentResolver(stubClassifier{ranked: []ScoredIntent{
		{Intent: "inquire_price", Confidence: 0.72},
		{Intent: "make_reservation", Confidence: 0.18},
	}}, NewKeywordMatcher())

	p := r.Resolve("how much for a room")
	assert.Equal(t, "inquire_price", p.Intent)
	assert.Equal(t, 0.72, p.Confidence)
	assert.Equal(t, SourceStatistical, p.Source)
}

func TestResolveFallsBackToKeywords(t *testing.T) {
	r := NewIntentResolver(stubClassifier{ranked: []ScoredIntent{
		{Intent: "greet", Confidence: 0.30},
	}}, NewKeywordMatcher())

	p := r.Resolve("i want to book a room")
	assert.Equal(t, "make_reservation", p.Intent)
	assert.Equal(t, SourceKeyword, p.Source)
	assert.Greater(t, p.Confidence, 0.0)
	assert.LessOrEqual(t, p.Confidence, 1.0)
}

func TestResolveUnknownWhenNeitherSourceFires(t *testing.T) {
	r := NewIntentResolver(stubClassifier{ranked: []ScoredIntent{
		{Intent: "greet", Confidence: 0.30},
	}}, NewKeywordMatcher())

	p := r.Resolve("zxqw vbnk gfds")
	assert.Equal(t, FallbackIntent, p.Intent)
	assert.Equal(t, 0.0, p.Confidence)
	assert.Equal(t, SourceNone, p.Source)
}

func TestResolveDegradedKeywordOnly(t *testing.T) {
	r := NewIntentResolver(nil, NewKeywordMatcher())
	assert.True(t, r.Degraded())

	p := r.Resolve("do you have parking")
	assert.Equal(t, "inquire_parking", p.Intent)
	assert.Equal(t, SourceKeyword, p.Source)
}

func TestResolveWithThreshold(t *testing.T) {
	stub := stubClassifier{ranked: []ScoredIntent{
		{Intent: "inquire_wifi", Confidence: 0.50},
	}}

	strict := NewIntentResolver(stub, NewKeywordMatcher())
	p := strict.Resolve("zxqw vbnk gfds")
	assert.Equal(t, FallbackIntent, p.Intent)

	relaxed := NewIntentResolver(stub, NewKeywordMatcher()).WithThreshold(0.4)
	p = relaxed.Resolve("zxqw vbnk gfds")
	assert.Equal(t, "inquire_wifi", p.Intent)
	assert.Equal(t, SourceStatistical, p.Source)
}

func TestTopKMergesSources(t *testing.T) {
	r := NewIntentResolver(stubClassifier{ranked: []ScoredIntent{
		{Intent: "make_reservation", Confidence: 0.40},
		{Intent: "inquire_price", Confidence: 0.25},
	}}, NewKeywordMatcher())

	merged := r.TopK("i want to book a room", 3)
	require.NotEmpty(t, merged)
	assert.LessOrEqual(t, len(merged), 3)

	seen := map[string]int{}
	for _, s := range merged {
		seen[s.Intent]++
	}
	for intent, n := range seen {
		assert.Equal(t, 1, n, "intent %q duplicated", intent)
	}
	for i := 1; i < len(merged); i++ {
		assert.GreaterOrEqual(t, merged[i-1].Confidence, merged[i].Confidence)
	}
}
