package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordMatch(t *testing.T) {
	m := NewKeywordMatcher()

	tests := []struct {
		input  string
		intent string
	}{
		{"i want to book a room", "make_reservation"},
		{"how much is a deluxe room", "inquire_price"},
		{"cancel my reservation please", "cancel_reservation"},
		{"do you have parking", "inquire_parking"},
		{"can i have a late checkout", "request_late_checkout"},
		{"the room is noisy, i want to complain", "complaint_noise"},
	}

	for _, tt := range tests {
		match, ok := m.Match(tt.input, DefaultKeywordFloor)
		require.True(t, ok, "expected a match for %q", tt.input)
		assert.Equal(t, tt.intent, match.Intent, "input %q", tt.input)
		assert.GreaterOrEqual(t, match.Score, DefaultKeywordFloor)
		assert.InDelta(t, match.Score/keywordScoreNorm, match.Confidence, 0.001)
	}
}

func TestKeywordMatchNoHit(t *testing.T) {
	m := NewKeywordMatcher()

	_, ok := m.Match("qwerty xyz", DefaultKeywordFloor)
	assert.False(t, ok)
}

func TestKeywordMatchFloor(t *testing.T) {
	m := NewKeywordMatcher()

	// "adjust" alone covers one of change_guest_count's two groups, which
	// scores 0.5 and must stay below the default floor.
	_, ok := m.Match("adjust something", DefaultKeywordFloor)
	assert.False(t, ok)

	match, ok := m.Match("adjust something", 0.4)
	require.True(t, ok)
	assert.Less(t, match.Score, DefaultKeywordFloor)
}

func TestKeywordMatchWordBoundaries(t *testing.T) {
	m := NewKeywordMatcher()

	// "hi" sits inside "something" and "ok" inside "broken"; substring hits
	// must not count as keyword matches.
	_, ok := m.Match("something here is broken", 0.4)
	assert.False(t, ok)

	match, ok := m.Match("hi there", DefaultKeywordFloor)
	require.True(t, ok)
	assert.Equal(t, "greet", match.Intent)
}

func TestKeywordConfidenceBounded(t *testing.T) {
	m := NewKeywordMatcher()

	match, ok := m.Match("i want to book a room and reserve a booking", DefaultKeywordFloor)
	require.True(t, ok)
	assert.LessOrEqual(t, match.Confidence, 1.0)
	assert.Greater(t, match.Confidence, 0.0)
}

func TestKeywordTopK(t *testing.T) {
	m := NewKeywordMatcher()

	top := m.TopK("do you have parking", 3)
	require.NotEmpty(t, top)
	assert.Equal(t, "inquire_parking", top[0].Intent)
	assert.LessOrEqual(t, len(top), 3)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Confidence, top[i].Confidence)
	}
}

func TestKeywordIntents(t *testing.T) {
	m := NewKeywordMatcher()

	intents := m.Intents()
	assert.Len(t, intents, 28)
	assert.Equal(t, "greet", intents[0])
}

func TestKeywordMatcherWithRules(t *testing.T) {
	m := NewKeywordMatcherWithRules(map[string][][]string{
		"order_pizza": {{"pizza", "margherita"}},
	}, []string{"order_pizza"})

	match, ok := m.Match("one margherita please", DefaultKeywordFloor)
	require.True(t, ok)
	assert.Equal(t, "order_pizza", match.Intent)
}
