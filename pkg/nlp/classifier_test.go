package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainingCorpus() []TrainingSample {
	return []TrainingSample{
		{"hello there", "greet"},
		{"hi there", "greet"},
		{"hey good morning", "greet"},
		{"how much is a room", "inquire_price"},
		{"what is the price per night", "inquire_price"},
		{"what are your rates", "inquire_price"},
		{"i want to book a room", "make_reservation"},
		{"i would like to make a reservation", "make_reservation"},
		{"book me a room for two nights", "make_reservation"},
	}
}

func TestNewClassifierRequiresData(t *testing.T) {
	_, err := NewClassifier(nil)
	assert.ErrorIs(t, err, ErrNoTrainingData)
}

func TestClassifierPredictsTrainedIntents(t *testing.T) {
	c, err := NewClassifier(trainingCorpus())
	require.NoError(t, err)

	tests := []struct {
		input  string
		intent string
	}{
		{"hello there", "greet"},
		{"what is the price per night", "inquire_price"},
		{"i want to book a room", "make_reservation"},
	}

	for _, tt := range tests {
		ranked := c.Predict(tt.input)
		require.NotEmpty(t, ranked)
		assert.Equal(t, tt.intent, ranked[0].Intent, "input %q", tt.input)
	}
}

func TestClassifierProbabilitiesSumToOne(t *testing.T) {
	c, err := NewClassifier(trainingCorpus())
	require.NoError(t, err)

	ranked := c.Predict("how much for a reservation")
	require.Len(t, ranked, 3)

	sum := 0.0
	for _, s := range ranked {
		assert.GreaterOrEqual(t, s.Confidence, 0.0)
		assert.LessOrEqual(t, s.Confidence, 1.0)
		sum += s.Confidence
	}
	assert.InDelta(t, 1.0, sum, 0.001)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Confidence, ranked[i].Confidence)
	}
}

func TestClassifierHandlesUnseenVocabulary(t *testing.T) {
	c, err := NewClassifier(trainingCorpus())
	require.NoError(t, err)

	ranked := c.Predict("zebra quantum flux")
	require.Len(t, ranked, 3)
	sum := 0.0
	for _, s := range ranked {
		sum += s.Confidence
	}
	assert.InDelta(t, 1.0, sum, 0.001)
}
