package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRejections(t *testing.T) {
	v := NewInputValidator()

	tests := []struct {
		name   string
		input  string
		reason ValidationReason
	}{
		{"empty input", "", ReasonEmpty},
		{"whitespace only", "   ", ReasonEmpty},
		{"single letter", "a", ReasonTooShort},
		{"digits only", "12345", ReasonGibberishPattern},
		{"symbols only", "!!!###", ReasonGibberishPattern},
		{"keyboard mash", "asdfghjkl", ReasonGibberishPattern},
		{"repeated words", "hello hello hello hello", ReasonRepeatedWords},
		{"single nonsense word", "florp", ReasonSingleInvalidWord},
		{"mostly invalid words", "zxqw vbnk gfds plm", ReasonLowWordValidity},
		{"off topic question", "What is the capital of France?", ReasonOffTopicDetected},
		{"unrelated statement", "orange zpqw xkvz", ReasonOffTopic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := v.Validate(tt.input)
			assert.False(t, verdict.Accepted)
			assert.Equal(t, tt.reason, verdict.Reason)
			assert.NotEmpty(t, verdict.Message)
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	v := NewInputValidator()

	inputs := []string{
		"Do you have rooms available?",
		"hi",
		"thanks a lot",
		"I want to book a deluxe room for two nights",
		"what time is check in",
		"are pets allowed",
		"yes please",
	}

	for _, input := range inputs {
		verdict := v.Validate(input)
		assert.True(t, verdict.Accepted, "expected %q to be accepted, got %s", input, verdict.Reason)
	}
}

func TestValidateMetrics(t *testing.T) {
	v := NewInputValidator()

	verdict := v.Validate("Do you have a pool?")
	assert.True(t, verdict.Accepted)
	assert.True(t, verdict.Metrics.HasQuestionMark)
	assert.True(t, verdict.Metrics.HasQuestionWord)
	assert.True(t, verdict.Metrics.HasDomainKeyword)
	assert.Equal(t, 5, verdict.Metrics.WordCount)
	assert.InDelta(t, 1.0, verdict.Metrics.WordValidityRatio, 0.001)
}

func TestAddDomainKeywords(t *testing.T) {
	v := NewInputValidator()
	v.SetOffTopicKeywords([]string{"capital"})
	v.AddDomainKeywords([]string{"sauna"})

	verdict := v.Validate("sauna")
	assert.True(t, verdict.Accepted)
}
