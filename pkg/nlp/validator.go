package nlp

import (
	"regexp"
	"strings"
)

// InputValidator gates raw text before classification. It is a pure scored
// pipeline of independent heuristics; the keyword tables below are tuning
// data, not part of the contract, and can be replaced via the setters.
type InputValidator struct {
	questionWords     map[string]bool
	domainKeywords    map[string]bool
	offTopicKeywords  map[string]bool
	allowedShortWords map[string]bool

	singleLetters  *regexp.Regexp
	onlyDigits     *regexp.Regexp
	onlySymbols    *regexp.Regexp
	consonantOnly  *regexp.Regexp
	mixedAlphaNum  *regexp.Regexp
	wordToken      *regexp.Regexp
	vowel          *regexp.Regexp
	longConsonants *regexp.Regexp

	acceptablePatterns []*regexp.Regexp
}

func NewInputValidator() *InputValidator {
	v := &InputValidator{
		questionWords: toSet(
			"what", "when", "where", "who", "why", "how", "which", "whose",
			"can", "could", "would", "should", "will", "do", "does", "did",
			"is", "are", "was", "were", "has", "have", "had", "am",
			"tell", "show", "give", "get", "need", "want", "looking",
			"explain", "describe", "say", "know",
		),
		domainKeywords: toSet(
			"book", "booking", "reserve", "reservation", "cancel", "cancellation",
			"confirm", "modify", "change", "update",
			"room", "rooms", "suite", "deluxe", "standard", "family", "ocean", "type",
			"available", "availability", "vacant", "free",
			"date", "day", "night", "week", "month", "today", "tomorrow",
			"check-in", "checkin", "check-out", "checkout", "arrival", "departure",
			"stay", "staying", "arrive", "leave",
			"price", "cost", "rate", "charge", "fee", "pay", "payment",
			"expensive", "cheap", "discount", "total",
			"amenity", "amenities", "facility", "facilities", "service", "services",
			"pool", "gym", "spa", "wifi", "parking", "breakfast", "restaurant",
			"pet", "pets", "dog", "cat",
			"guest", "guests", "adult", "adults", "child", "children", "kid", "kids",
			"people", "person",
			"policy", "policies", "rule", "rules", "regulation",
			"hotel", "address", "location", "phone", "email", "contact",
			"need", "want", "like", "prefer", "looking", "search", "find",
			"help", "information", "info", "details", "tell", "know",
			"hello", "hi", "hey", "greetings", "thanks", "thank", "please",
			"bye", "goodbye", "yes", "no", "ok", "okay",
			"you", "your", "who", "name", "about",
		),
		offTopicKeywords: toSet(
			"capital", "country", "president", "cook", "recipe", "weather",
			"math", "calculate", "physics", "chemistry", "science",
			"sports", "game", "movie", "song", "music", "actor",
			"politics", "news", "stock", "market", "crypto",
			"programming", "code", "python", "javascript",
		),
		allowedShortWords: toSet("hi", "ok", "no"),

		singleLetters:  regexp.MustCompile(`^[a-z]{1,2}$`),
		onlyDigits:     regexp.MustCompile(`^\d+$`),
		onlySymbols:    regexp.MustCompile(`^[!@#$%^&*()]+$`),
		consonantOnly:  regexp.MustCompile(`^[^aeiou\s]{5,}`),
		mixedAlphaNum:  regexp.MustCompile(`^[a-z]+\d+[a-z]+\d+`),
		wordToken:      regexp.MustCompile(`\b[a-z]+\b`),
		vowel:          regexp.MustCompile(`[aeiouy]`),
		longConsonants: regexp.MustCompile(`[^aeiouy\s]{4,}`),

		acceptablePatterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(hi|hello|hey|good\s+(morning|afternoon|evening|day))\b`),
			regexp.MustCompile(`\b(thank|thanks|thx|ty)\b`),
			regexp.MustCompile(`\b(bye|goodbye|see\s+you)\b`),
			regexp.MustCompile(`\b(yes|yea|yeah|yep|no|nope)\b`),
			regexp.MustCompile(`\b(ok|okay|sure|fine|alright)\b`),
			regexp.MustCompile(`\b(who|what)\s+(are|is)\s+you\b`),
			regexp.MustCompile(`\b(tell|say)\s+(me\s+)?(about\s+)?(you|yourself)\b`),
			regexp.MustCompile(`\byour\s+(name|info|information)\b`),
		},
	}
	return v
}

// SetDomainKeywords replaces the domain vocabulary. Thresholds and word
// lists are tuning data; hosts can swap them without touching the pipeline.
func (v *InputValidator) SetDomainKeywords(words []string) {
	v.domainKeywords = toSet(words...)
}

// AddDomainKeywords extends the domain vocabulary, typically with room and
// amenity names from a loaded catalog.
func (v *InputValidator) AddDomainKeywords(words []string) {
	for _, word := range words {
		if w := strings.ToLower(strings.TrimSpace(word)); w != "" {
			v.domainKeywords[w] = true
		}
	}
}

func (v *InputValidator) SetOffTopicKeywords(words []string) {
	v.offTopicKeywords = toSet(words...)
}

const (
	lowValidityThreshold      = 0.3
	offTopicValidityThreshold = 0.6
	acceptValidityThreshold   = 0.5
)

// Validate runs the staged gate and always returns a verdict; it never
// panics or errors on any input.
func (v *InputValidator) Validate(text string) ValidationVerdict {
	if strings.TrimSpace(text) == "" {
		return reject(ReasonEmpty, "Please type something. How can I help you?", ValidationMetrics{})
	}

	clean := strings.ToLower(strings.TrimSpace(text))

	if len(clean) < 2 {
		return reject(ReasonTooShort,
			"Please ask a complete question. I'm here to help with hotel reservations, room information, amenities, and policies.",
			ValidationMetrics{WordCount: 1})
	}

	words := strings.Fields(clean)
	metrics := v.analyze(text, clean, words)

	if !v.allowedShortWords[clean] && v.looksGibberish(clean) {
		if !v.domainKeywords[clean] && !v.questionWords[clean] {
			return reject(ReasonGibberishPattern,
				"That doesn't seem like a valid question. Please ask about hotel reservations, room availability, pricing, or our services.",
				metrics)
		}
	}

	if repeatedRun(words) >= 3 {
		return reject(ReasonRepeatedWords,
			"Please ask a meaningful question. I can help you with bookings, room types, amenities, check-in/out times, and hotel policies.",
			metrics)
	}

	// A single long token that doesn't look like a real word is keyboard
	// mashing, e.g. "aklsdfhasdihf".
	if len(words) == 1 && len(clean) > 7 && !v.isLikelyRealWord(clean) {
		if !v.domainKeywords[clean] && !v.questionWords[clean] {
			return reject(ReasonGibberishPattern,
				"That doesn't look like a valid word or question. Please ask about hotel reservations, room availability, pricing, or our services.",
				metrics)
		}
	}

	if len(words) == 1 && !metrics.HasDomainKeyword && !metrics.HasQuestionWord {
		if !v.domainKeywords[words[0]] && !v.questionWords[words[0]] {
			return reject(ReasonSingleInvalidWord,
				"I'm a hotel chatbot. Please ask a question about room bookings, availability, pricing, amenities, or check-in/check-out policies.",
				metrics)
		}
	}

	wordTokens := v.wordToken.FindAllString(clean, -1)
	if metrics.WordValidityRatio < lowValidityThreshold && len(wordTokens) > 2 {
		return reject(ReasonLowWordValidity,
			"I couldn't understand that. Please ask a clear question about hotel services, such as 'Do you have rooms available?' or 'What's the price for a deluxe room?'",
			metrics)
	}

	if (metrics.HasQuestionWord || metrics.HasQuestionMark) && !metrics.HasDomainKeyword && len(words) > 2 {
		if v.containsAny(clean, v.offTopicKeywords) {
			return reject(ReasonOffTopicDetected,
				"I'm a hotel reservation assistant and can only help with hotel-related questions: room bookings, availability, pricing, amenities, and policies. Please ask something about your hotel stay.",
				metrics)
		}
	}

	if !metrics.HasDomainKeyword && !metrics.HasQuestionWord && len(words) > 2 {
		if metrics.WordValidityRatio < offTopicValidityThreshold {
			return reject(ReasonOffTopic,
				"That doesn't seem related to hotel services. I can help with room reservations, availability and pricing, amenities, and hotel policies. What would you like to know?",
				metrics)
		}
	}

	if metrics.HasQuestionWord || metrics.HasQuestionMark || metrics.HasDomainKeyword {
		return accept(metrics)
	}

	for _, pattern := range v.acceptablePatterns {
		if pattern.MatchString(clean) {
			return accept(metrics)
		}
	}

	if metrics.WordValidityRatio >= acceptValidityThreshold {
		return accept(metrics)
	}

	return reject(ReasonUnclearIntent,
		"I'm not sure what you're asking. Try asking about room availability, pricing, amenities, or our cancellation policy.",
		metrics)
}

func (v *InputValidator) analyze(raw, clean string, words []string) ValidationMetrics {
	metrics := ValidationMetrics{
		HasQuestionMark: strings.Contains(raw, "?"),
		WordCount:       len(words),
	}
	metrics.HasQuestionWord = v.containsAny(clean, v.questionWords)
	metrics.HasDomainKeyword = v.containsAny(clean, v.domainKeywords)

	wordTokens := v.wordToken.FindAllString(clean, -1)
	if len(wordTokens) > 0 {
		valid := 0
		for _, w := range wordTokens {
			if v.isLikelyRealWord(w) || v.domainKeywords[w] {
				valid++
			}
		}
		metrics.WordValidityRatio = float64(valid) / float64(len(wordTokens))
	}

	return metrics
}

func (v *InputValidator) looksGibberish(clean string) bool {
	return v.singleLetters.MatchString(clean) ||
		hasCharRun(clean, 4) ||
		v.onlyDigits.MatchString(clean) ||
		v.onlySymbols.MatchString(clean) ||
		v.consonantOnly.MatchString(clean) ||
		v.mixedAlphaNum.MatchString(clean)
}

func (v *InputValidator) isLikelyRealWord(word string) bool {
	if len(word) < 2 {
		return true
	}
	if !v.vowel.MatchString(word) {
		return false
	}
	if v.longConsonants.MatchString(word) {
		return false
	}
	if len(word) > 3 {
		for i := 0; i+4 <= len(word); i++ {
			if word[i:i+2] == word[i+2:i+4] {
				return false
			}
		}
	}
	return true
}

func (v *InputValidator) containsAny(text string, set map[string]bool) bool {
	for word := range set {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// repeatedRun returns the longest run of the same non-trivial word repeated
// consecutively.
func repeatedRun(words []string) int {
	best, run := 0, 0
	prev := ""
	for _, w := range words {
		if len(w) > 1 && w == prev {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = w
	}
	return best
}

func reject(reason ValidationReason, message string, metrics ValidationMetrics) ValidationVerdict {
	return ValidationVerdict{Accepted: false, Reason: reason, Message: message, Metrics: metrics}
}

func accept(metrics ValidationMetrics) ValidationVerdict {
	return ValidationVerdict{Accepted: true, Metrics: metrics}
}

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
