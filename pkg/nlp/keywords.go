package nlp

import (
	"sort"
	"strings"
)

// Match weights, strongest first. An exact phrase hit beats covering every
// keyword group, which beats covering only some of them.
const (
	weightExactPhrase     = 3.0
	weightAllGroups       = 2.0
	weightPartialKeywords = 1.0

	// Raw scores are divided by this to land in [0,1]. The result is a
	// match-strength score, not a probability.
	keywordScoreNorm = 5.0

	// DefaultKeywordFloor is the minimal raw score a keyword match must
	// reach before the resolver will use it.
	DefaultKeywordFloor = 1.0
)

// intentRule couples an intent with its keyword groups. Each group is a set
// of synonyms; a rule with several groups expects a hit in every group for a
// strong match ("change" + "dates").
type intentRule struct {
	Intent string
	Groups [][]string
}

type KeywordMatch struct {
	Intent string
	// Score is the raw weighted score before normalization.
	Score float64
	// Confidence is the normalized match strength in [0,1].
	Confidence float64
	// Phrase is the longest phrase that matched, used for tie-breaking.
	Phrase string

	groups int
}

// KeywordMatcher scores text against a per-intent keyword table. It is the
// recall-recovering half of the hybrid resolver: it catches paraphrases the
// statistical model never saw, at the cost of calibration.
type KeywordMatcher struct {
	rules []intentRule
}

func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{rules: defaultIntentRules()}
}

// NewKeywordMatcherWithRules builds a matcher from a custom table, keeping
// declaration order for tie-breaking.
func NewKeywordMatcherWithRules(rules map[string][][]string, order []string) *KeywordMatcher {
	m := &KeywordMatcher{}
	for _, intent := range order {
		if groups, ok := rules[intent]; ok {
			m.rules = append(m.rules, intentRule{Intent: intent, Groups: groups})
		}
	}
	return m
}

// Match returns the best-scoring intent at or above minScore. Ties are
// broken by the more specific rule (more keyword groups), then the longer
// matched phrase, then declaration order. Specificity first keeps a
// two-group rule like cancel+reservation ahead of a broad single-group rule
// that shares a synonym.
func (m *KeywordMatcher) Match(text string, minScore float64) (KeywordMatch, bool) {
	lower := strings.ToLower(text)

	var best KeywordMatch
	found := false
	for _, rule := range m.rules {
		score, phrase := scoreRule(lower, rule.Groups)
		if score < minScore {
			continue
		}
		if !found || beats(score, phrase, len(rule.Groups), best) {
			best = KeywordMatch{
				Intent:     rule.Intent,
				Score:      score,
				Confidence: normalizeScore(score),
				Phrase:     phrase,
				groups:     len(rule.Groups),
			}
			found = true
		}
	}
	return best, found
}

func beats(score float64, phrase string, groups int, best KeywordMatch) bool {
	if score != best.Score {
		return score > best.Score
	}
	if groups != best.groups {
		return groups > best.groups
	}
	return len(phrase) > len(best.Phrase)
}

// TopK returns up to k scored intents ordered by descending match strength.
func (m *KeywordMatcher) TopK(text string, k int) []ScoredIntent {
	lower := strings.ToLower(text)

	var scored []ScoredIntent
	for _, rule := range m.rules {
		score, _ := scoreRule(lower, rule.Groups)
		if score > 0 {
			scored = append(scored, ScoredIntent{Intent: rule.Intent, Confidence: normalizeScore(score)})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Confidence > scored[j].Confidence
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Intents lists every known intent in declaration order.
func (m *KeywordMatcher) Intents() []string {
	out := make([]string, 0, len(m.rules))
	for _, rule := range m.rules {
		out = append(out, rule.Intent)
	}
	return out
}

func scoreRule(text string, groups [][]string) (float64, string) {
	if len(groups) == 0 {
		return 0, ""
	}

	// Keywords match on word boundaries only, so "hi" never fires inside
	// "something" and "ok" never fires inside "book".
	// An exact phrase hit wins outright; remember the longest one.
	longest := ""
	for _, group := range groups {
		for _, phrase := range group {
			if containsPhrase(text, phrase) && len(phrase) > len(longest) {
				longest = phrase
			}
		}
	}
	if longest != "" && strings.Contains(longest, " ") {
		return weightExactPhrase, longest
	}

	matched := 0
	for _, group := range groups {
		for _, keyword := range group {
			if containsPhrase(text, keyword) {
				matched++
				break
			}
		}
	}

	switch {
	case matched == len(groups) && longest != "":
		return weightAllGroups, longest
	case matched > 0:
		return weightPartialKeywords * float64(matched) / float64(len(groups)), longest
	default:
		return 0, ""
	}
}

func normalizeScore(score float64) float64 {
	normalized := score / keywordScoreNorm
	if normalized > 1.0 {
		return 1.0
	}
	return normalized
}

func defaultIntentRules() []intentRule {
	return []intentRule{
		{"greet", [][]string{
			{"hello", "hi", "hey", "greetings", "good morning", "good afternoon", "good evening"},
		}},
		{"goodbye", [][]string{
			{"bye", "goodbye", "see you", "later", "farewell", "exit", "quit"},
		}},
		{"thanks", [][]string{
			{"thank", "thanks", "appreciate", "grateful", "thx"},
		}},
		{"inquire_identity", [][]string{
			{"who", "what"},
			{"you", "yourself"},
		}},
		{"inquire_availability", [][]string{
			{"available", "availability", "check", "vacant", "free", "open"},
			{"room", "rooms", "booking", "reservation"},
		}},
		{"inquire_price", [][]string{
			{"price", "cost", "rate", "charge", "fee", "how much", "expensive", "cheap"},
		}},
		{"inquire_room_type", [][]string{
			{"room type", "types of room", "what room", "which room", "room option", "category"},
		}},
		{"inquire_amenities", [][]string{
			{"amenity", "amenities", "facility", "facilities", "service", "services", "feature", "features"},
			{"have", "offer", "provide", "include", "available"},
		}},
		{"inquire_cancellation_policy", [][]string{
			{"cancel", "cancellation", "refund", "policy", "cancel policy", "refund policy"},
		}},
		{"inquire_checkin_time", [][]string{
			{"check in", "check-in", "checkin", "arrival", "arrive", "come in"},
			{"time", "hour", "when", "what time"},
		}},
		{"inquire_checkout_time", [][]string{
			{"check out", "check-out", "checkout", "departure", "depart", "leave"},
			{"time", "hour", "when", "what time"},
		}},
		{"inquire_parking", [][]string{
			{"parking", "park", "car park", "garage", "vehicle"},
		}},
		{"inquire_pet_policy", [][]string{
			{"pet", "pets", "dog", "cat", "animal"},
		}},
		{"make_reservation", [][]string{
			{"book", "reserve", "reservation", "booking", "want to book", "make a reservation"},
		}},
		{"change_dates", [][]string{
			{"change", "modify", "update", "adjust"},
			{"date", "dates", "day", "days"},
		}},
		{"change_room_type", [][]string{
			{"change", "modify", "update", "switch", "upgrade"},
			{"room", "room type"},
		}},
		{"change_guest_count", [][]string{
			{"change", "modify", "update", "adjust"},
			{"guest", "guests", "people", "person", "adult", "adults", "children"},
		}},
		{"cancel_reservation", [][]string{
			{"cancel", "cancellation", "abort", "remove"},
			{"reservation", "booking"},
		}},
		{"confirm", [][]string{
			{"yes", "confirm", "ok", "okay", "sure", "proceed", "go ahead", "correct", "right"},
		}},
		{"deny", [][]string{
			{"no", "nope", "cancel", "don't", "never mind", "not now", "wrong"},
		}},
		{"request_late_checkout", [][]string{
			{"late", "extend", "later"},
			{"checkout", "check out", "check-out"},
		}},
		{"request_early_checkin", [][]string{
			{"early", "earlier", "before"},
			{"checkin", "check in", "check-in", "arrival"},
		}},
		{"request_invoice", [][]string{
			{"invoice", "receipt", "bill", "statement", "payment confirmation"},
		}},
		{"complaint_noise", [][]string{
			{"noise", "noisy", "loud", "sound"},
			{"complaint", "complain", "problem", "issue"},
		}},
		{"complaint_cleanliness", [][]string{
			{"clean", "cleanliness", "dirty", "mess", "tidy"},
			{"complaint", "complain", "problem", "issue"},
		}},
		{"complaint_billing", [][]string{
			{"billing", "charge", "payment", "invoice", "bill"},
			{"complaint", "complain", "problem", "issue", "wrong", "error"},
		}},
		{"feedback_positive", [][]string{
			{"great", "excellent", "wonderful", "amazing", "love", "fantastic", "perfect", "good job"},
		}},
		{"feedback_negative", [][]string{
			{"bad", "terrible", "awful", "horrible", "disappointed", "poor", "worst"},
		}},
	}
}
