package nlp

import "sort"

// DefaultStatisticalThreshold is the probability at which the statistical
// classifier's top prediction is accepted outright.
const DefaultStatisticalThreshold = 0.65

// FallbackIntent is the terminal outcome when neither source is confident.
const FallbackIntent = "unknown"

// IntentResolver arbitrates between the statistical classifier and the
// keyword matcher. The classifier is precise but brittle on unseen
// phrasing; the keyword layer recovers recall on paraphrases. The two
// confidence scales are not comparable, so composition is threshold-gated
// rather than blended.
type IntentResolver struct {
	classifier   IClassifier
	keywords     *KeywordMatcher
	threshold    float64
	keywordFloor float64
}

func NewIntentResolver(classifier IClassifier, keywords *KeywordMatcher) *IntentResolver {
	return &IntentResolver{
		classifier:   classifier,
		keywords:     keywords,
		threshold:    DefaultStatisticalThreshold,
		keywordFloor: DefaultKeywordFloor,
	}
}

// WithThreshold overrides the statistical acceptance threshold.
func (r *IntentResolver) WithThreshold(threshold float64) *IntentResolver {
	r.threshold = threshold
	return r
}

// Degraded reports whether the resolver is running keyword-only because no
// classifier is attached.
func (r *IntentResolver) Degraded() bool {
	return r.classifier == nil
}

// Resolve produces exactly one prediction for the turn. When the classifier
// is unavailable the resolver degrades to keyword-only operation.
func (r *IntentResolver) Resolve(text string) IntentPrediction {
	if r.classifier != nil {
		ranked := r.classifier.Predict(text)
		if len(ranked) > 0 && ranked[0].Confidence >= r.threshold {
			return IntentPrediction{
				Intent:     ranked[0].Intent,
				Confidence: ranked[0].Confidence,
				Source:     SourceStatistical,
			}
		}
	}

	if match, ok := r.keywords.Match(text, r.keywordFloor); ok {
		return IntentPrediction{
			Intent:     match.Intent,
			Confidence: match.Confidence,
			Source:     SourceKeyword,
		}
	}

	return IntentPrediction{Intent: FallbackIntent, Confidence: 0, Source: SourceNone}
}

// TopK merges ranked predictions from both sources for diagnostics,
// deduplicating by intent and keeping the higher score per intent. The
// scores keep their per-source meaning and are not mutually comparable.
func (r *IntentResolver) TopK(text string, k int) []ScoredIntent {
	best := map[string]float64{}
	var order []string

	record := func(s ScoredIntent) {
		if prev, ok := best[s.Intent]; !ok {
			best[s.Intent] = s.Confidence
			order = append(order, s.Intent)
		} else if s.Confidence > prev {
			best[s.Intent] = s.Confidence
		}
	}

	if r.classifier != nil {
		for i, s := range r.classifier.Predict(text) {
			if i >= k {
				break
			}
			record(s)
		}
	}
	for _, s := range r.keywords.TopK(text, k) {
		record(s)
	}

	merged := make([]ScoredIntent, 0, len(order))
	for _, intent := range order {
		merged = append(merged, ScoredIntent{Intent: intent, Confidence: best[intent]})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})
	if len(merged) > k {
		merged = merged[:k]
	}
	return merged
}
