package nlp

import (
	"errors"
	"math"
	"sort"
)

// TrainingSample is one labeled utterance for classifier training.
type TrainingSample struct {
	Text   string
	Intent string
}

// IClassifier is the inference-time contract of the statistical classifier.
// Predictions are ranked by descending probability; probabilities sum to 1.
type IClassifier interface {
	Predict(text string) []ScoredIntent
}

// bayesClassifier is a multinomial naive Bayes model over TF-IDF weighted
// unigram and bigram features, trained in-process. The training corpus is
// small enough that a full retrain at startup is cheap.
type bayesClassifier struct {
	vocabulary map[string]int
	idf        []float64
	intents    []string
	// logPrior[c] and logLikelihood[c][t] in the model's feature space.
	logPrior      []float64
	logLikelihood [][]float64
}

const (
	maxFeatures     = 6000
	laplaceSmooth   = 1.0
	minDocFrequency = 1
)

var ErrNoTrainingData = errors.New("nlp: no training data")

// NewClassifier trains a classifier from labeled samples.
func NewClassifier(samples []TrainingSample) (IClassifier, error) {
	if len(samples) == 0 {
		return nil, ErrNoTrainingData
	}

	docs := make([][]string, len(samples))
	df := map[string]int{}
	for i, s := range samples {
		feats := ngramFeatures(s.Text)
		docs[i] = feats
		for _, f := range uniqueStrings(feats) {
			df[f]++
		}
	}

	vocab := buildVocabulary(df, maxFeatures)

	idf := make([]float64, len(vocab))
	n := float64(len(samples))
	for term, idx := range vocab {
		idf[idx] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	intentIdx := map[string]int{}
	var intents []string
	for _, s := range samples {
		if _, ok := intentIdx[s.Intent]; !ok {
			intentIdx[s.Intent] = len(intents)
			intents = append(intents, s.Intent)
		}
	}

	// Accumulate per-class TF-IDF mass per term.
	termMass := make([][]float64, len(intents))
	classMass := make([]float64, len(intents))
	classDocs := make([]float64, len(intents))
	for c := range termMass {
		termMass[c] = make([]float64, len(vocab))
	}
	for i, s := range samples {
		c := intentIdx[s.Intent]
		classDocs[c]++
		for term, tf := range termFrequencies(docs[i]) {
			idx, ok := vocab[term]
			if !ok {
				continue
			}
			w := tf * idf[idx]
			termMass[c][idx] += w
			classMass[c] += w
		}
	}

	logPrior := make([]float64, len(intents))
	logLikelihood := make([][]float64, len(intents))
	v := float64(len(vocab))
	for c := range intents {
		logPrior[c] = math.Log(classDocs[c] / n)
		logLikelihood[c] = make([]float64, len(vocab))
		denom := classMass[c] + laplaceSmooth*v
		for idx := 0; idx < len(vocab); idx++ {
			logLikelihood[c][idx] = math.Log((termMass[c][idx] + laplaceSmooth) / denom)
		}
	}

	return &bayesClassifier{
		vocabulary:    vocab,
		idf:           idf,
		intents:       intents,
		logPrior:      logPrior,
		logLikelihood: logLikelihood,
	}, nil
}

// Predict scores the text against every intent and returns the ranked list.
func (c *bayesClassifier) Predict(text string) []ScoredIntent {
	feats := termFrequencies(ngramFeatures(text))

	scores := make([]float64, len(c.intents))
	copy(scores, c.logPrior)
	for term, tf := range feats {
		idx, ok := c.vocabulary[term]
		if !ok {
			continue
		}
		w := tf * c.idf[idx]
		for ci := range scores {
			scores[ci] += w * c.logLikelihood[ci][idx]
		}
	}

	probs := softmax(scores)
	ranked := make([]ScoredIntent, len(c.intents))
	for i, intent := range c.intents {
		ranked[i] = ScoredIntent{Intent: intent, Confidence: probs[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	return ranked
}

// ngramFeatures yields unigrams plus adjacent-word bigrams.
func ngramFeatures(text string) []string {
	tokens := Tokenize(text)
	feats := make([]string, 0, len(tokens)*2)
	feats = append(feats, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		feats = append(feats, tokens[i]+" "+tokens[i+1])
	}
	return feats
}

func termFrequencies(feats []string) map[string]float64 {
	tf := make(map[string]float64, len(feats))
	for _, f := range feats {
		tf[f]++
	}
	return tf
}

func buildVocabulary(df map[string]int, limit int) map[string]int {
	type termCount struct {
		term  string
		count int
	}
	terms := make([]termCount, 0, len(df))
	for term, count := range df {
		if count >= minDocFrequency {
			terms = append(terms, termCount{term, count})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].count != terms[j].count {
			return terms[i].count > terms[j].count
		}
		return terms[i].term < terms[j].term
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}

	vocab := make(map[string]int, len(terms))
	for i, tc := range terms {
		vocab[tc.term] = i
	}
	return vocab
}

func softmax(scores []float64) []float64 {
	max := math.Inf(-1)
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	sum := 0.0
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
