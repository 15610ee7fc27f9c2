package nlp

import "strconv"

// PredictionSource tells which side of the hybrid resolver produced a
// prediction. Keyword confidences are match-strength scores, not calibrated
// probabilities, so callers must never compare confidences across sources.
type PredictionSource string

const (
	SourceStatistical PredictionSource = "statistical"
	SourceKeyword     PredictionSource = "keyword"
	SourceNone        PredictionSource = "none"
)

type IntentPrediction struct {
	Intent     string           `json:"intent"`
	Confidence float64          `json:"confidence"`
	Source     PredictionSource `json:"source"`
}

type ScoredIntent struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

type ValidationReason string

const (
	ReasonEmpty             ValidationReason = "empty"
	ReasonTooShort          ValidationReason = "too_short"
	ReasonGibberishPattern  ValidationReason = "gibberish_pattern"
	ReasonRepeatedWords     ValidationReason = "repeated_words"
	ReasonSingleInvalidWord ValidationReason = "single_invalid_word"
	ReasonLowWordValidity   ValidationReason = "low_word_validity"
	ReasonOffTopic          ValidationReason = "off_topic"
	ReasonOffTopicDetected  ValidationReason = "off_topic_detected"
	ReasonUnclearIntent     ValidationReason = "unclear_intent"
)

type ValidationMetrics struct {
	HasQuestionWord   bool    `json:"has_question_word"`
	HasQuestionMark   bool    `json:"has_question_mark"`
	HasDomainKeyword  bool    `json:"has_domain_keyword"`
	WordValidityRatio float64 `json:"word_validity_ratio"`
	WordCount         int     `json:"word_count"`
}

type ValidationVerdict struct {
	Accepted bool              `json:"accepted"`
	Reason   ValidationReason  `json:"reason,omitempty"`
	Message  string            `json:"message,omitempty"`
	Metrics  ValidationMetrics `json:"metrics"`
}

// Slot keys used in an EntitySet.
const (
	SlotCheckInDate   = "check_in_date"
	SlotCheckOutDate  = "check_out_date"
	SlotNights        = "nights"
	SlotAdults        = "adults"
	SlotChildren      = "children"
	SlotGuestsTotal   = "guests_total"
	SlotRoomType      = "room_type"
	SlotRoomCode      = "room_code"
	SlotReservationID = "reservation_id"
	SlotAmenity       = "amenity"
	SlotTimeRequest   = "time_request"
)

// EntitySet maps slot names to extracted values. A key is present only when
// a value was actually found; empty values are never stored.
type EntitySet map[string]string

func (e EntitySet) Set(key, value string) {
	if value == "" {
		return
	}
	e[key] = value
}

func (e EntitySet) Get(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

func (e EntitySet) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Int returns the slot parsed as an integer, or 0 when absent or malformed.
func (e EntitySet) Int(key string) int {
	v, ok := e[key]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func (e EntitySet) Clone() EntitySet {
	out := make(EntitySet, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
