package chat

import (
	"time"

	"SunsetBayBot/pkg/dialogue"
	"SunsetBayBot/pkg/nlp"
)

type MessageRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=64"`
	Message   string `json:"message" validate:"required,max=1000"`
}

type MessageResponse struct {
	SessionID      string                `json:"session_id"`
	Reply          string                `json:"reply"`
	Intent         string                `json:"intent"`
	Confidence     float64               `json:"confidence"`
	Source         nlp.PredictionSource  `json:"source"`
	Entities       map[string]string     `json:"entities,omitempty"`
	BookingState   string                `json:"booking_state"`
	ContextSummary string                `json:"context_summary"`
	Validation     nlp.ValidationVerdict `json:"validation"`
}

type AnalyzeRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// AnalyzeResponse exposes the raw pipeline output for a single utterance
// without touching any session state.
type AnalyzeResponse struct {
	Input       string                `json:"input"`
	CleanedText string                `json:"cleaned_text"`
	Validation  nlp.ValidationVerdict `json:"validation"`
	Prediction  nlp.IntentPrediction  `json:"prediction"`
	Candidates  []nlp.ScoredIntent    `json:"candidates,omitempty"`
	Entities    map[string]string     `json:"entities,omitempty"`
}

type ContextResponse struct {
	SessionID    string            `json:"session_id"`
	BookingState string            `json:"booking_state"`
	Slots        map[string]string `json:"slots"`
	History      []dialogue.Turn   `json:"history,omitempty"`
	LastIntent   string            `json:"last_intent,omitempty"`
	TurnCount    int               `json:"turn_count"`
	Summary      string            `json:"summary"`
}

type TurnHistory struct {
	ID         string            `json:"id"`
	Message    string            `json:"message"`
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Source     string            `json:"source"`
	Entities   map[string]string `json:"entities,omitempty"`
	Reply      string            `json:"reply"`
	CreatedAt  time.Time         `json:"created_at"`
}

type HistoryResponse struct {
	SessionID string        `json:"session_id"`
	Turns     []TurnHistory `json:"turns"`
	Total     int           `json:"total"`
}

type IntentInfo struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords,omitempty"`
}

type RoomInfo struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Capacity         int      `json:"capacity"`
	Beds             string   `json:"beds"`
	BasePriceWeekday float64  `json:"base_price_weekday"`
	BasePriceWeekend float64  `json:"base_price_weekend"`
	ViewOptions      []string `json:"view_options"`
	Amenities        []string `json:"amenities"`
}

type HotelInfoResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type AmenityInfo struct {
	Name   string `json:"name"`
	Answer string `json:"answer"`
}
