package entity

import (
	"time"
)

type ChatSession struct {
	ID           string            `json:"id"`
	BookingState string            `json:"booking_state"`
	Slots        map[string]string `json:"slots"`
	LastIntent   string            `json:"last_intent"`
	TurnCount    int               `json:"turn_count"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActivity time.Time         `json:"last_activity"`
}

type ChatTurn struct {
	ID         string            `json:"id"`
	SessionID  string            `json:"session_id"`
	Message    string            `json:"message"`
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Source     string            `json:"source"`
	Entities   map[string]string `json:"entities"`
	Response   string            `json:"response"`
	CreatedAt  time.Time         `json:"created_at"`
}
