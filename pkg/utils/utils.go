package utils

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	NewSessionID() string
	NewReservationID() string
	TruncateMessage(message string, max int) string
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) NewSessionID() string {
	return uuid.NewString()
}

// NewReservationID returns a short hex booking reference.
func (u *utils) NewReservationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// TruncateMessage caps a message for storage and logging without splitting
// the cut across a word when it can help it.
func (u *utils) TruncateMessage(message string, max int) string {
	message = strings.TrimSpace(message)
	if max <= 0 || len(message) <= max {
		return message
	}
	cut := message[:max]
	if idx := strings.LastIndexByte(cut, ' '); idx > max/2 {
		cut = cut[:idx]
	}
	return cut
}
