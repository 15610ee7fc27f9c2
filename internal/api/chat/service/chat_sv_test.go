package chatService

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SunsetBayBot/internal/api/chat"
	"SunsetBayBot/pkg/hotel"
	"SunsetBayBot/pkg/nlp"
	"SunsetBayBot/pkg/utils"
)

// newTestService builds the full pipeline without a database or cache, the
// same degraded mode the server falls into when neither is reachable.
func newTestService(t *testing.T) IChatService {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	knowledge, err := hotel.LoadDefault()
	require.NoError(t, err)

	samples := make([]nlp.TrainingSample, 0, len(knowledge.TrainingRows))
	for _, row := range knowledge.TrainingRows {
		samples = append(samples, nlp.TrainingSample{Text: row.Utterance, Intent: row.Intent})
	}
	classifier, err := nlp.NewClassifier(samples)
	require.NoError(t, err)

	keywords := nlp.NewKeywordMatcher()
	resolver := nlp.NewIntentResolver(classifier, keywords)

	return New(logger, nil, nil, utils.New(), knowledge, resolver, keywords, nil)
}

func TestProcessMessageBookingFlow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.ProcessMessage(ctx, chat.MessageRequest{
		SessionID: "flow-1",
		Message:   "Do you have rooms available for 2026-12-10?",
	})
	require.NoError(t, err)
	assert.Equal(t, "inquire_availability", resp.Intent)
	assert.NotEqual(t, nlp.SourceNone, resp.Source)
	assert.Equal(t, "collecting_details", resp.BookingState)
	assert.Contains(t, resp.ContextSummary, "2026-12-10")

	resp, err = svc.ProcessMessage(ctx, chat.MessageRequest{
		SessionID: "flow-1",
		Message:   "I want to book a deluxe room for 2 adults and 1 child for 3 nights",
	})
	require.NoError(t, err)
	assert.Equal(t, "make_reservation", resp.Intent)
	assert.Equal(t, "ready_to_quote", resp.BookingState)
	assert.Contains(t, resp.ContextSummary, "room: Deluxe King Room")
	assert.Contains(t, resp.ContextSummary, "guests: 3")

	resp, err = svc.ProcessMessage(ctx, chat.MessageRequest{
		SessionID: "flow-1",
		Message:   "yes please go ahead",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirm", resp.Intent)
	assert.Equal(t, "confirmed", resp.BookingState)
	assert.Contains(t, resp.Reply, "confirmed")
	assert.Contains(t, resp.ContextSummary, "reservation:")
}

func TestProcessMessageConfirmWithoutBooking(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.ProcessMessage(context.Background(), chat.MessageRequest{
		SessionID: "stray-yes",
		Message:   "yes",
	})
	require.NoError(t, err)
	assert.Equal(t, nlp.FallbackIntent, resp.Intent)
	assert.Equal(t, "idle", resp.BookingState)
}

func TestProcessMessageRejectsGibberish(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.ProcessMessage(context.Background(), chat.MessageRequest{
		SessionID: "gibberish-1",
		Message:   "12345",
	})
	require.NoError(t, err)
	assert.False(t, resp.Validation.Accepted)
	assert.Equal(t, nlp.ReasonGibberishPattern, resp.Validation.Reason)
	assert.Equal(t, nlp.FallbackIntent, resp.Intent)
	assert.Equal(t, nlp.SourceNone, resp.Source)
	assert.Zero(t, resp.Confidence)
	assert.NotEmpty(t, resp.Reply)
}

func TestProcessMessageGeneratesSessionID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.ProcessMessage(ctx, chat.MessageRequest{Message: "hello"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "greet", resp.Intent)

	// The generated id addresses the same conversation on the next turn.
	next, err := svc.ProcessMessage(ctx, chat.MessageRequest{
		SessionID: resp.SessionID,
		Message:   "i want to book a room for 2 nights",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, next.SessionID)
	assert.Contains(t, next.ContextSummary, "nights: 2")
}

func TestAnalyze(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Analyze(context.Background(), chat.AnalyzeRequest{
		Text: "How much is a deluxe room?",
	})
	require.NoError(t, err)
	assert.True(t, resp.Validation.Accepted)
	assert.Equal(t, "how much is a deluxe room", resp.CleanedText)
	assert.Equal(t, "inquire_price", resp.Prediction.Intent)
	assert.NotEmpty(t, resp.Candidates)
	assert.LessOrEqual(t, len(resp.Candidates), 3)
	assert.Equal(t, "DLX", resp.Entities[nlp.SlotRoomCode])
}

func TestAnalyzeRejectedInput(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Analyze(context.Background(), chat.AnalyzeRequest{Text: "zxqwv"})
	require.NoError(t, err)
	assert.False(t, resp.Validation.Accepted)
	assert.Equal(t, nlp.FallbackIntent, resp.Prediction.Intent)
	assert.Empty(t, resp.Candidates)
	assert.Empty(t, resp.Entities)
}

func TestResetSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.ProcessMessage(ctx, chat.MessageRequest{
		SessionID: "reset-1",
		Message:   "i want to book a deluxe room for 3 nights",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ResetSession(ctx, "reset-1"))

	got, err := svc.GetContext(ctx, "reset-1")
	require.NoError(t, err)
	assert.Equal(t, "idle", got.BookingState)
	assert.Empty(t, got.Slots)
	assert.Equal(t, 0, got.TurnCount)
}

func TestResetSessionUnknownID(t *testing.T) {
	svc := newTestService(t)

	err := svc.ResetSession(context.Background(), "never-seen")
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestGetContextUnknownSession(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetContext(context.Background(), "never-seen")
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestGetHistoryWithoutDatabase(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetHistory(context.Background(), "any", 1, 20)
	assert.ErrorIs(t, err, chat.ErrHistoryUnavailable)
}

func TestCatalogEndpoints(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	intents := svc.ListIntents(ctx)
	assert.Len(t, intents, 29)

	rooms := svc.ListRooms(ctx)
	require.Len(t, rooms, 4)

	amenities := svc.ListAmenities(ctx)
	require.Len(t, amenities, 10)
	assert.Equal(t, "airport shuttle", amenities[0].Name)

	info := svc.HotelInfo(ctx)
	assert.Equal(t, "Sunset Bay Hotel", info.Name)
	assert.NotEmpty(t, info.Phone)
}
