package chatService

import (
	"context"
	"encoding/json"
	"time"

	"SunsetBayBot/internal/api/chat"
	"SunsetBayBot/internal/entity"
	contextPkg "SunsetBayBot/pkg/context"
	"SunsetBayBot/pkg/dialogue"
	"SunsetBayBot/pkg/log"
	"SunsetBayBot/pkg/nlp"
)

// ProcessMessage runs one full conversational turn: gate the input, resolve
// the intent, extract and merge entities, advance the booking state and
// render a reply. Storage failures degrade to memory-only operation; the
// guest always gets an answer.
func (s *chatService) ProcessMessage(ctx context.Context, req chat.MessageRequest) (*chat.MessageResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.utils.NewSessionID()
	}

	message := s.utils.TruncateMessage(req.Message, s.config.MaxMessageLength)

	sess := s.getOrCreateSession(ctx, sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastActivity = time.Now()

	verdict := s.validator.Validate(message)
	if !verdict.Accepted {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"reason":     verdict.Reason,
		}).Debug("Message rejected by input gate")

		prediction := nlp.IntentPrediction{
			Intent:     nlp.FallbackIntent,
			Confidence: 0,
			Source:     nlp.SourceNone,
		}
		sess.conversation.RecordTurn(dialogue.SpeakerGuest, message, prediction.Intent)
		sess.conversation.RecordTurn(dialogue.SpeakerBot, verdict.Message, "")
		s.persistTurn(ctx, sessionID, sess, message, prediction, nil, verdict.Message)

		return s.makeMessageResponse(sessionID, sess, prediction, nil, verdict, verdict.Message), nil
	}

	prediction := s.resolver.Resolve(message)

	var entities nlp.EntitySet
	if prediction.Intent != nlp.FallbackIntent {
		entities = s.extractor.Extract(message)
		sess.conversation.Merge(entities)
	}

	if prediction.Intent == "confirm" {
		s.applyConfirmation(sess.conversation, &prediction)
	}

	sess.conversation.RecordTurn(dialogue.SpeakerGuest, message, prediction.Intent)

	reply := s.renderer.Render(prediction.Intent, entities, sess.conversation)
	sess.conversation.RecordTurn(dialogue.SpeakerBot, reply, "")

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"intent":     prediction.Intent,
		"confidence": prediction.Confidence,
		"source":     prediction.Source,
		"state":      sess.conversation.State(),
	}).Info("Processed chat turn")

	s.persistTurn(ctx, sessionID, sess, message, prediction, entities, reply)

	return s.makeMessageResponse(sessionID, sess, prediction, entities, verdict, reply), nil
}

// applyConfirmation promotes the booking to confirmed only when there is a
// complete set of details to confirm, assigning a booking reference on the
// way. A stray "yes" on an empty or idle conversation is downgraded to the
// fallback reply instead.
func (s *chatService) applyConfirmation(conversation *dialogue.ConversationContext, prediction *nlp.IntentPrediction) {
	if conversation.State() == dialogue.StateReadyToQuote {
		if _, ok := conversation.Slot(nlp.SlotReservationID); !ok {
			conversation.Merge(nlp.EntitySet{nlp.SlotReservationID: s.utils.NewReservationID()})
		}
		conversation.Confirm()
		return
	}
	if conversation.State() == dialogue.StateIdle {
		prediction.Intent = nlp.FallbackIntent
	}
}

// Analyze runs the stateless half of the pipeline for a single utterance.
// Nothing is stored and no session is touched.
func (s *chatService) Analyze(ctx context.Context, req chat.AnalyzeRequest) (*chat.AnalyzeResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	verdict := s.validator.Validate(req.Text)

	resp := &chat.AnalyzeResponse{
		Input:       req.Text,
		CleanedText: nlp.CleanText(req.Text),
		Validation:  verdict,
		Prediction: nlp.IntentPrediction{
			Intent:     nlp.FallbackIntent,
			Confidence: 0,
			Source:     nlp.SourceNone,
		},
	}

	if verdict.Accepted {
		resp.Prediction = s.resolver.Resolve(req.Text)
		resp.Candidates = s.resolver.TopK(req.Text, 3)
		resp.Entities = s.extractor.Extract(req.Text)
	}

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"intent":     resp.Prediction.Intent,
		"source":     resp.Prediction.Source,
	}).Debug("Analyzed utterance")

	return resp, nil
}

func (s *chatService) makeMessageResponse(
	sessionID string,
	sess *session,
	prediction nlp.IntentPrediction,
	entities nlp.EntitySet,
	verdict nlp.ValidationVerdict,
	reply string,
) *chat.MessageResponse {
	return &chat.MessageResponse{
		SessionID:      sessionID,
		Reply:          reply,
		Intent:         prediction.Intent,
		Confidence:     prediction.Confidence,
		Source:         prediction.Source,
		Entities:       entities,
		BookingState:   string(sess.conversation.State()),
		ContextSummary: sess.conversation.Summary(),
		Validation:     verdict,
	}
}

// persistTurn writes the turn and the refreshed session row, best effort.
// A dead database or cache never fails the conversation.
func (s *chatService) persistTurn(
	ctx context.Context,
	sessionID string,
	sess *session,
	message string,
	prediction nlp.IntentPrediction,
	entities nlp.EntitySet,
	reply string,
) {
	requestID := contextPkg.GetRequestID(ctx)
	now := time.Now()
	snapshot := sess.conversation.Snapshot()

	s.cacheSnapshot(ctx, sessionID, snapshot)

	if s.chatRepo == nil {
		return
	}

	client, err := s.chatRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Persistence unavailable, continuing memory-only")
		return
	}
	defer client.Rollback()

	turnID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to generate turn id, skipping persistence")
		return
	}

	turn := entity.ChatTurn{
		ID:         turnID,
		SessionID:  sessionID,
		Message:    message,
		Intent:     prediction.Intent,
		Confidence: prediction.Confidence,
		Source:     string(prediction.Source),
		Entities:   entities,
		Response:   reply,
		CreatedAt:  now,
	}

	if err := client.Turns.CreateTurn(ctx, turn); err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Failed to persist chat turn")
		return
	}

	sessionRow := entity.ChatSession{
		ID:           sessionID,
		BookingState: string(snapshot.State),
		Slots:        snapshot.Slots,
		LastIntent:   snapshot.LastIntent,
		TurnCount:    snapshot.Turns,
		CreatedAt:    sess.createdAt,
		LastActivity: now,
	}

	if err := client.Sessions.UpsertSession(ctx, sessionRow); err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Failed to persist chat session")
		return
	}

	if err := client.Commit(); err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Failed to commit chat turn")
	}
}

func (s *chatService) cacheSnapshot(ctx context.Context, sessionID string, snapshot dialogue.Snapshot) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := s.redis.SetSnapshot(ctx, sessionID, string(raw), s.config.SnapshotTTL); err != nil {
		s.log.WithFields(log.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Debug("Failed to cache context snapshot")
	}
}
