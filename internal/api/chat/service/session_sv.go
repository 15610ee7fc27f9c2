package chatService

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"SunsetBayBot/internal/api/chat"
	contextPkg "SunsetBayBot/pkg/context"
	"SunsetBayBot/pkg/dialogue"
	"SunsetBayBot/pkg/log"
	"SunsetBayBot/pkg/nlp"
)

// getOrCreateSession returns the live session for an id, rehydrating it
// from the snapshot cache or the database when this instance has never
// seen the id before.
func (s *chatService) getOrCreateSession(ctx context.Context, sessionID string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	conversation := s.rehydrate(ctx, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[sessionID]; ok {
		return existing
	}

	now := time.Now()
	sess = &session{
		conversation: conversation,
		createdAt:    now,
		lastActivity: now,
	}
	s.sessions[sessionID] = sess
	s.sweepIdleSessionsLocked(now)
	return sess
}

func (s *chatService) rehydrate(ctx context.Context, sessionID string) *dialogue.ConversationContext {
	requestID := contextPkg.GetRequestID(ctx)

	if s.redis != nil {
		if raw, err := s.redis.GetSnapshot(ctx, sessionID); err == nil && raw != "" {
			var snapshot dialogue.Snapshot
			if err := json.Unmarshal([]byte(raw), &snapshot); err == nil {
				return dialogue.Restore(snapshot)
			}
		}
	}

	if s.chatRepo != nil {
		client, err := s.chatRepo.NewClient(false)
		if err == nil {
			row, err := client.Sessions.GetSessionByID(ctx, sessionID)
			if err == nil {
				s.log.WithFields(log.Fields{
					"request_id": requestID,
					"session_id": sessionID,
				}).Debug("Rehydrated session from database")
				return dialogue.Restore(dialogue.Snapshot{
					Slots:      row.Slots,
					State:      dialogue.BookingState(row.BookingState),
					LastIntent: row.LastIntent,
					Turns:      row.TurnCount,
				})
			}
		}
	}

	return dialogue.NewConversationContext()
}

// janitor prunes stored sessions that have sat idle past the TTL. It runs
// for the life of the process; live sessions are swept separately.
func (s *chatService) janitor() {
	ticker := time.NewTicker(s.config.SessionTTL / 2)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		s.cleanupStoredSessions(ctx)
		cancel()
	}
}

func (s *chatService) cleanupStoredSessions(ctx context.Context) {
	client, err := s.chatRepo.NewClient(false)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-s.config.SessionTTL)
	if err := client.Sessions.CleanupIdleSessions(ctx, cutoff); err != nil {
		s.log.WithFields(log.Fields{
			"error": err.Error(),
		}).Warn("Failed to prune stored sessions")
	}
}

// sweepIdleSessionsLocked drops sessions that have been idle past the TTL.
// Caller holds s.mu.
func (s *chatService) sweepIdleSessionsLocked(now time.Time) {
	cutoff := now.Add(-s.config.SessionTTL)
	for id, sess := range s.sessions {
		if sess.lastActivity.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// ResetSession forgets everything about a session: the live context, the
// cached snapshot and the stored rows. The session id stays valid and the
// next message starts a fresh conversation.
func (s *chatService) ResetSession(ctx context.Context, sessionID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if ok {
		sess.mu.Lock()
		sess.conversation.Reset()
		sess.lastActivity = time.Now()
		sess.mu.Unlock()
	} else if !s.sessionExists(ctx, sessionID) {
		return chat.ErrSessionNotFound
	}

	if s.redis != nil {
		if err := s.redis.DeleteSnapshot(ctx, sessionID); err != nil {
			s.log.WithFields(log.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Debug("Failed to drop cached snapshot")
		}
	}

	if s.chatRepo != nil {
		client, err := s.chatRepo.NewClient(true)
		if err != nil {
			s.log.WithFields(log.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Persistence unavailable during reset")
			return nil
		}
		defer client.Rollback()

		if err := client.Turns.DeleteTurnsBySessionID(ctx, sessionID); err != nil {
			s.log.WithFields(log.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Failed to delete stored turns during reset")
			return nil
		}
		if err := client.Sessions.DeleteSession(ctx, sessionID); err != nil {
			s.log.WithFields(log.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Failed to delete stored session during reset")
			return nil
		}
		if err := client.Commit(); err != nil {
			s.log.WithFields(log.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Failed to commit session reset")
		}
	}

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}).Info("Session reset")

	return nil
}

func (s *chatService) sessionExists(ctx context.Context, sessionID string) bool {
	if s.chatRepo == nil {
		return false
	}
	client, err := s.chatRepo.NewClient(false)
	if err != nil {
		return false
	}
	_, err = client.Sessions.GetSessionByID(ctx, sessionID)
	return err == nil
}

func (s *chatService) GetContext(ctx context.Context, sessionID string) (*chat.ContextResponse, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		if !s.sessionExists(ctx, sessionID) {
			return nil, chat.ErrSessionNotFound
		}
		sess = s.getOrCreateSession(ctx, sessionID)
	}

	sess.mu.Lock()
	snapshot := sess.conversation.Snapshot()
	summary := sess.conversation.Summary()
	sess.mu.Unlock()

	return &chat.ContextResponse{
		SessionID:    sessionID,
		BookingState: string(snapshot.State),
		Slots:        snapshot.Slots,
		History:      snapshot.History,
		LastIntent:   snapshot.LastIntent,
		TurnCount:    snapshot.Turns,
		Summary:      summary,
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, sessionID string, page, limit int) (*chat.HistoryResponse, error) {
	if s.chatRepo == nil {
		return nil, chat.ErrHistoryUnavailable
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	client, err := s.chatRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	turns, total, err := client.Turns.GetTurnsBySessionID(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}

	history := make([]chat.TurnHistory, 0, len(turns))
	for _, turn := range turns {
		history = append(history, chat.TurnHistory{
			ID:         turn.ID,
			Message:    turn.Message,
			Intent:     turn.Intent,
			Confidence: turn.Confidence,
			Source:     turn.Source,
			Entities:   turn.Entities,
			Reply:      turn.Response,
			CreatedAt:  turn.CreatedAt,
		})
	}

	return &chat.HistoryResponse{
		SessionID: sessionID,
		Turns:     history,
		Total:     total,
	}, nil
}

func (s *chatService) ListIntents(ctx context.Context) []chat.IntentInfo {
	names := s.keywords.Intents()
	sort.Strings(names)

	intents := make([]chat.IntentInfo, 0, len(names)+1)
	for _, name := range names {
		intents = append(intents, chat.IntentInfo{Name: name})
	}
	intents = append(intents, chat.IntentInfo{Name: nlp.FallbackIntent})
	return intents
}

func (s *chatService) ListRooms(ctx context.Context) []chat.RoomInfo {
	rooms := make([]chat.RoomInfo, 0, len(s.knowledge.RoomTypes))
	for _, room := range s.knowledge.RoomTypes {
		rooms = append(rooms, chat.RoomInfo{
			Code:             room.Code,
			Name:             room.Name,
			Capacity:         room.Capacity,
			Beds:             room.Beds,
			BasePriceWeekday: room.BasePriceWeekday,
			BasePriceWeekend: room.BasePriceWeekend,
			ViewOptions:      room.ViewOptions,
			Amenities:        room.Amenities,
		})
	}
	return rooms
}

func (s *chatService) ListAmenities(ctx context.Context) []chat.AmenityInfo {
	names := s.knowledge.AmenityNames()

	amenities := make([]chat.AmenityInfo, 0, len(names))
	for _, name := range names {
		answer, _ := s.knowledge.AmenityAnswer(name)
		amenities = append(amenities, chat.AmenityInfo{Name: name, Answer: answer})
	}
	return amenities
}

func (s *chatService) HotelInfo(ctx context.Context) chat.HotelInfoResponse {
	return chat.HotelInfoResponse{
		Name:    s.knowledge.Metadata.Name,
		Address: s.knowledge.Metadata.Address,
		Phone:   s.knowledge.Metadata.Phone,
		Email:   s.knowledge.Metadata.Email,
	}
}
