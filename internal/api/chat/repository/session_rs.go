package chatRepository

import (
	"SunsetBayBot/internal/api/chat"
	"SunsetBayBot/internal/entity"
	contextPkg "SunsetBayBot/pkg/context"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ChatSessionDB struct {
	ID           string    `db:"id"`
	BookingState string    `db:"booking_state"`
	Slots        string    `db:"slots"`
	LastIntent   string    `db:"last_intent"`
	TurnCount    int       `db:"turn_count"`
	CreatedAt    time.Time `db:"created_at"`
	LastActivity time.Time `db:"last_activity"`
}

func (r *sessionRepository) UpsertSession(ctx context.Context, session entity.ChatSession) error {
	requestID := contextPkg.GetRequestID(ctx)

	slotsJSON, err := json.Marshal(session.Slots)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal session slots")
		return err
	}

	argsKV := map[string]interface{}{
		"id":            session.ID,
		"booking_state": session.BookingState,
		"slots":         string(slotsJSON),
		"last_intent":   session.LastIntent,
		"turn_count":    session.TurnCount,
		"created_at":    session.CreatedAt,
		"last_activity": session.LastActivity,
	}

	query, args, err := sqlx.Named(queryUpsertSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpsertSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpsertSession execution err")
		return err
	}

	return nil
}

func (r *sessionRepository) GetSessionByID(ctx context.Context, id string) (entity.ChatSession, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var sessionDB ChatSessionDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetSessionByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByID named query preparation err")
		return entity.ChatSession{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&sessionDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ChatSession{}, chat.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByID execution err")
		return entity.ChatSession{}, err
	}

	return r.makeChatSession(requestID, sessionDB), nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteSession execution err")
		return err
	}

	return nil
}

func (r *sessionRepository) CleanupIdleSessions(ctx context.Context, cutoff time.Time) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"cutoff_time": cutoff,
	}

	query, args, err := sqlx.Named(queryDeleteIdleSessions, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CleanupIdleSessions named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CleanupIdleSessions execution err")
		return err
	}

	if rowsAffected, err := result.RowsAffected(); err == nil && rowsAffected > 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"removed":    rowsAffected,
		}).Debug("CleanupIdleSessions removed idle sessions")
	}

	return nil
}

func (r *sessionRepository) makeChatSession(requestID string, sessionDB ChatSessionDB) entity.ChatSession {
	slots := map[string]string{}
	if sessionDB.Slots != "" {
		if err := json.Unmarshal([]byte(sessionDB.Slots), &slots); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to unmarshal session slots, using empty set")
			slots = map[string]string{}
		}
	}

	return entity.ChatSession{
		ID:           sessionDB.ID,
		BookingState: sessionDB.BookingState,
		Slots:        slots,
		LastIntent:   sessionDB.LastIntent,
		TurnCount:    sessionDB.TurnCount,
		CreatedAt:    sessionDB.CreatedAt,
		LastActivity: sessionDB.LastActivity,
	}
}
