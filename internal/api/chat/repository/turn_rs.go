package chatRepository

import (
	"SunsetBayBot/internal/entity"
	contextPkg "SunsetBayBot/pkg/context"
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ChatTurnDB struct {
	ID         string    `db:"id"`
	SessionID  string    `db:"session_id"`
	Message    string    `db:"message"`
	Intent     string    `db:"intent"`
	Confidence float64   `db:"confidence"`
	Source     string    `db:"source"`
	Entities   string    `db:"entities"`
	Response   string    `db:"response"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *turnRepository) CreateTurn(ctx context.Context, turn entity.ChatTurn) error {
	requestID := contextPkg.GetRequestID(ctx)

	entitiesJSON, err := json.Marshal(turn.Entities)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal turn entities")
		return err
	}

	argsKV := map[string]interface{}{
		"id":         turn.ID,
		"session_id": turn.SessionID,
		"message":    turn.Message,
		"intent":     turn.Intent,
		"confidence": turn.Confidence,
		"source":     turn.Source,
		"entities":   string(entitiesJSON),
		"response":   turn.Response,
		"created_at": turn.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateTurn, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateTurn named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateTurn execution err")
		return err
	}

	return nil
}

func (r *turnRepository) GetTurnsBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]entity.ChatTurn, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"session_id": sessionID,
		"limit":      limit,
		"offset":     offset,
	}

	query, args, err := sqlx.Named(queryGetTurnsBySessionID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTurnsBySessionID named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	var turnsDB []ChatTurnDB
	if err := r.q.SelectContext(ctx, &turnsDB, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTurnsBySessionID execution err")
		return nil, 0, err
	}

	countQuery, countArgs, err := sqlx.Named(queryCountTurnsBySessionID, map[string]interface{}{
		"session_id": sessionID,
	})
	if err != nil {
		return nil, 0, err
	}
	countQuery = r.q.Rebind(countQuery)

	var total int
	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTurnsBySessionID count err")
		return nil, 0, err
	}

	turns := make([]entity.ChatTurn, 0, len(turnsDB))
	for _, turnDB := range turnsDB {
		turns = append(turns, r.makeChatTurn(requestID, turnDB))
	}

	return turns, total, nil
}

func (r *turnRepository) DeleteTurnsBySessionID(ctx context.Context, sessionID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"session_id": sessionID,
	}

	query, args, err := sqlx.Named(queryDeleteTurnsBySessionID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteTurnsBySessionID named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteTurnsBySessionID execution err")
		return err
	}

	return nil
}

func (r *turnRepository) makeChatTurn(requestID string, turnDB ChatTurnDB) entity.ChatTurn {
	entities := map[string]string{}
	if turnDB.Entities != "" {
		if err := json.Unmarshal([]byte(turnDB.Entities), &entities); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to unmarshal turn entities, using empty set")
			entities = map[string]string{}
		}
	}

	return entity.ChatTurn{
		ID:         turnDB.ID,
		SessionID:  turnDB.SessionID,
		Message:    turnDB.Message,
		Intent:     turnDB.Intent,
		Confidence: turnDB.Confidence,
		Source:     turnDB.Source,
		Entities:   entities,
		Response:   turnDB.Response,
		CreatedAt:  turnDB.CreatedAt,
	}
}
