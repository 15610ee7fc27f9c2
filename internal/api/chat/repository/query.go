package chatRepository

const (
	queryUpsertSession = `
		INSERT INTO chat_sessions (
			id, booking_state, slots, last_intent,
			turn_count, created_at, last_activity
		) VALUES (
			:id, :booking_state, :slots, :last_intent,
			:turn_count, :created_at, :last_activity
		)
		ON CONFLICT (id) DO UPDATE SET
			booking_state = EXCLUDED.booking_state,
			slots = EXCLUDED.slots,
			last_intent = EXCLUDED.last_intent,
			turn_count = EXCLUDED.turn_count,
			last_activity = EXCLUDED.last_activity
	`

	queryGetSessionByID = `
		SELECT
			id, booking_state, slots, last_intent,
			turn_count, created_at, last_activity
		FROM chat_sessions
		WHERE id = :id
	`

	queryDeleteSession = `
		DELETE FROM chat_sessions
		WHERE id = :id
	`

	queryDeleteIdleSessions = `
		DELETE FROM chat_sessions
		WHERE last_activity < :cutoff_time
	`

	queryCreateTurn = `
		INSERT INTO chat_turns (
			id, session_id, message, intent, confidence,
			source, entities, response, created_at
		) VALUES (
			:id, :session_id, :message, :intent, :confidence,
			:source, :entities, :response, :created_at
		)
	`

	queryGetTurnsBySessionID = `
		SELECT
			id, session_id, message, intent, confidence,
			source, entities, response, created_at
		FROM chat_turns
		WHERE session_id = :session_id
		ORDER BY created_at ASC
		LIMIT :limit OFFSET :offset
	`

	queryCountTurnsBySessionID = `
		SELECT COUNT(*)
		FROM chat_turns
		WHERE session_id = :session_id
	`

	queryDeleteTurnsBySessionID = `
		DELETE FROM chat_turns
		WHERE session_id = :session_id
	`
)
