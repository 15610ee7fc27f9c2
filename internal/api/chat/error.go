package chat

import "SunsetBayBot/pkg/response"

var (
	ErrSessionNotFound     = response.NewError(404, "session not found")
	ErrEmptyMessage        = response.NewError(400, "message must not be empty")
	ErrMessageTooLong      = response.NewError(400, "message exceeds maximum length")
	ErrPipelineUnavailable = response.NewError(503, "language pipeline is not ready")
	ErrHistoryUnavailable  = response.NewError(503, "turn history storage is not available")
)
