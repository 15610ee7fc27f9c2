package chatHandler

import (
	chatService "SunsetBayBot/internal/api/chat/service"
	"SunsetBayBot/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	chatService chatService.IChatService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs chatService.IChatService,
) *ChatHandler {
	return &ChatHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		chatService: cs,
	}
}

func (h *ChatHandler) Start(srv fiber.Router) {
	chat := srv.Group("/chat")

	// Conversation endpoints
	chat.Post("/message", h.ProcessMessage)
	chat.Post("/analyze", h.Analyze)

	// Session endpoints
	chat.Post("/sessions/:session_id/reset", h.ResetSession)
	chat.Get("/sessions/:session_id/context", h.GetContext)
	chat.Get("/sessions/:session_id/history", h.GetHistory)

	// Knowledge base endpoints
	chat.Get("/intents", h.ListIntents)
	chat.Get("/rooms", h.ListRooms)
	chat.Get("/amenities", h.ListAmenities)
	chat.Get("/hotel", h.HotelInfo)
}
