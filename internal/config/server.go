package config

import (
	"SunsetBayBot/database/postgres"
	chatHandler "SunsetBayBot/internal/api/chat/handler"
	chatRepository "SunsetBayBot/internal/api/chat/repository"
	chatService "SunsetBayBot/internal/api/chat/service"
	"SunsetBayBot/internal/middleware"
	"SunsetBayBot/pkg/hotel"
	"SunsetBayBot/pkg/nlp"
	"SunsetBayBot/pkg/redis"
	"SunsetBayBot/pkg/utils"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	redisServer redis.IRedis
	knowledge   *hotel.Knowledge
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.knowledge == nil {
		return nil, fmt.Errorf("hotel knowledge base is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase connects to Postgres. An unreachable database is logged and
// left nil; the chat service then runs memory-only instead of refusing to
// start.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Warnf("Database unavailable, running memory-only: %v", err)
			}
			return nil
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

// WithKnowledge loads the hotel knowledge base. File paths come from the
// environment; unset paths fall back to the embedded defaults.
func WithKnowledge() ServerOption {
	return func(s *Server) error {
		knowledge, err := hotel.Load(hotel.Paths{
			HotelInfo:         os.Getenv("HOTEL_INFO_FILE"),
			RoomTypes:         os.Getenv("ROOM_TYPES_FILE"),
			AmenityFAQ:        os.Getenv("AMENITY_FAQ_FILE"),
			ResponseTemplates: os.Getenv("RESPONSE_TEMPLATES_FILE"),
			TrainingData:      os.Getenv("TRAINING_DATA_FILE"),
		})
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to load hotel knowledge base: %v", err)
			}
			return fmt.Errorf("failed to load hotel knowledge base: %w", err)
		}
		s.knowledge = knowledge
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Language pipeline. A failed classifier training run degrades the
	// resolver to keyword-only matching.
	samples := make([]nlp.TrainingSample, 0, len(s.knowledge.TrainingRows))
	for _, row := range s.knowledge.TrainingRows {
		samples = append(samples, nlp.TrainingSample{Text: row.Utterance, Intent: row.Intent})
	}

	classifier, err := nlp.NewClassifier(samples)
	if err != nil {
		s.log.Warnf("Classifier training failed, keyword matching only: %v", err)
		classifier = nil
	}

	keywords := nlp.NewKeywordMatcher()
	resolver := nlp.NewIntentResolver(classifier, keywords)

	// Chat Domain
	var chatRepo chatRepository.Repository
	if s.db != nil {
		chatRepo = chatRepository.New(s.db, s.log)
	}
	chatServices := chatService.New(s.log, chatRepo, s.redisServer, s.utils, s.knowledge, resolver, keywords, chatService.DefaultChatConfig())
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, chatServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, chatHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	router.Use(s.middleware.NewRateLimiter)

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
