package chatService

import (
	"context"
	"sync"
	"time"

	"SunsetBayBot/internal/api/chat"
	chatRepository "SunsetBayBot/internal/api/chat/repository"
	"SunsetBayBot/pkg/dialogue"
	"SunsetBayBot/pkg/hotel"
	"SunsetBayBot/pkg/nlp"
	"SunsetBayBot/pkg/redis"
	"SunsetBayBot/pkg/utils"

	"github.com/sirupsen/logrus"
)

type IChatService interface {
	ProcessMessage(ctx context.Context, req chat.MessageRequest) (*chat.MessageResponse, error)
	Analyze(ctx context.Context, req chat.AnalyzeRequest) (*chat.AnalyzeResponse, error)

	ResetSession(ctx context.Context, sessionID string) error
	GetContext(ctx context.Context, sessionID string) (*chat.ContextResponse, error)
	GetHistory(ctx context.Context, sessionID string, page, limit int) (*chat.HistoryResponse, error)

	ListIntents(ctx context.Context) []chat.IntentInfo
	ListRooms(ctx context.Context) []chat.RoomInfo
	ListAmenities(ctx context.Context) []chat.AmenityInfo
	HotelInfo(ctx context.Context) chat.HotelInfoResponse
}

// session pairs a conversation context with the lock that serializes its
// turns. Concurrent requests for different sessions proceed in parallel;
// two requests for the same session are processed one at a time.
type session struct {
	mu           sync.Mutex
	conversation *dialogue.ConversationContext
	createdAt    time.Time
	lastActivity time.Time
}

type ChatConfig struct {
	SessionTTL       time.Duration
	SnapshotTTL      time.Duration
	MaxMessageLength int
}

func DefaultChatConfig() *ChatConfig {
	return &ChatConfig{
		SessionTTL:       24 * time.Hour,
		SnapshotTTL:      24 * time.Hour,
		MaxMessageLength: 1000,
	}
}

type chatService struct {
	log       *logrus.Logger
	chatRepo  chatRepository.Repository
	redis     redis.IRedis
	utils     utils.IUtils
	knowledge *hotel.Knowledge

	validator *nlp.InputValidator
	resolver  *nlp.IntentResolver
	keywords  *nlp.KeywordMatcher
	extractor *nlp.EntityExtractor
	renderer  *dialogue.Renderer

	config *ChatConfig

	mu       sync.RWMutex
	sessions map[string]*session
}

// New wires the full pipeline. chatRepo and redisClient may be nil; the
// service then runs memory-only and every turn still gets a reply.
func New(
	log *logrus.Logger,
	chatRepo chatRepository.Repository,
	redisClient redis.IRedis,
	util utils.IUtils,
	knowledge *hotel.Knowledge,
	resolver *nlp.IntentResolver,
	keywords *nlp.KeywordMatcher,
	config *ChatConfig,
) IChatService {
	if config == nil {
		config = DefaultChatConfig()
	}

	validator := nlp.NewInputValidator()
	validator.AddDomainKeywords(domainKeywords(knowledge))

	svc := &chatService{
		log:       log,
		chatRepo:  chatRepo,
		redis:     redisClient,
		utils:     util,
		knowledge: knowledge,
		validator: validator,
		resolver:  resolver,
		keywords:  keywords,
		extractor: nlp.NewEntityExtractor(knowledge),
		renderer:  dialogue.NewRenderer(knowledge),
		config:    config,
		sessions:  make(map[string]*session),
	}

	if chatRepo != nil {
		go svc.janitor()
	}

	return svc
}

// domainKeywords widens the validator's vocabulary with the room and
// amenity names from the catalog so "do you have a sauna" is not flagged
// as off topic just because the base list never heard of it.
func domainKeywords(knowledge *hotel.Knowledge) []string {
	var words []string
	for _, room := range knowledge.RoomTypes {
		words = append(words, nlp.Tokenize(room.Name)...)
	}
	for _, amenity := range knowledge.AmenityNames() {
		words = append(words, nlp.Tokenize(amenity)...)
	}
	return words
}
