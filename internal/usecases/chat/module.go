package chat

import (
	"log/slog"
	"time"

	"github.com/kimblewick/MiraAI/internal/ports/cache"
	"github.com/kimblewick/MiraAI/internal/ports/events"
	"github.com/kimblewick/MiraAI/internal/ports/repository"
	"github.com/kimblewick/MiraAI/internal/ports/service"
	"github.com/kimblewick/MiraAI/internal/ports/storage"
)

const (
	// turnTTL срок хранения хода до вычистки ретеншеном
	turnTTL = 30 * 24 * time.Hour

	defaultChartCacheTTLDays = 30
	defaultChartEpochDays    = 1

	presignExpiry = 1 * time.Hour
)

// Config настройки кеша карт: TTL записи и окно эпохи фингерпринта.
// Окно эпохи определяет, как часто карта пересчитывается для тех же
// данных рождения (транзиты меняются со временем)
type Config struct {
	CacheTTLDays int `envconfig:"TTL_DAYS" default:"30"`
	EpochDays    int `envconfig:"EPOCH_DAYS" default:"1"`
}

// Service бизнес-логика диалогового контура
type Service struct {
	ProfileRepo      repository.IProfileRepo
	ConversationRepo repository.IConversationRepo
	Cache            cache.Cache
	AstroService     service.IAstroAPIService
	LLMService       service.ILLMService
	S3               storage.IS3Client
	Producer         events.IEventProducer
	Log              *slog.Logger

	cacheTTL time.Duration
	epoch    time.Duration
}

// New создаёт новый сервис диалогового контура
func New(
	profileRepo repository.IProfileRepo,
	conversationRepo repository.IConversationRepo,
	cacheClient cache.Cache,
	astroService service.IAstroAPIService,
	llmService service.ILLMService,
	s3Client storage.IS3Client,
	producer events.IEventProducer,
	cfg *Config,
	log *slog.Logger,
) *Service {
	ttlDays := defaultChartCacheTTLDays
	epochDays := defaultChartEpochDays
	if cfg != nil {
		if cfg.CacheTTLDays > 0 {
			ttlDays = cfg.CacheTTLDays
		}
		if cfg.EpochDays > 0 {
			epochDays = cfg.EpochDays
		}
	}

	return &Service{
		ProfileRepo:      profileRepo,
		ConversationRepo: conversationRepo,
		Cache:            cacheClient,
		AstroService:     astroService,
		LLMService:       llmService,
		S3:               s3Client,
		Producer:         producer,
		Log:              log,
		cacheTTL:         time.Duration(ttlDays) * 24 * time.Hour,
		epoch:            time.Duration(epochDays) * 24 * time.Hour,
	}
}
