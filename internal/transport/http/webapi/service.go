package webapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"voice-arena-go/internal/domain/catalog"
	"voice-arena-go/internal/domain/eventbus"
	"voice-arena-go/internal/domain/history"
	"voice-arena-go/internal/domain/leaderboard"
	"voice-arena-go/internal/domain/providers"
	"voice-arena-go/internal/domain/synthesis"
	"voice-arena-go/internal/platform/config"
	"voice-arena-go/internal/platform/logging"
	"voice-arena-go/internal/platform/storage"
)

// Service 聚合竞技场所有HTTP接口依赖
type Service struct {
	cfg         *config.Config
	logger      *logging.Logger
	histories   *history.Service
	leaderboard *leaderboard.Service
	catalog     *catalog.Catalog
	builder     *catalog.Builder
	providers   *providers.Client
	voices      *storage.CustomVoiceRepository
	speech      *synthesis.OpenAISpeech
	startedAt   time.Time
}

// Deps Service的依赖集合，speech可为nil（未配置OpenAI时）
type Deps struct {
	Config      *config.Config
	Logger      *logging.Logger
	Histories   *history.Service
	Leaderboard *leaderboard.Service
	Catalog     *catalog.Catalog
	Builder     *catalog.Builder
	Providers   *providers.Client
	Voices      *storage.CustomVoiceRepository
	Speech      *synthesis.OpenAISpeech
}

// NewService 创建webapi服务
func NewService(deps Deps) *Service {
	return &Service{
		cfg:         deps.Config,
		logger:      deps.Logger,
		histories:   deps.Histories,
		leaderboard: deps.Leaderboard,
		catalog:     deps.Catalog,
		builder:     deps.Builder,
		providers:   deps.Providers,
		voices:      deps.Voices,
		speech:      deps.Speech,
		startedAt:   time.Now(),
	}
}

// RegisterRoutes 注册所有API路由
func (s *Service) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/catalog", s.handleCatalogGet)
	api.GET("/catalog/label", s.handleCatalogLabel)
	api.POST("/catalog/refresh", s.handleCatalogRefresh)

	api.POST("/history", s.handleHistoryCreate)
	api.GET("/history", s.handleHistoryList)
	api.PATCH("/history/:id", s.handleHistoryUpdate)
	api.DELETE("/history/:id", s.handleHistoryDelete)
	api.DELETE("/history/:id/items/:index", s.handleHistoryDeleteSubItem)

	api.GET("/leaderboard", s.handleLeaderboardGet)

	api.POST("/voices/custom", s.handleCustomVoiceCreate)
	api.GET("/voices/custom", s.handleCustomVoiceList)
	api.DELETE("/voices/custom/:id", s.handleCustomVoiceDelete)

	api.GET("/system/status", s.handleSystemStatus)

	api.POST("/speech/openai", s.handleSpeechOpenAI)
}

// RefreshCatalog 重新拉取供应商元数据并重建语音目录
func (s *Service) RefreshCatalog(ctx context.Context, force bool) error {
	list, err := s.providers.FetchProviders(ctx, force)
	if err != nil {
		return err
	}
	s.builder.Build(list)

	if err := s.catalog.RefreshCustomVoices(ctx, s.voices); err != nil {
		s.logger.WarnTag("目录", "刷新自定义音色失败: %v", err)
	}

	eventbus.Publish(eventbus.TopicCatalogRefreshed, s.catalog.Snapshot())
	return nil
}
