package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"voice-arena-go/internal/domain/catalog"
	"voice-arena-go/internal/domain/history"
	"voice-arena-go/internal/domain/leaderboard"
	"voice-arena-go/internal/domain/providers"
	"voice-arena-go/internal/domain/synthesis"
	platformcache "voice-arena-go/internal/platform/cache"
	platformconfig "voice-arena-go/internal/platform/config"
	platformerrors "voice-arena-go/internal/platform/errors"
	platformlogging "voice-arena-go/internal/platform/logging"
	platformstorage "voice-arena-go/internal/platform/storage"
	httptransport "voice-arena-go/internal/transport/http"
	"voice-arena-go/internal/transport/http/webapi"
	"voice-arena-go/internal/transport/ws"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger

	cache       *platformcache.Cache
	voices      *platformstorage.CustomVoiceRepository
	histories   *history.Service
	leaderboard *leaderboard.Service
	catalog     *catalog.Catalog
	builder     *catalog.Builder
	providers   *providers.Client
	speech      *synthesis.OpenAISpeech
	webapi      *webapi.Service
}

// Run 启动整个服务生命周期，负责加载配置、初始化依赖和优雅关停。
func Run(ctx context.Context) error {
	state := &appState{}

	if err := executeInitSteps(ctx, InitGraph(), state); err != nil {
		return err
	}

	logger := state.logger
	logger.InfoTag("引导", "配置加载完成: %s", state.configPath)

	defer func() {
		if state.leaderboard != nil {
			if err := state.leaderboard.Close(); err != nil {
				logger.WarnTag("引导", "排行榜服务未正常关闭: %v", err)
			}
		}
		if state.cache != nil {
			if err := state.cache.Close(); err != nil {
				logger.WarnTag("引导", "缓存未正常关闭: %v", err)
			}
		}
	}()

	// 启动前尽力完成一次目录构建，失败时保留静态兜底目录
	if err := state.webapi.RefreshCatalog(ctx, false); err != nil {
		logger.WarnTag("引导", "初始目录构建失败，使用内置目录: %v", err)
	}

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag("引导", "服务已全部退出")
	logger.Close()
	return nil
}

// InitGraph 返回初始化步骤的有序依赖图
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			Title:     "Initialise logging",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "cache:init",
			Title:     "Initialise redis cache",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindStorage,
			Execute:   initCacheStep,
		},
		{
			ID:        "storage:open",
			Title:     "Open database",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindStorage,
			Execute:   openStorageStep,
		},
		{
			ID:        "domain:init",
			Title:     "Initialise domain services",
			DependsOn: []string{"storage:open", "cache:init"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initDomainStep,
		},
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if stderrors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().WithDotEnv(true).Load()
	if err != nil {
		return err
	}
	state.config = result.Config
	state.configPath = result.Path
	if state.configPath == "" {
		state.configPath = "内置默认配置"
	}
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return err
	}
	state.logger = logger
	platformlogging.DefaultLogger = logger
	return nil
}

func initCacheStep(ctx context.Context, state *appState) error {
	if !state.config.Redis.Enabled {
		state.logger.InfoTag("引导", "redis未启用，供应商元数据不做跨进程缓存")
		return nil
	}

	c, err := platformcache.New(ctx, platformcache.Options{
		Addr:     state.config.Redis.Addr,
		Username: state.config.Redis.Username,
		Password: state.config.Redis.Password,
		DB:       state.config.Redis.DB,
		Prefix:   state.config.Redis.Prefix,
	})
	if err != nil {
		return err
	}
	state.cache = c
	return nil
}

func openStorageStep(_ context.Context, state *appState) error {
	db, err := platformstorage.Open(state.config.Database.DSN)
	if err != nil {
		return err
	}

	state.voices = platformstorage.NewCustomVoiceRepository(db)
	state.histories = history.NewService(platformstorage.NewHistoryRepository(db), state.logger)
	return nil
}

func initDomainStep(ctx context.Context, state *appState) error {
	cfg := state.config

	board, err := leaderboard.NewService(ctx, state.histories, state.logger)
	if err != nil {
		return err
	}
	state.leaderboard = board

	state.catalog = catalog.New(state.logger)
	state.builder = catalog.NewBuilder(state.catalog, cfg.Arena.Locale, state.logger)

	state.providers = providers.NewClient(
		cfg.Provider.BaseURL,
		cfg.Provider.APIKey,
		cfg.Provider.FetchTimeout,
		state.logger,
	)
	if state.cache != nil {
		state.providers.WithCache(state.cache, cfg.Provider.CacheTTL)
	}

	if cfg.OpenAI.APIKey != "" {
		speech, err := synthesis.NewOpenAISpeech(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, state.logger)
		if err != nil {
			return err
		}
		state.speech = speech
	} else {
		state.logger.WarnTag("引导", "未配置OPENAI_API_KEY，合成直通接口不可用")
	}

	state.webapi = webapi.NewService(webapi.Deps{
		Config:      cfg,
		Logger:      state.logger,
		Histories:   state.histories,
		Leaderboard: state.leaderboard,
		Catalog:     state.catalog,
		Builder:     state.builder,
		Providers:   state.providers,
		Voices:      state.voices,
		Speech:      state.speech,
	})
	return nil
}

func startHTTPServer(state *appState, g *errgroup.Group, ctx context.Context) error {
	router, err := httptransport.Build(httptransport.Options{
		Config: state.config,
		Logger: state.logger,
	})
	if err != nil {
		return err
	}

	state.webapi.RegisterRoutes(router.API)

	hub, err := ws.NewHub(state.leaderboard, state.logger)
	if err != nil {
		return err
	}
	router.Engine.GET("/ws/leaderboard", func(c *gin.Context) {
		hub.Handle(c.Writer, c.Request)
	})

	addr := state.config.Server.IP + ":" + strconv.Itoa(state.config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router.Engine,
	}

	g.Go(func() error {
		state.logger.InfoTag("引导", "HTTP服务监听 %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return platformerrors.Wrap(platformerrors.KindTransport, "http.listen", "HTTP服务异常退出", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := hub.Close(); err != nil {
			state.logger.WarnTag("WebSocket", "推送服务未正常关闭: %v", err)
		}
		return server.Shutdown(shutdownCtx)
	})

	return nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("引导", "收到系统信号 %v，正在进行资源清理", context.Cause(ctx))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("引导", "服务关闭过程中出现错误: %v", err)
			return err
		}
		logger.InfoTag("引导", "所有服务已成功关闭")
	case <-time.After(15 * time.Second):
		timeoutErr := stderrors.New("服务关闭超时")
		logger.ErrorTag("引导", "服务关闭超时，已强制退出")
		return timeoutErr
	}
	return nil
}
