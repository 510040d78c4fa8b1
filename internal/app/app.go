package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"nihongolab_backend/internal/config"
	"nihongolab_backend/internal/controller"
	"nihongolab_backend/internal/repository"
	"nihongolab_backend/internal/service"
	"nihongolab_backend/pkg/cache"
	"nihongolab_backend/pkg/configwatcher"
	"nihongolab_backend/pkg/database"
	"nihongolab_backend/pkg/logger"
	"nihongolab_backend/pkg/monitoring"
	"nihongolab_backend/pkg/scheduler"
	"nihongolab_backend/pkg/security"
	"nihongolab_backend/pkg/tracing"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

const cachePrefix = "nihongolab:"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Cache           *cache.Cache
	Services        *Services
	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	level    *repository.LevelRepository
	question *repository.QuestionRepository
	progress *repository.ProgressRepository
	stats    *repository.StatsRepository
	vocab    *repository.VocabularyRepository
}

// Services 对外暴露给命令行子命令复用
type Services struct {
	Leveling  *service.LevelingService
	Stats     *service.StatsService
	Learning  *service.LearningService
	Review    *service.ReviewService
	Dashboard *service.DashboardService
	Import    *service.ImportService
	User      *service.UserService
	Vocab     *service.VocabularyService
}

type controllers struct {
	learning  *controller.LearningController
	review    *controller.ReviewController
	dashboard *controller.DashboardController
	health    *controller.HealthController
	user      *controller.UserController
	vocab     *controller.VocabularyController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		level:    repository.NewLevelRepository(db, a.Cache),
		question: repository.NewQuestionRepository(db),
		progress: repository.NewProgressRepository(db),
		stats:    repository.NewStatsRepository(db),
		vocab:    repository.NewVocabularyRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *Services {
	s := &Services{}
	loc := cfg.App.Location()

	s.Leveling = service.NewLevelingService(repos.user, repos.level)
	s.Stats = service.NewStatsService(db, repos.progress, repos.stats, loc)
	s.Learning = service.NewLearningService(db, repos.question, repos.progress, repos.stats, s.Leveling, s.Stats, a.Cache)
	s.Review = service.NewReviewService(db, repos.question, repos.progress, repos.stats, s.Leveling, a.Cache, cfg.Review.PageSize)
	s.Dashboard = service.NewDashboardService(
		repos.user,
		repos.level,
		repos.question,
		repos.progress,
		s.Stats,
		a.Cache,
		cfg.App.DashboardCacheTTL,
		loc,
	)
	s.Import = service.NewImportService(db, repos.level, repos.question, repos.vocab)
	s.User = service.NewUserService(repos.user, repos.level, a.Cache)
	s.Vocab = service.NewVocabularyService(repos.vocab, repos.level)

	return s
}

func (a *App) initControllers(s *Services, db *gorm.DB) *controllers {
	return &controllers{
		learning:  controller.NewLearningController(s.Learning),
		review:    controller.NewReviewController(s.Review),
		dashboard: controller.NewDashboardController(s.Dashboard),
		health:    controller.NewHealthController(db, a.Cache),
		user:      controller.NewUserController(s.User),
		vocab:     controller.NewVocabularyController(s.Vocab),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, window)
	router.Use(a.limiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 初始化日志、数据库、缓存与追踪，并装配路由
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	// release 模式下只有显式要求时才迁移
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			database.Close(db)
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		logger.Log.Info("数据库迁移完成")
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		database.Close(db)
		return nil, fmt.Errorf("initialize redis: %w", err)
	}

	a := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		a.tracer = tp
	}

	return a, nil
}

// New 用已建立的连接装配应用，rdb 可为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	a := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Cache:  cache.New(rdb, cachePrefix),
	}

	repos := a.initRepositories(db)
	a.Services = a.initServices(repos, cfg, db)
	ctrls := a.initControllers(a.Services, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	a.Router = router

	a.setupMiddlewares(router, cfg)
	a.registerRoutes(router, ctrls, cfg)

	a.RegisterConfigCallback(logger.SetLevel)

	return a
}

// SeedLevels 等级表为空时写入默认等级
func (a *App) SeedLevels(ctx context.Context) (int, error) {
	return a.Services.Import.SeedDefaultLevels(ctx)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

// Run 启动 HTTP 服务与后台任务，收到 SIGINT/SIGTERM 后优雅退出
func (a *App) Run(configDir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.limiter.Run(ctx)

	jobs := scheduler.New(a.Services.Stats, a.Config.App.StatsReconcileInterval)
	if err := jobs.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer jobs.Stop()

	if configDir != "" {
		watcher, err := configwatcher.New(configDir, a.applyConfig)
		if err != nil {
			logger.Log.Warn("配置热加载不可用", zap.Error(err))
		} else {
			go watcher.Run(ctx)
		}
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exiting")
	return nil
}

// Close 释放追踪、缓存与数据库连接
func (a *App) Close() {
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
		cancel()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.DB); err != nil {
		logger.Log.Error("Failed to close database", zap.Error(err))
	}
	logger.Log.Sync()
}
