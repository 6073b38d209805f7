package app

import (
	"edu_insight_backend/internal/config"
	"edu_insight_backend/internal/controller"
	"edu_insight_backend/internal/repository"
	"edu_insight_backend/internal/service"
	"edu_insight_backend/pkg/database"
	"edu_insight_backend/pkg/logger"
	"edu_insight_backend/pkg/monitoring"
	"edu_insight_backend/pkg/security"
	"edu_insight_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	goal       *repository.GoalRepository
	signal     *repository.SignalRepository
	curriculum *repository.CurriculumRepository
	market     *repository.MarketRepository
	collective *repository.CollectiveRepository
}

type services struct {
	auth          *service.AuthService
	user          *service.UserService
	goal          *service.GoalService
	curriculum    *service.CurriculumService
	market        *service.MarketService
	collective    *service.CollectiveService
	comprehension *service.ComprehensionService
	profile       *service.ProfileService
	skillGap      *service.SkillGapService
	prediction    *service.PredictionService
	path          *service.PathService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	goal       *controller.GoalController
	signal     *controller.SignalController
	analytics  *controller.AnalyticsController
	collective *controller.CollectiveController
	curriculum *controller.CurriculumController
	market     *controller.MarketController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，由配置监视器回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		goal:       repository.NewGoalRepository(db),
		signal:     repository.NewSignalRepository(db),
		curriculum: repository.NewCurriculumRepository(db),
		market:     repository.NewMarketRepository(db),
		collective: repository.NewCollectiveRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.goal = service.NewGoalService(repos.goal)
	s.curriculum = service.NewCurriculumService(repos.curriculum)
	s.market = service.NewMarketService(repos.market)

	s.collective = service.NewCollectiveService(repos.collective)
	s.comprehension = service.NewComprehensionService(repos.signal, s.collective)

	s.profile = service.NewProfileService(repos.user, repos.goal, repos.curriculum)
	s.skillGap = service.NewSkillGapService(repos.goal, repos.curriculum, repos.market)
	s.prediction = service.NewPredictionService(s.profile, repos.curriculum, repos.market)
	s.path = service.NewPathService(s.profile, repos.curriculum, repos.market, s.skillGap)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		user:       controller.NewUserController(s.user),
		goal:       controller.NewGoalController(s.goal),
		signal:     controller.NewSignalController(s.comprehension),
		analytics:  controller.NewAnalyticsController(s.comprehension, s.skillGap, s.prediction, s.path),
		collective: controller.NewCollectiveController(s.collective),
		curriculum: controller.NewCurriculumController(s.curriculum),
		market:     controller.NewMarketController(s.market),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("edu-insight", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
