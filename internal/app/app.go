package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"readiness_backend/internal/config"
	"readiness_backend/internal/controller"
	"readiness_backend/internal/repository"
	"readiness_backend/internal/service"
	"readiness_backend/pkg/database"
	"readiness_backend/pkg/logger"
	"readiness_backend/pkg/monitoring"
	"readiness_backend/pkg/security"
	"readiness_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	assessment *repository.AssessmentRepository
	emailLog   *repository.EmailLogRepository
	rateLimit  *repository.RateLimitRepository
	analytics  *repository.AnalyticsRepository
}

type services struct {
	scoring    *service.ScoringService
	recaptcha  *service.RecaptchaService
	email      *service.EmailService
	rateLimit  *service.RateLimitService
	submission *service.SubmissionService
	assessment *service.AssessmentService
	webhook    *service.WebhookService
}

type controllers struct {
	assessment *controller.AssessmentController
	webhook    *controller.WebhookController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		assessment: repository.NewAssessmentRepository(db),
		emailLog:   repository.NewEmailLogRepository(db),
		rateLimit:  repository.NewRateLimitRepository(db),
		analytics:  repository.NewAnalyticsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.scoring = service.NewScoringService(cfg.AI)
	s.recaptcha = service.NewRecaptchaService(cfg.Recaptcha)
	s.email = service.NewEmailService(cfg.Mailgun, cfg.App, repos.assessment, repos.emailLog)
	s.rateLimit = service.NewRateLimitService(repos.rateLimit, cfg.RateLimit)
	s.submission = service.NewSubmissionService(repos.assessment, repos.analytics, s.scoring, s.recaptcha, s.email)
	s.assessment = service.NewAssessmentService(repos.assessment, repos.analytics, rdb)
	s.webhook = service.NewWebhookService(cfg.Mailgun, repos.emailLog, repos.assessment)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		assessment: controller.NewAssessmentController(s.submission, s.assessment, s.rateLimit),
		webhook:    controller.NewWebhookController(s.webhook),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(1000, time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis only backs the read cache; the service runs without it.
		logger.Log.Warn("Redis unavailable, read caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("readiness-assessment", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

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
