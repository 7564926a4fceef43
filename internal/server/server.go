// Package server contains the HTTP handlers for the application's endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	authpkg "github.com/Sudip2708/poustovnik-english/internal/auth"
	"github.com/Sudip2708/poustovnik-english/internal/cache"
	"github.com/Sudip2708/poustovnik-english/internal/config"
	"github.com/Sudip2708/poustovnik-english/internal/database"
	"github.com/Sudip2708/poustovnik-english/internal/mail"
	"github.com/Sudip2708/poustovnik-english/internal/middleware"
	"github.com/Sudip2708/poustovnik-english/internal/models"
	"github.com/Sudip2708/poustovnik-english/internal/repository"
	"github.com/Sudip2708/poustovnik-english/internal/service"
	"github.com/Sudip2708/poustovnik-english/internal/session"
	"github.com/Sudip2708/poustovnik-english/internal/translate"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Translator translates text into a target locale.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	sessions       *session.Store
	resetTokens    *authpkg.ResetTokenService
	mailer         mail.Mailer
	translator     Translator
	userService    *service.UserService
	postService    *service.PostService
	pictures       *service.PictureStore
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()
	if redisClient == nil {
		return nil, fmt.Errorf("redis connection failed: sessions require redis at %s", cfg.RedisURL)
	}

	mailer, err := mail.NewSMTPMailer(cfg)
	if err != nil {
		return nil, fmt.Errorf("mailer setup failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, mailer, translate.NewClient(cfg.TranslateAPIURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and swaps
// in fake outbound services.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, mailer mail.Mailer, translator Translator) (*Server, error) {
	pictures, err := service.NewPictureStore(cfg.PictureDir)
	if err != nil {
		return nil, fmt.Errorf("picture store setup failed: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	prom := middleware.InitMetrics("poustovnik-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		postRepo:       postRepo,
		sessions:       session.NewStore(redisClient),
		resetTokens:    authpkg.NewResetTokenService(cfg.SecretKey),
		mailer:         mailer,
		translator:     translator,
		pictures:       pictures,
	}
	server.userService = service.NewUserService(userRepo, pictures)
	server.postService = service.NewPostService(postRepo, userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	// Every request resolves its session and active locale exactly once.
	app.Use(s.SessionMiddleware())

	app.Use(middleware.TracingMiddleware())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Profile pictures
	app.Static("/static/profile_pictures", s.pictures.Dir())

	// Public post listing
	app.Get("/", s.Home)
	app.Get("/home", s.Home)
	app.Get("/post/:id", s.GetPost)
	app.Get("/user/:username", s.GetUserPosts)

	// Locale and ad-hoc translation
	app.Get("/change_language", s.ChangeLanguage)
	app.Get("/translate/:id", middleware.RateLimit(
		s.redis, 10, time.Minute, "translate"), s.TranslatePost)

	// Auth flows
	app.Get("/register", s.RegisterForm)
	app.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	app.Get("/login", s.LoginForm)
	app.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout", s.Logout)

	// Password recovery
	app.Get("/reset_password", s.ResetRequestForm)
	app.Post("/reset_password", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "reset_request"), s.RequestPasswordReset)
	app.Get("/reset_password/:token", s.VerifyPasswordReset)
	app.Post("/reset_password/:token", s.CompletePasswordReset)

	// Routes requiring a signed-in user
	protected := app.Group("", s.LoginRequired())
	protected.Get("/account", s.GetAccount)
	protected.Post("/account", s.UpdateAccount)
	protected.Post("/post/new", s.CreatePost)
	protected.Post("/post/:id/update", s.UpdatePost)
	protected.Post("/post/:id/delete", s.DeletePost)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Sessions live in Redis, so readiness requires it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Poustovnik",
		BodyLimit: 8 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
