// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"quill/internal/chat"
	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/service"
	"quill/internal/session"

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

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

// initMetrics builds the HTTP metrics middleware once per process; the
// collectors live in the default registry and cannot be registered twice.
func initMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New(serviceName)
	})
	return promInstance
}

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Manager
	hub            *chat.Hub
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	followRepo     repository.FollowRepository
	userService    *service.UserService
	postService    *service.PostService
	followService  *service.FollowService
	feedService    *service.FeedService
}

// NewServer creates a server instance, establishing its own database and
// Redis connections from the config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, session.NewRedisStore(redisClient)), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and session store.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store session.Store) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	followRepo := repository.NewFollowRepository(db)

	s := &Server{
		config:     cfg,
		db:         db,
		redis:      redisClient,
		sessions:   session.NewManager(store, cfg.SessionSecret),
		hub:        chat.NewHub(),
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
	}
	s.userService = service.NewUserService(userRepo)
	s.postService = service.NewPostService(postRepo)
	s.followService = service.NewFollowService(followRepo, userRepo)
	s.feedService = service.NewFeedService(s.followService, s.postService)

	s.promMiddleware = initMetrics("quill-api")

	return s
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit so browser
	// clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limit, 100 requests per minute per IP.
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"errors": []string{"Too many requests. Please try again later."},
			})
		},
	}))

	// Every request resolves its visitor, signed in or not.
	app.Use(s.WithVisitor())
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	// Auth
	api.Post("/register", middleware.RateLimit(s.redis, "register", 5, 10*time.Minute), s.Register)
	api.Post("/login", middleware.RateLimit(s.redis, "login", 10, 5*time.Minute), s.Login)
	api.Post("/logout", s.Logout)
	api.Get("/session", s.CurrentSession)

	// Home feed
	api.Get("/home", s.RequireLogin, s.HomeFeed)

	// Posts
	api.Post("/posts", s.RequireLogin, s.CreatePost)
	api.Post("/posts/search", s.SearchPosts)
	api.Get("/posts/:id", s.GetPost)
	api.Put("/posts/:id", s.RequireLogin, s.UpdatePost)
	api.Delete("/posts/:id", s.RequireLogin, s.DeletePost)

	// Profiles
	api.Get("/profile/:username", s.GetProfile)
	api.Get("/profile/:username/posts", s.GetProfilePosts)
	api.Get("/profile/:username/followers", s.GetProfileFollowers)
	api.Get("/profile/:username/following", s.GetProfileFollowing)

	// Follow graph
	api.Post("/follow/:username", s.RequireLogin, s.FollowUser)
	api.Delete("/follow/:username", s.RequireLogin, s.UnfollowUser)

	// Real-time chat
	app.Get("/ws", s.ChatUpgradeGuard, s.ChatHandler())
}

// WithVisitor resolves the session cookie on every request and stores the
// visitor in locals. Unauthenticated requests get the anonymous visitor.
func (s *Server) WithVisitor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		visitor := s.sessions.Resolve(c.UserContext(), c.Cookies(session.CookieName))
		c.Locals("visitor", visitor)
		c.Locals("visitorID", visitor.ID)
		return c.Next()
	}
}

// RequireLogin rejects requests from the anonymous visitor.
func (s *Server) RequireLogin(c *fiber.Ctx) error {
	if s.visitor(c).ID == 0 {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("You must be logged in to perform that action."))
	}
	return c.Next()
}

func (s *Server) visitor(c *fiber.Ctx) session.Visitor {
	if v, ok := c.Locals("visitor").(session.Visitor); ok {
		return v
	}
	return session.Visitor{}
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
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
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the Fiber app and listens on the configured port.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Quill API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("unhandled request error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	slog.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server and its dependencies.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			slog.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		slog.Error("error shutting down chat hub", "error", err)
	}

	if err := database.Close(s.db); err != nil {
		slog.Error("error closing database", "error", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			slog.Error("error closing redis", "error", err)
		}
	}

	slog.Info("server shutdown complete")
	return nil
}
