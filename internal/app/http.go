package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/http"
	httpH "github.com/yungbote/coursehub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursehub-backend/internal/http/middleware"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth      *httpMW.AuthMiddleware
	RateLimit *httpMW.RateLimiter
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	Course   *httpH.CourseHandler
	Lesson   *httpH.LessonHandler
	Progress *httpH.ProgressHandler
	Chat     *httpH.ChatHandler
}

func wireHandlers(log *logger.Logger, cfg Config, db *gorm.DB, rdb *redis.Client, svc Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db, rdb),
		Auth:     httpH.NewAuthHandler(log, svc.Auth, cfg.CookieSecure),
		Course:   httpH.NewCourseHandler(log, svc.Course),
		Lesson:   httpH.NewLessonHandler(log, svc.Lesson),
		Progress: httpH.NewProgressHandler(log, svc.Progress),
		Chat:     httpH.NewChatHandler(log, svc.Chat, metrics),
	}
}

func wireMiddleware(log *logger.Logger, rdb *redis.Client, svc Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:      httpMW.NewAuthMiddleware(log, svc.Identity),
		RateLimit: httpMW.NewRateLimiter(log, rdb),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:            log,
		ServiceName:    serviceName,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        metrics,
		RateLimiter:    middleware.RateLimit,
		RateLimits: http.RateLimits{
			ChatPerMinute: cfg.ChatRateLimitPerMinute,
			AuthPerMinute: cfg.AuthRateLimitPerMinute,
		},
		AuthHandler:     handlers.Auth,
		AuthMiddleware:  middleware.Auth,
		CourseHandler:   handlers.Course,
		LessonHandler:   handlers.Lesson,
		ProgressHandler: handlers.Progress,
		ChatHandler:     handlers.Chat,
		HealthHandler:   handlers.Health,
	})
}

func shutdownTimeout(cfg Config) time.Duration {
	if cfg.ShutdownTimeout <= 0 {
		return 15 * time.Second
	}
	return cfg.ShutdownTimeout
}
