package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursehub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursehub-backend/internal/http/middleware"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

type RateLimits struct {
	ChatPerMinute int
	AuthPerMinute int
}

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics
	RateLimiter    *httpMW.RateLimiter
	RateLimits     RateLimits

	AuthHandler     *httpH.AuthHandler
	AuthMiddleware  *httpMW.AuthMiddleware
	CourseHandler   *httpH.CourseHandler
	LessonHandler   *httpH.LessonHandler
	ProgressHandler *httpH.ProgressHandler
	ChatHandler     *httpH.ChatHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	public := api.Group("/")
	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Auth
	if cfg.AuthHandler != nil {
		authLimit := cfg.RateLimiter.Limit("auth", cfg.RateLimits.AuthPerMinute, time.Minute)
		public.POST("/auth/signup", authLimit, cfg.AuthHandler.Signup)
		public.POST("/auth/login", authLimit, cfg.AuthHandler.Login)
		protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		protected.GET("/auth/me", cfg.AuthHandler.Me)
	}

	// Catalog
	if cfg.CourseHandler != nil {
		public.GET("/courses", cfg.CourseHandler.ListCourses)
		public.GET("/courses/:id", cfg.CourseHandler.GetCourse)
		protected.POST("/courses", cfg.CourseHandler.CreateCourse)
	}
	if cfg.LessonHandler != nil {
		public.GET("/courses/:id/lessons", cfg.LessonHandler.ListCourseLessons)
		public.GET("/lessons/:id", cfg.LessonHandler.GetLesson)
		protected.POST("/courses/:id/lessons", cfg.LessonHandler.CreateLesson)
		protected.POST("/lessons/:id/answer", cfg.LessonHandler.CheckAnswer)
	}

	// Progress
	if cfg.ProgressHandler != nil {
		protected.GET("/progress/course", cfg.ProgressHandler.GetCourseProgress)
		protected.POST("/progress/course", cfg.ProgressHandler.RecomputeCourseProgress)
		protected.GET("/progress/lesson", cfg.ProgressHandler.GetLessonProgress)
		protected.POST("/progress/lesson", cfg.ProgressHandler.MarkLessonProgress)
	}

	// Chat
	if cfg.ChatHandler != nil {
		chatLimit := cfg.RateLimiter.Limit("chat", cfg.RateLimits.ChatPerMinute, time.Minute)
		protected.POST("/chat", chatLimit, cfg.ChatHandler.SendChat)
		protected.POST("/chat/reply", chatLimit, cfg.ChatHandler.Reply)
		protected.GET("/messages", cfg.ChatHandler.ListMessages)
	}

	return r
}
