package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/cache"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type Services struct {
	Tokens   *services.TokenIssuer
	Sessions cache.SessionStore
	Identity services.IdentityResolver

	Auth     services.AuthService
	Course   services.CourseService
	Lesson   services.LessonService
	Progress services.ProgressService
	Chat     services.ChatService
	Cover    services.CoverService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	tokens, err := services.NewTokenIssuer(cfg.JWTSecretKey, cfg.AccessTokenTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init token issuer: %w", err)
	}

	var sessions cache.SessionStore
	if clients.Redis != nil {
		sessions = cache.NewRedisSessionStore(clients.Redis)
	} else {
		log.Warn("Using in-process session store; sessions are lost on restart")
		sessions = cache.NewMemorySessionStore()
	}

	var cover services.CoverService
	if clients.GcpBucket != nil {
		cover, err = services.NewCoverService(log, clients.GcpBucket)
		if err != nil {
			return Services{}, fmt.Errorf("init cover service: %w", err)
		}
	}

	return Services{
		Tokens:   tokens,
		Sessions: sessions,
		Identity: services.NewIdentityResolver(log, tokens, sessions, repos.User),
		Auth:     services.NewAuthService(log, repos.User, sessions, tokens, cfg.SessionTTL),
		Course:   services.NewCourseService(log, repos.Course, repos.Lesson, cover),
		Lesson:   services.NewLessonService(log, repos.Course, repos.Lesson),
		Progress: services.NewProgressService(db, log, repos.Course, repos.Lesson, repos.CourseProgress, repos.LessonProgress),
		Chat:     services.NewChatService(log, repos.ChatMessage, clients.Gemini),
		Cover:    cover,
	}, nil
}
