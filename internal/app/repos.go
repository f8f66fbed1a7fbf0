package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

type Repos struct {
	User           repos.UserRepo
	Course         repos.CourseRepo
	Lesson         repos.LessonRepo
	CourseProgress repos.CourseProgressRepo
	LessonProgress repos.LessonProgressRepo
	ChatMessage    repos.ChatMessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		Course:         repos.NewCourseRepo(db, log),
		Lesson:         repos.NewLessonRepo(db, log),
		CourseProgress: repos.NewCourseProgressRepo(db, log),
		LessonProgress: repos.NewLessonProgressRepo(db, log),
		ChatMessage:    repos.NewChatMessageRepo(db, log),
	}
}
