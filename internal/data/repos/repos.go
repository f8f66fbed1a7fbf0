package repos

import (
	"github.com/yungbote/coursehub-backend/internal/data/repos/chat"
	"github.com/yungbote/coursehub-backend/internal/data/repos/learning"
	"github.com/yungbote/coursehub-backend/internal/data/repos/user"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type CourseRepo = learning.CourseRepo
type LessonRepo = learning.LessonRepo
type CourseProgressRepo = learning.CourseProgressRepo
type LessonProgressRepo = learning.LessonProgressRepo

type ChatMessageRepo = chat.ChatMessageRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewCourseRepo(db *gorm.DB, log *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, log)
}
func NewLessonRepo(db *gorm.DB, log *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, log)
}
func NewCourseProgressRepo(db *gorm.DB, log *logger.Logger) CourseProgressRepo {
	return learning.NewCourseProgressRepo(db, log)
}
func NewLessonProgressRepo(db *gorm.DB, log *logger.Logger) LessonProgressRepo {
	return learning.NewLessonProgressRepo(db, log)
}

func NewChatMessageRepo(db *gorm.DB, log *logger.Logger) ChatMessageRepo {
	return chat.NewChatMessageRepo(db, log)
}
