package domain

import (
	"github.com/yungbote/coursehub-backend/internal/domain/chat"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

type (
	User = user.User

	Course         = learning.Course
	Lesson         = learning.Lesson
	LessonType     = learning.LessonType
	LessonContent  = learning.LessonContent
	VideoContent   = learning.VideoContent
	TextContent    = learning.TextContent
	QuizContent    = learning.QuizContent
	CourseProgress = learning.CourseProgress
	LessonProgress = learning.LessonProgress

	ChatMessage = chat.ChatMessage
)

const (
	LessonTypeVideo = learning.LessonTypeVideo
	LessonTypeText  = learning.LessonTypeText
	LessonTypeQuiz  = learning.LessonTypeQuiz

	StatusNotStarted = learning.StatusNotStarted
	StatusInProgress = learning.StatusInProgress
	StatusCompleted  = learning.StatusCompleted

	SenderUser = chat.SenderUser
	SenderAI   = chat.SenderAI
)

var (
	ParseLessonContent    = learning.ParseLessonContent
	EncodeLessonContent   = learning.EncodeLessonContent
	ValidLessonStatus     = learning.ValidLessonStatus
	ComputeCourseProgress = learning.ComputeCourseProgress
)

// AllModels lists every persisted entity in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Lesson{},
		&CourseProgress{},
		&LessonProgress{},
		&ChatMessage{},
	}
}
