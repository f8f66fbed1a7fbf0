package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

type CreateLessonInput struct {
	Title      string
	Type       string
	Content    json.RawMessage
	OrderIndex *int
}

type AnswerResult struct {
	Correct bool   `json:"correct"`
	Answer  string `json:"answer"`
}

type LessonService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]*types.Lesson, error)
	Get(ctx context.Context, id uint) (*types.Lesson, error)
	Create(ctx context.Context, courseID uint, in CreateLessonInput) (*types.Lesson, error)
	CheckAnswer(ctx context.Context, lessonID uint, selected string) (*AnswerResult, error)
}

type lessonService struct {
	log        *logger.Logger
	courseRepo repos.CourseRepo
	lessonRepo repos.LessonRepo
}

func NewLessonService(log *logger.Logger, courseRepo repos.CourseRepo, lessonRepo repos.LessonRepo) LessonService {
	return &lessonService{
		log:        log.With("service", "LessonService"),
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
	}
}

func (ls *lessonService) ListByCourse(ctx context.Context, courseID uint) ([]*types.Lesson, error) {
	dbc := dbctx.Context{Ctx: ctx}
	exists, err := ls.courseRepo.Exists(dbc, courseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apierr.NotFound("course_not_found", "course not found")
	}
	return ls.lessonRepo.ListByCourseID(dbc, courseID)
}

func (ls *lessonService) Get(ctx context.Context, id uint) (*types.Lesson, error) {
	lesson, err := ls.lessonRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, apierr.NotFound("lesson_not_found", "lesson not found")
	}
	return lesson, err
}

func (ls *lessonService) Create(ctx context.Context, courseID uint, in CreateLessonInput) (*types.Lesson, error) {
	title := strings.TrimSpace(in.Title)
	kind := types.LessonType(strings.ToLower(strings.TrimSpace(in.Type)))
	if title == "" || kind == "" || len(in.Content) == 0 || in.OrderIndex == nil {
		return nil, apierr.Validation("missing_fields", "title, type, content and order_index are required")
	}
	if *in.OrderIndex < 0 {
		return nil, apierr.Validation("invalid_order_index", "order_index must not be negative")
	}
	content, err := types.ParseLessonContent(kind, in.Content)
	if err != nil {
		return nil, apierr.Invalid("invalid_content", err)
	}
	encoded, err := types.EncodeLessonContent(content)
	if err != nil {
		return nil, apierr.Invalid("invalid_content", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	exists, err := ls.courseRepo.Exists(dbc, courseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apierr.NotFound("course_not_found", "course not found")
	}

	lesson := &types.Lesson{
		CourseID:   courseID,
		Title:      title,
		Type:       kind,
		Content:    encoded,
		OrderIndex: *in.OrderIndex,
	}
	if _, err := ls.lessonRepo.Create(dbc, []*types.Lesson{lesson}); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	ls.log.Info("Lesson created", "lesson_id", lesson.ID, "course_id", courseID, "type", kind)
	return lesson, nil
}

func (ls *lessonService) CheckAnswer(ctx context.Context, lessonID uint, selected string) (*AnswerResult, error) {
	if strings.TrimSpace(selected) == "" {
		return nil, apierr.Validation("missing_fields", "answer is required")
	}
	lesson, err := ls.Get(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.Type != types.LessonTypeQuiz {
		return nil, apierr.Validation("not_a_quiz", "lesson is not a quiz")
	}
	content, err := lesson.DecodedContent()
	if err != nil {
		return nil, fmt.Errorf("decode quiz content for lesson %d: %w", lesson.ID, err)
	}
	quiz, ok := content.(types.QuizContent)
	if !ok {
		return nil, fmt.Errorf("lesson %d: unexpected content %T", lesson.ID, content)
	}
	return &AnswerResult{Correct: quiz.Check(selected), Answer: quiz.Answer}, nil
}
