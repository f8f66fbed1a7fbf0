package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/requestdata"
)

type ProgressService interface {
	RecomputeCourseProgress(ctx context.Context, courseID uint) (*types.CourseProgress, error)
	MarkLessonProgress(ctx context.Context, lessonID uint, status string) (*types.LessonProgress, *types.CourseProgress, error)
	GetCourseProgress(ctx context.Context, courseID uint) (*types.CourseProgress, error)
	ListCourseProgress(ctx context.Context) ([]*types.CourseProgress, error)
	GetLessonProgress(ctx context.Context, lessonID uint) (*types.LessonProgress, error)
}

type progressService struct {
	db                 *gorm.DB
	log                *logger.Logger
	courseRepo         repos.CourseRepo
	lessonRepo         repos.LessonRepo
	courseProgressRepo repos.CourseProgressRepo
	lessonProgressRepo repos.LessonProgressRepo
	now                func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	courseProgressRepo repos.CourseProgressRepo,
	lessonProgressRepo repos.LessonProgressRepo,
) ProgressService {
	return &progressService{
		db:                 db,
		log:                log.With("service", "ProgressService"),
		courseRepo:         courseRepo,
		lessonRepo:         lessonRepo,
		courseProgressRepo: courseProgressRepo,
		lessonProgressRepo: lessonProgressRepo,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

func (ps *progressService) RecomputeCourseProgress(ctx context.Context, courseID uint) (*types.CourseProgress, error) {
	userID := requestdata.UserID(ctx)
	if userID == 0 {
		return nil, apierr.Unauthorized("not signed in")
	}
	if courseID == 0 {
		return nil, apierr.NotFound("course_not_found", "course id is required")
	}

	var out *types.CourseProgress
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := ps.courseRepo.Exists(dbc, courseID)
		if err != nil {
			return err
		}
		if !exists {
			return apierr.NotFound("course_not_found", "course not found")
		}
		row, err := ps.recomputeInTx(dbc, userID, courseID)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// recomputeInTx must run inside a transaction. The (user, course) row is locked
// before counting so concurrent recomputes for the same pair serialize.
func (ps *progressService) recomputeInTx(dbc dbctx.Context, userID, courseID uint) (*types.CourseProgress, error) {
	if err := ps.courseProgressRepo.Lock(dbc, userID, courseID); err != nil {
		return nil, fmt.Errorf("lock course progress: %w", err)
	}
	total, err := ps.lessonRepo.CountByCourseID(dbc, courseID)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	completed, err := ps.lessonProgressRepo.CountCompletedInCourse(dbc, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("count completed lessons: %w", err)
	}
	pct, status := types.ComputeCourseProgress(completed, total)
	row := &types.CourseProgress{
		UserID:             userID,
		CourseID:           courseID,
		Status:             status,
		ProgressPercentage: pct,
		LastAccessed:       ps.now(),
	}
	if err := ps.courseProgressRepo.Upsert(dbc, row); err != nil {
		return nil, fmt.Errorf("upsert course progress: %w", err)
	}
	ps.log.Debug("Course progress recomputed",
		"user_id", userID,
		"course_id", courseID,
		"completed", completed,
		"total", total,
		"status", status,
	)
	return row, nil
}

func (ps *progressService) MarkLessonProgress(ctx context.Context, lessonID uint, status string) (*types.LessonProgress, *types.CourseProgress, error) {
	userID := requestdata.UserID(ctx)
	if userID == 0 {
		return nil, nil, apierr.Unauthorized("not signed in")
	}
	if lessonID == 0 || status == "" {
		return nil, nil, apierr.Validation("missing_fields", "lessonId and status are required")
	}
	if !types.ValidLessonStatus(status) {
		return nil, nil, apierr.Validation("invalid_status", "status must be not_started or completed")
	}

	var (
		lessonRow *types.LessonProgress
		courseRow *types.CourseProgress
	)
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		lesson, err := ps.lessonRepo.GetByID(dbc, lessonID)
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return apierr.NotFound("lesson_not_found", "lesson not found")
		}
		if err != nil {
			return err
		}

		row := &types.LessonProgress{UserID: userID, LessonID: lessonID, Status: status}
		if status == types.StatusCompleted {
			now := ps.now()
			row.CompletedAt = &now
		}
		if err := ps.lessonProgressRepo.Upsert(dbc, row); err != nil {
			return fmt.Errorf("upsert lesson progress: %w", err)
		}
		lessonRow = row

		cp, err := ps.recomputeInTx(dbc, userID, lesson.CourseID)
		if err != nil {
			return err
		}
		courseRow = cp
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return lessonRow, courseRow, nil
}

func (ps *progressService) GetCourseProgress(ctx context.Context, courseID uint) (*types.CourseProgress, error) {
	userID := requestdata.UserID(ctx)
	if userID == 0 {
		return nil, apierr.Unauthorized("not signed in")
	}
	row, err := ps.courseProgressRepo.Get(dbctx.Context{Ctx: ctx}, userID, courseID)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, apierr.NotFound("progress_not_found", "no progress recorded for this course")
	}
	return row, err
}

func (ps *progressService) ListCourseProgress(ctx context.Context) ([]*types.CourseProgress, error) {
	userID := requestdata.UserID(ctx)
	if userID == 0 {
		return nil, apierr.Unauthorized("not signed in")
	}
	return ps.courseProgressRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID)
}

// GetLessonProgress reports not_started for lessons the user never touched.
func (ps *progressService) GetLessonProgress(ctx context.Context, lessonID uint) (*types.LessonProgress, error) {
	userID := requestdata.UserID(ctx)
	if userID == 0 {
		return nil, apierr.Unauthorized("not signed in")
	}
	if lessonID == 0 {
		return nil, apierr.Validation("missing_fields", "lessonId is required")
	}
	row, err := ps.lessonProgressRepo.Get(dbctx.Context{Ctx: ctx}, userID, lessonID)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return &types.LessonProgress{UserID: userID, LessonID: lessonID, Status: types.StatusNotStarted}, nil
	}
	return row, err
}
