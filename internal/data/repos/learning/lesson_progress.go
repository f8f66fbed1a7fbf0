package learning

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

type LessonProgressRepo interface {
	Upsert(dbc dbctx.Context, row *types.LessonProgress) error
	Get(dbc dbctx.Context, userID, lessonID uint) (*types.LessonProgress, error)
	CountCompletedInCourse(dbc dbctx.Context, userID, courseID uint) (int64, error)
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	repoLog := baseLog.With("repo", "LessonProgressRepo")
	return &lessonProgressRepo{db: db, log: repoLog}
}

// Upsert writes the (user, lesson) row in one statement, overwriting status
// and completed_at on an existing row.
func (r *lessonProgressRepo) Upsert(dbc dbctx.Context, row *types.LessonProgress) error {
	if row == nil {
		return nil
	}
	return dbc.Resolve(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "completed_at"}),
		}).
		Create(row).Error
}

func (r *lessonProgressRepo) Get(dbc dbctx.Context, userID, lessonID uint) (*types.LessonProgress, error) {
	var row types.LessonProgress
	err := dbc.Resolve(r.db).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *lessonProgressRepo) CountCompletedInCourse(dbc dbctx.Context, userID, courseID uint) (int64, error) {
	var count int64
	if err := dbc.Resolve(r.db).
		Model(&types.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = user_lesson_progress.lesson_id").
		Where("user_lesson_progress.user_id = ? AND lessons.course_id = ? AND user_lesson_progress.status = ?",
			userID, courseID, types.StatusCompleted).
		Distinct("user_lesson_progress.lesson_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
