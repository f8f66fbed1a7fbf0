package learning

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Lesson, error)
	ListByCourseID(dbc dbctx.Context, courseID uint) ([]*types.Lesson, error)
	CountByCourseID(dbc dbctx.Context, courseID uint) (int64, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error) {
	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := dbc.Resolve(r.db).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uint) (*types.Lesson, error) {
	var l types.Lesson
	err := dbc.Resolve(r.db).Where("id = ?", id).Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lessonRepo) ListByCourseID(dbc dbctx.Context, courseID uint) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if err := dbc.Resolve(r.db).
		Where("course_id = ?", courseID).
		Order("order_index ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) CountByCourseID(dbc dbctx.Context, courseID uint) (int64, error) {
	var count int64
	if err := dbc.Resolve(r.db).
		Model(&types.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
