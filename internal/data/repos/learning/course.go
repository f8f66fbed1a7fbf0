package learning

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Course, error)
	List(dbc dbctx.Context) ([]*types.Course, error)
	Exists(dbc dbctx.Context, id uint) (bool, error)
	UpdateImageURL(dbc dbctx.Context, id uint, imageURL string) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (r *courseRepo) Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	if err := dbc.Resolve(r.db).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uint) (*types.Course, error) {
	var c types.Course
	err := dbc.Resolve(r.db).Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) List(dbc dbctx.Context) ([]*types.Course, error) {
	var out []*types.Course
	if err := dbc.Resolve(r.db).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) Exists(dbc dbctx.Context, id uint) (bool, error) {
	var count int64
	if err := dbc.Resolve(r.db).
		Model(&types.Course{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *courseRepo) UpdateImageURL(dbc dbctx.Context, id uint, imageURL string) error {
	return dbc.Resolve(r.db).
		Model(&types.Course{}).
		Where("id = ?", id).
		Update("image_url", imageURL).Error
}
