package learning

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

type CourseProgressRepo interface {
	Lock(dbc dbctx.Context, userID, courseID uint) error
	Upsert(dbc dbctx.Context, row *types.CourseProgress) error
	Get(dbc dbctx.Context, userID, courseID uint) (*types.CourseProgress, error)
	ListByUser(dbc dbctx.Context, userID uint) ([]*types.CourseProgress, error)
}

type courseProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseProgressRepo(db *gorm.DB, baseLog *logger.Logger) CourseProgressRepo {
	repoLog := baseLog.With("repo", "CourseProgressRepo")
	return &courseProgressRepo{db: db, log: repoLog}
}

// Lock makes sure the (user, course) row exists and takes a row lock on it for
// the rest of dbc.Tx. Callers must pass a transaction. SQLite ignores the
// locking clause and serializes writers instead.
func (r *courseProgressRepo) Lock(dbc dbctx.Context, userID, courseID uint) error {
	if dbc.Tx == nil {
		return errors.New("course progress lock requires a transaction")
	}
	txx := dbc.Resolve(r.db)
	seed := &types.CourseProgress{
		UserID:       userID,
		CourseID:     courseID,
		Status:       types.StatusInProgress,
		LastAccessed: time.Now().UTC(),
	}
	if err := txx.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return err
	}
	var held types.CourseProgress
	return txx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Take(&held).Error
}

func (r *courseProgressRepo) Upsert(dbc dbctx.Context, row *types.CourseProgress) error {
	if row == nil {
		return nil
	}
	return dbc.Resolve(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "progress_percentage", "last_accessed"}),
		}).
		Create(row).Error
}

func (r *courseProgressRepo) Get(dbc dbctx.Context, userID, courseID uint) (*types.CourseProgress, error) {
	var row types.CourseProgress
	err := dbc.Resolve(r.db).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *courseProgressRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*types.CourseProgress, error) {
	var out []*types.CourseProgress
	if err := dbc.Resolve(r.db).
		Where("user_id = ?", userID).
		Order("last_accessed DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
