package user

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, user *types.User) (*types.User, error)
	GetByID(dbc dbctx.Context, id uint) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	ExistsByUsernameOrEmail(dbc dbctx.Context, username, email string) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

// Create inserts user. A username or email clash surfaces as ErrConflict.
func (ur *userRepo) Create(dbc dbctx.Context, user *types.User) (*types.User, error) {
	if err := dbc.Resolve(ur.db).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, pkgerrors.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id uint) (*types.User, error) {
	var u types.User
	err := dbc.Resolve(ur.db).Where("id = ?", id).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	var u types.User
	err := dbc.Resolve(ur.db).Where("email = ?", email).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) ExistsByUsernameOrEmail(dbc dbctx.Context, username, email string) (bool, error) {
	var count int64
	if err := dbc.Resolve(ur.db).
		Model(&types.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
