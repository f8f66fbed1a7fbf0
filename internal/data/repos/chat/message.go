package chat

import (
	"gorm.io/gorm"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

type ChatMessageRepo interface {
	Create(dbc dbctx.Context, msg *types.ChatMessage) (*types.ChatMessage, error)
	ListByUser(dbc dbctx.Context, userID uint) ([]*types.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) Create(dbc dbctx.Context, msg *types.ChatMessage) (*types.ChatMessage, error) {
	if err := dbc.Resolve(r.db).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// ListByUser returns the user's messages oldest first. id breaks ties between
// rows written within the same clock tick.
func (r *chatMessageRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*types.ChatMessage, error) {
	var out []*types.ChatMessage
	if err := dbc.Resolve(r.db).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
