package chat

import "time"

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// ChatMessage is one turn of a user's conversation with the tutor. Rows are
// append-only. Incomplete marks an ai turn whose upstream stream ended early.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"column:user_id;not null;index:idx_chat_messages_user_created,priority:1" json:"user_id"`
	Sender     string    `gorm:"column:sender;not null" json:"sender"`
	Text       string    `gorm:"column:text;type:text;not null" json:"text"`
	Incomplete bool      `gorm:"column:incomplete;not null;default:false" json:"incomplete,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index:idx_chat_messages_user_created,priority:2" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
