package learning

import (
	"time"

	"gorm.io/datatypes"
)

type Lesson struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID   uint           `gorm:"column:course_id;not null;index:idx_lessons_course_order,priority:1" json:"course_id"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	Type       LessonType     `gorm:"column:type;not null" json:"type"`
	Content    datatypes.JSON `gorm:"column:content;not null" json:"content"`
	OrderIndex int            `gorm:"column:order_index;not null;index:idx_lessons_course_order,priority:2" json:"order_index"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Lesson) TableName() string { return "lessons" }

// DecodedContent returns the typed content variant for the lesson's type.
func (l *Lesson) DecodedContent() (LessonContent, error) {
	return ParseLessonContent(l.Type, []byte(l.Content))
}
