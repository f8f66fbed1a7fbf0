package learning

import "time"

type Course struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Instructor  string    `gorm:"column:instructor" json:"instructor"`
	Duration    string    `gorm:"column:duration" json:"duration"`
	Price       float64   `gorm:"column:price;not null" json:"price"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Course) TableName() string { return "courses" }
