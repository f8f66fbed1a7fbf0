package learning

import "time"

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// CourseProgress is the per-user rollup of lesson completion for one course.
type CourseProgress struct {
	UserID             uint      `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	CourseID           uint      `gorm:"column:course_id;primaryKey;autoIncrement:false" json:"course_id"`
	Status             string    `gorm:"column:status;not null;default:'in_progress'" json:"status"`
	ProgressPercentage float64   `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	LastAccessed       time.Time `gorm:"column:last_accessed;not null" json:"last_accessed"`
}

func (CourseProgress) TableName() string { return "user_course_progress" }

type LessonProgress struct {
	UserID      uint       `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	LessonID    uint       `gorm:"column:lesson_id;primaryKey;autoIncrement:false" json:"lesson_id"`
	Status      string     `gorm:"column:status;not null;default:'not_started'" json:"status"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

func (LessonProgress) TableName() string { return "user_lesson_progress" }

// ValidLessonStatus reports whether s may be written to a LessonProgress row.
func ValidLessonStatus(s string) bool {
	return s == StatusNotStarted || s == StatusCompleted
}

// ComputeCourseProgress derives percentage and status from lesson counts.
// An empty course is always not_started at 0.
func ComputeCourseProgress(completed, total int64) (float64, string) {
	if total <= 0 {
		return 0, StatusNotStarted
	}
	if completed > total {
		completed = total
	}
	if completed < 0 {
		completed = 0
	}
	pct := 100 * float64(completed) / float64(total)
	if completed == total {
		return pct, StatusCompleted
	}
	return pct, StatusInProgress
}
