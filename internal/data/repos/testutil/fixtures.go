package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/coursehub-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Course {
	tb.Helper()
	c := &types.Course{
		Title:       title,
		Description: "desc",
		Instructor:  "Ada",
		Duration:    "2h",
		Price:       19.99,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

// SeedLessons creates n text lessons for courseID with order_index 0..n-1.
func SeedLessons(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uint, n int) []*types.Lesson {
	tb.Helper()
	out := make([]*types.Lesson, 0, n)
	for i := 0; i < n; i++ {
		l := &types.Lesson{
			CourseID:   courseID,
			Title:      fmt.Sprintf("lesson %d", i+1),
			Type:       types.LessonTypeText,
			Content:    []byte(`{"html":"<p>body</p>"}`),
			OrderIndex: i,
		}
		if err := tx.WithContext(ctx).Create(l).Error; err != nil {
			tb.Fatalf("seed lesson: %v", err)
		}
		out = append(out, l)
	}
	return out
}

func SeedLessonCompleted(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, lessonID uint) *types.LessonProgress {
	tb.Helper()
	now := time.Now().UTC()
	lp := &types.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		Status:      types.StatusCompleted,
		CompletedAt: &now,
	}
	if err := tx.WithContext(ctx).Create(lp).Error; err != nil {
		tb.Fatalf("seed lesson progress: %v", err)
	}
	return lp
}
