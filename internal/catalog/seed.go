package catalog

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

type SeedResult struct {
	CoursesCreated int
	CoursesSkipped int
	LessonsCreated int
}

type Seeder struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
	lessonRepo repos.LessonRepo
}

func NewSeeder(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo, lessonRepo repos.LessonRepo) *Seeder {
	return &Seeder{
		db:         db,
		log:        log.With("service", "CatalogSeeder"),
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
	}
}

// Seed inserts every course whose title is not already present, together
// with its lessons, in one transaction. Re-running it is a no-op.
func (s *Seeder) Seed(ctx context.Context, c *Catalog) (SeedResult, error) {
	var res SeedResult
	if err := c.Validate(); err != nil {
		return res, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.courseRepo.List(dbc)
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		have := make(map[string]struct{}, len(existing))
		for _, course := range existing {
			have[strings.ToLower(strings.TrimSpace(course.Title))] = struct{}{}
		}

		for i := range c.Courses {
			entry := &c.Courses[i]
			title := strings.TrimSpace(entry.Title)
			if _, ok := have[strings.ToLower(title)]; ok {
				res.CoursesSkipped++
				s.log.Debug("Course already present", "title", title)
				continue
			}
			course := &types.Course{
				Title:       title,
				Description: strings.TrimSpace(entry.Description),
				Instructor:  strings.TrimSpace(entry.Instructor),
				Duration:    strings.TrimSpace(entry.Duration),
				Price:       entry.Price,
				ImageURL:    strings.TrimSpace(entry.ImageURL),
			}
			if _, err := s.courseRepo.Create(dbc, []*types.Course{course}); err != nil {
				return fmt.Errorf("create course %q: %w", title, err)
			}
			lessons, err := entry.lessonModels(course.ID)
			if err != nil {
				return fmt.Errorf("course %q: %w", title, err)
			}
			if len(lessons) > 0 {
				if _, err := s.lessonRepo.Create(dbc, lessons); err != nil {
					return fmt.Errorf("create lessons for %q: %w", title, err)
				}
			}
			res.CoursesCreated++
			res.LessonsCreated += len(lessons)
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	s.log.Info("Catalog seeded",
		"courses_created", res.CoursesCreated,
		"courses_skipped", res.CoursesSkipped,
		"lessons_created", res.LessonsCreated,
	)
	return res, nil
}
