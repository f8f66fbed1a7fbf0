package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

type CreateCourseInput struct {
	Title       string
	Description string
	Instructor  string
	Duration    string
	Price       *float64
	ImageURL    string
}

// CourseDetail is a course together with its ordered lessons.
type CourseDetail struct {
	Course  *types.Course
	Lessons []*types.Lesson
}

type CourseService interface {
	List(ctx context.Context) ([]*types.Course, error)
	Get(ctx context.Context, id uint) (*types.Course, error)
	GetDetail(ctx context.Context, id uint) (*CourseDetail, error)
	Create(ctx context.Context, in CreateCourseInput) (*types.Course, error)
}

type courseService struct {
	log          *logger.Logger
	courseRepo   repos.CourseRepo
	lessonRepo   repos.LessonRepo
	coverService CoverService
}

// NewCourseService accepts a nil coverService; courses then keep whatever
// image_url the caller supplied.
func NewCourseService(log *logger.Logger, courseRepo repos.CourseRepo, lessonRepo repos.LessonRepo, coverService CoverService) CourseService {
	return &courseService{
		log:          log.With("service", "CourseService"),
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		coverService: coverService,
	}
}

func (cs *courseService) List(ctx context.Context) ([]*types.Course, error) {
	return cs.courseRepo.List(dbctx.Context{Ctx: ctx})
}

func (cs *courseService) Get(ctx context.Context, id uint) (*types.Course, error) {
	course, err := cs.courseRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, apierr.NotFound("course_not_found", "course not found")
	}
	return course, err
}

func (cs *courseService) GetDetail(ctx context.Context, id uint) (*CourseDetail, error) {
	var (
		course  *types.Course
		lessons []*types.Lesson
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := cs.Get(gctx, id)
		course = c
		return err
	})
	g.Go(func() error {
		ls, err := cs.lessonRepo.ListByCourseID(dbctx.Context{Ctx: gctx}, id)
		lessons = ls
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &CourseDetail{Course: course, Lessons: lessons}, nil
}

func (cs *courseService) Create(ctx context.Context, in CreateCourseInput) (*types.Course, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Price == nil {
		return nil, apierr.Validation("missing_fields", "title and price are required")
	}
	if *in.Price < 0 || math.IsNaN(*in.Price) || math.IsInf(*in.Price, 0) {
		return nil, apierr.Validation("invalid_price", "price must be a non-negative number")
	}

	course := &types.Course{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Instructor:  strings.TrimSpace(in.Instructor),
		Duration:    strings.TrimSpace(in.Duration),
		Price:       *in.Price,
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	if _, err := cs.courseRepo.Create(dbctx.Context{Ctx: ctx}, []*types.Course{course}); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	cs.log.Info("Course created", "course_id", course.ID)

	if course.ImageURL == "" && cs.coverService != nil {
		url, err := cs.coverService.CreateAndUploadCourseCover(ctx, course)
		if err != nil {
			// The course stays usable without a cover.
			cs.log.Warn("failed to generate course cover (ignored)", "course_id", course.ID, "error", err)
			return course, nil
		}
		if err := cs.courseRepo.UpdateImageURL(dbctx.Context{Ctx: ctx}, course.ID, url); err != nil {
			cs.log.Warn("failed to store course cover url (ignored)", "course_id", course.ID, "error", err)
			return course, nil
		}
		course.ImageURL = url
	}
	return course, nil
}
