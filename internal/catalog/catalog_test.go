package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
)

func TestSampleCatalogIsValid(t *testing.T) {
	t.Parallel()

	c, err := Sample()
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("sample catalog invalid: %v", err)
	}
	if len(c.Courses) != 3 {
		t.Fatalf("unexpected course count: %d", len(c.Courses))
	}
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing title": `
courses:
  - price: 1
`,
		"negative price": `
courses:
  - title: A
    price: -1
`,
		"duplicate title": `
courses:
  - title: Go
    price: 1
  - title: go
    price: 2
`,
		"quiz answer not an option": `
courses:
  - title: A
    price: 1
    lessons:
      - title: Q
        type: quiz
        content: {question: "?", options: ["a", "b"], answer: "c"}
`,
		"unknown lesson type": `
courses:
  - title: A
    price: 1
    lessons:
      - title: P
        type: podcast
        content: {url: "https://x.io"}
`,
		"repeated order index": `
courses:
  - title: A
    price: 1
    lessons:
      - {title: One, type: text, content: "<p>1</p>", order_index: 1}
      - {title: Two, type: text, content: "<p>2</p>", order_index: 1}
`,
	}
	for name, doc := range cases {
		c, err := Parse(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("%s: parse: %v", name, err)
		}
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestParseRejectsUnknownFieldsAndEmpty(t *testing.T) {
	t.Parallel()

	if _, err := Parse(strings.NewReader("courses:\n  - title: A\n    cost: 3\n")); err == nil {
		t.Fatalf("unknown field should be rejected")
	}
	if _, err := Parse(strings.NewReader("")); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("empty input: got %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	courseRepo := repos.NewCourseRepo(tx, log)
	lessonRepo := repos.NewLessonRepo(tx, log)
	seeder := NewSeeder(tx, log, courseRepo, lessonRepo)

	c, err := Sample()
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	res, err := seeder.Seed(ctx, c)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if res.CoursesCreated != 3 || res.LessonsCreated != 8 {
		t.Fatalf("first seed: %+v", res)
	}

	again, err := seeder.Seed(ctx, c)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if again.CoursesCreated != 0 || again.CoursesSkipped != 3 {
		t.Fatalf("second seed should skip everything: %+v", again)
	}

	courses, err := courseRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var concurrency *types.Course
	for _, course := range courses {
		if course.Title == "Concurrency Patterns" {
			concurrency = course
		}
	}
	if concurrency == nil {
		t.Fatalf("seeded course missing")
	}
	lessons, err := lessonRepo.ListByCourseID(dbctx.Context{Ctx: ctx}, concurrency.ID)
	if err != nil {
		t.Fatalf("ListByCourseID: %v", err)
	}
	if len(lessons) != 3 || lessons[0].OrderIndex != 0 || lessons[2].Type != types.LessonTypeQuiz {
		t.Fatalf("unexpected lessons: %+v", lessons)
	}
	decoded, err := lessons[1].DecodedContent()
	if err != nil {
		t.Fatalf("DecodedContent: %v", err)
	}
	if v, ok := decoded.(types.VideoContent); !ok || !strings.HasSuffix(v.URL, "context.mp4") {
		t.Fatalf("bare-string video content not normalized: %#v", decoded)
	}
}
