package learning

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
)

func TestCourseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewCourseRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, []*types.Course{
		{Title: "Go basics", Price: 10},
		{Title: "Go concurrency", Price: 20},
	})
	if err != nil || len(created) != 2 {
		t.Fatalf("Create: err=%v len=%d", err, len(created))
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil || got.Title != "Go basics" {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}
	if _, err := repo.GetByID(dbc, 9999); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("GetByID missing: expected ErrNotFound, got %v", err)
	}

	all, err := repo.List(dbc)
	if err != nil || len(all) != 2 {
		t.Fatalf("List: err=%v len=%d", err, len(all))
	}

	if ok, err := repo.Exists(dbc, created[1].ID); err != nil || !ok {
		t.Fatalf("Exists: ok=%v err=%v", ok, err)
	}

	if err := repo.UpdateImageURL(dbc, created[1].ID, "https://cdn.example.com/c.png"); err != nil {
		t.Fatalf("UpdateImageURL: %v", err)
	}
	after, _ := repo.GetByID(dbc, created[1].ID)
	if after.ImageURL != "https://cdn.example.com/c.png" {
		t.Fatalf("UpdateImageURL verify: %+v", after)
	}
}

func TestLessonRepoOrdersByIndex(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewLessonRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	course := testutil.SeedCourse(t, ctx, tx, "ordering")
	other := testutil.SeedCourse(t, ctx, tx, "other")

	if _, err := repo.Create(dbc, []*types.Lesson{
		{CourseID: course.ID, Title: "third", Type: types.LessonTypeText, Content: []byte(`{"html":"c"}`), OrderIndex: 2},
		{CourseID: course.ID, Title: "first", Type: types.LessonTypeText, Content: []byte(`{"html":"a"}`), OrderIndex: 0},
		{CourseID: course.ID, Title: "second", Type: types.LessonTypeText, Content: []byte(`{"html":"b"}`), OrderIndex: 1},
		{CourseID: other.ID, Title: "elsewhere", Type: types.LessonTypeText, Content: []byte(`{"html":"z"}`), OrderIndex: 0},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.ListByCourseID(dbc, course.ID)
	if err != nil {
		t.Fatalf("ListByCourseID: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(rows) != len(want) {
		t.Fatalf("ListByCourseID: len=%d want=%d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i].Title != w {
			t.Fatalf("ListByCourseID[%d]: got=%q want=%q", i, rows[i].Title, w)
		}
	}

	n, err := repo.CountByCourseID(dbc, course.ID)
	if err != nil || n != 3 {
		t.Fatalf("CountByCourseID: n=%d err=%v", n, err)
	}

	if _, err := repo.GetByID(dbc, 4242); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("GetByID missing: expected ErrNotFound, got %v", err)
	}
}
