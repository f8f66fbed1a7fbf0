package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

func TestLessonServiceCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	svc := NewLessonService(env.log, env.courseRepo, env.lessonRepo)
	ctx := context.Background()
	course := testutil.SeedCourse(t, ctx, env.db, "Go 101")

	quiz, err := svc.Create(ctx, course.ID, CreateLessonInput{
		Title:      "Check",
		Type:       "quiz",
		Content:    json.RawMessage(`"{\"question\":\"2+2?\",\"options\":[\"3\",\"4\"],\"answer\":\"4\"}"`),
		OrderIndex: ptr(1),
	})
	if err != nil {
		t.Fatalf("Create quiz: %v", err)
	}
	if _, err := svc.Create(ctx, course.ID, CreateLessonInput{
		Title:      "Watch",
		Type:       "video",
		Content:    json.RawMessage(`{"url":"https://cdn.example.com/a.mp4"}`),
		OrderIndex: ptr(0),
	}); err != nil {
		t.Fatalf("Create video: %v", err)
	}

	lessons, err := svc.ListByCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	if len(lessons) != 2 || lessons[0].Type != types.LessonTypeVideo || lessons[1].ID != quiz.ID {
		t.Fatalf("lessons not ordered by order_index: %+v", lessons)
	}

	// Serialized quiz strings are normalized to the object form.
	var stored map[string]any
	if err := json.Unmarshal(lessons[1].Content, &stored); err != nil {
		t.Fatalf("stored content is not an object: %v", err)
	}
	if stored["answer"] != "4" {
		t.Fatalf("unexpected stored quiz: %v", stored)
	}

	res, err := svc.CheckAnswer(ctx, quiz.ID, "4")
	if err != nil || !res.Correct {
		t.Fatalf("CheckAnswer(correct): res=%+v err=%v", res, err)
	}
	res, err = svc.CheckAnswer(ctx, quiz.ID, "3")
	if err != nil || res.Correct || res.Answer != "4" {
		t.Fatalf("CheckAnswer(wrong): res=%+v err=%v", res, err)
	}
	_, err = svc.CheckAnswer(ctx, lessons[0].ID, "4")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestLessonServiceErrors(t *testing.T) {
	env := newTestEnv(t)
	svc := NewLessonService(env.log, env.courseRepo, env.lessonRepo)
	ctx := context.Background()
	course := testutil.SeedCourse(t, ctx, env.db, "Go 101")

	_, err := svc.Create(ctx, course.ID, CreateLessonInput{Title: "x", Type: "text", Content: json.RawMessage(`{"html":"<p/>"}`)})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(ctx, course.ID, CreateLessonInput{Title: "x", Type: "quiz", Content: json.RawMessage(`{"question":"q","options":["a","b"],"answer":"c"}`), OrderIndex: ptr(0)})
	requireStatus(t, err, http.StatusBadRequest)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "invalid_content" || !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("bad quiz content: got %v", err)
	}

	_, err = svc.Create(ctx, 999, CreateLessonInput{Title: "x", Type: "text", Content: json.RawMessage(`{"html":"<p/>"}`), OrderIndex: ptr(0)})
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.ListByCourse(ctx, 999)
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.Get(ctx, 999)
	requireStatus(t, err, http.StatusNotFound)
}
