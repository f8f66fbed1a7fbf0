package learning

import (
	"errors"
	"testing"

	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
)

func TestParseLessonContentVariants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		kind LessonType
		raw  string
		ok   bool
	}{
		{"video object", LessonTypeVideo, `{"url":"https://cdn.example.com/intro.mp4"}`, true},
		{"video bare string", LessonTypeVideo, `"https://youtu.be/abc"`, true},
		{"video relative url", LessonTypeVideo, `{"url":"/intro.mp4"}`, false},
		{"text object", LessonTypeText, `{"html":"<p>hi</p>"}`, true},
		{"text bare string", LessonTypeText, `"<p>hi</p>"`, true},
		{"text empty", LessonTypeText, `{"html":"  "}`, false},
		{"quiz object", LessonTypeQuiz, `{"question":"2+2?","options":["3","4"],"answer":"4"}`, true},
		{"quiz serialized string", LessonTypeQuiz, `"{\"question\":\"2+2?\",\"options\":[\"3\",\"4\"],\"answer\":\"4\"}"`, true},
		{"quiz answer not an option", LessonTypeQuiz, `{"question":"2+2?","options":["3","5"],"answer":"4"}`, false},
		{"quiz single option", LessonTypeQuiz, `{"question":"2+2?","options":["4"],"answer":"4"}`, false},
		{"quiz duplicate option", LessonTypeQuiz, `{"question":"q","options":["a","a"],"answer":"a"}`, false},
		{"unknown type", LessonType("podcast"), `{"url":"https://x.io"}`, false},
		{"null content", LessonTypeText, `null`, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLessonContent(tc.kind, []byte(tc.raw))
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.Kind() != tc.kind {
					t.Fatalf("kind mismatch: got=%s want=%s", got.Kind(), tc.kind)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error, got content %#v", got)
			}
			if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestEncodeLessonContentRoundTrip(t *testing.T) {
	t.Parallel()

	quiz := QuizContent{Question: "Capital of France?", Options: []string{"Paris", "Lyon"}, Answer: "Paris"}
	raw, err := EncodeLessonContent(quiz)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	l := &Lesson{Type: LessonTypeQuiz, Content: raw}
	decoded, err := l.DecodedContent()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	q, ok := decoded.(QuizContent)
	if !ok {
		t.Fatalf("unexpected variant %T", decoded)
	}
	if !q.Check("Paris") || q.Check("Lyon") {
		t.Fatalf("quiz check mismatch")
	}
}

func TestComputeCourseProgress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		completed, total int64
		pct              float64
		status           string
	}{
		{0, 0, 0, StatusNotStarted},
		{3, 0, 0, StatusNotStarted},
		{0, 4, 0, StatusInProgress},
		{1, 4, 25, StatusInProgress},
		{4, 4, 100, StatusCompleted},
		{5, 4, 100, StatusCompleted},
	}
	for _, tc := range cases {
		pct, status := ComputeCourseProgress(tc.completed, tc.total)
		if pct != tc.pct || status != tc.status {
			t.Fatalf("ComputeCourseProgress(%d,%d) = (%v,%s), want (%v,%s)", tc.completed, tc.total, pct, status, tc.pct, tc.status)
		}
	}

	pct, status := ComputeCourseProgress(2, 3)
	if status != StatusInProgress || pct < 66.66 || pct > 66.67 {
		t.Fatalf("two of three: got (%v,%s)", pct, status)
	}
}
