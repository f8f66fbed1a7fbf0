package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/gemini"
	"github.com/yungbote/coursehub-backend/internal/requestdata"
)

type testEnv struct {
	db                 *gorm.DB
	log                *logger.Logger
	userRepo           repos.UserRepo
	courseRepo         repos.CourseRepo
	lessonRepo         repos.LessonRepo
	courseProgressRepo repos.CourseProgressRepo
	lessonProgressRepo repos.LessonProgressRepo
	chatRepo           repos.ChatMessageRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	if strings.Contains(db.Dialector.Name(), "postgres") {
		t.Skip("service tests commit data; run them against sqlite only")
	}
	log := testutil.Logger(t)
	return &testEnv{
		db:                 db,
		log:                log,
		userRepo:           repos.NewUserRepo(db, log),
		courseRepo:         repos.NewCourseRepo(db, log),
		lessonRepo:         repos.NewLessonRepo(db, log),
		courseProgressRepo: repos.NewCourseProgressRepo(db, log),
		lessonProgressRepo: repos.NewLessonProgressRepo(db, log),
		chatRepo:           repos.NewChatMessageRepo(db, log),
	}
}

func asUser(ctx context.Context, userID uint) context.Context {
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{UserID: userID})
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	if got := apierr.From(err).Status; got != status {
		t.Fatalf("status mismatch: got=%d want=%d (err=%v)", got, status, err)
	}
}

// fakeGemini replays scripted fragments. When failAfter >= 0 the stream
// returns failErr after that many fragments.
type fakeGemini struct {
	mu        sync.Mutex
	fragments []string
	failAfter int
	failErr   error
	reply     string

	gotHistory []gemini.Turn
	gotMessage string
}

func (f *fakeGemini) StreamChat(ctx context.Context, history []gemini.Turn, message string, onDelta func(string) error) (string, error) {
	f.mu.Lock()
	f.gotHistory = append([]gemini.Turn(nil), history...)
	f.gotMessage = message
	f.mu.Unlock()

	var sb strings.Builder
	for i, frag := range f.fragments {
		if f.failAfter >= 0 && i == f.failAfter {
			return sb.String(), f.failErr
		}
		sb.WriteString(frag)
		if err := onDelta(frag); err != nil {
			return sb.String(), err
		}
	}
	if f.failAfter >= len(f.fragments) {
		return sb.String(), f.failErr
	}
	return sb.String(), nil
}

func (f *fakeGemini) Generate(ctx context.Context, prompt string) (string, error) {
	if f.failErr != nil {
		return "", f.failErr
	}
	return f.reply, nil
}

func (f *fakeGemini) Model() string { return "fake" }
func (f *fakeGemini) Close() error  { return nil }

var errFakeUpstream = errors.New("upstream exploded")

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	failErr error
}

func (b *fakeBucket) UploadFile(ctx context.Context, key string, file io.Reader) error {
	if b.failErr != nil {
		return b.failErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.objects == nil {
		b.objects = map[string][]byte{}
	}
	b.objects[key] = data
	return nil
}

func (b *fakeBucket) DeleteFile(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *fakeBucket) GetPublicURL(key string) string { return "https://cdn.test/" + key }
func (b *fakeBucket) Close() error                   { return nil }
