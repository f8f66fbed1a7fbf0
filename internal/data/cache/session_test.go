package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := &memorySessionStore{now: func() time.Time { return now }, data: map[string]memoryEntry{}}

	if err := store.Save(ctx, "s1", 7, time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Get(ctx, "s1")
	if err != nil || got != 7 {
		t.Fatalf("Get: got=%d err=%v", got, err)
	}

	now = now.Add(time.Minute)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expired session should be not found, got %v", err)
	}

	_ = store.Save(ctx, "s2", 9, time.Hour)
	if err := store.Delete(ctx, "s2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "s2"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("deleted session should be not found, got %v", err)
	}
}
