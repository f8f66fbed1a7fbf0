package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
)

const sessionKeyPrefix = "session:"

// SessionStore maps opaque session ids to user ids. Get returns
// ErrNotFound for unknown or expired sessions.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (uint, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKeyPrefix+sessionID, strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID string) (uint, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, pkgerrors.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, pkgerrors.ErrNotFound
	}
	return uint(id), nil
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

type memoryEntry struct {
	userID    uint
	expiresAt time.Time
}

type memorySessionStore struct {
	mu   sync.Mutex
	now  func() time.Time
	data map[string]memoryEntry
}

// NewMemorySessionStore keeps sessions in process. Used when Redis is not configured.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{now: time.Now, data: map[string]memoryEntry{}}
}

func (s *memorySessionStore) Save(_ context.Context, sessionID string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = memoryEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, sessionID string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[sessionID]
	if !ok {
		return 0, pkgerrors.ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.data, sessionID)
		return 0, pkgerrors.ErrNotFound
	}
	return e.userID, nil
}

func (s *memorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}
