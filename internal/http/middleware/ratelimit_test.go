package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
)

type memCounter struct {
	mu    sync.Mutex
	hits  map[string]int64
	ttl   time.Duration
	err   error
	calls int
}

func (m *memCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, 0, m.err
	}
	if m.hits == nil {
		m.hits = map[string]int64{}
	}
	m.hits[key]++
	ttl := m.ttl
	if ttl == 0 {
		ttl = window
	}
	return m.hits[key], ttl, nil
}

func newLimitedRouter(counter windowCounter, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	rl := &RateLimiter{log: logger.Nop(), counter: counter}
	r := gin.New()
	r.POST("/chat", rl.Limit("chat", limit, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRateLimiterBlocksPastLimit(t *testing.T) {
	counter := &memCounter{ttl: 42 * time.Second}
	r := newLimitedRouter(counter, 2)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: got=%d", i, rec.Code)
		}
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: got=%d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "42" {
		t.Fatalf("Retry-After: got=%q", got)
	}
	if !strings.Contains(rec.Body.String(), `"rate_limited"`) {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	counter := &memCounter{err: errors.New("connection refused")}
	r := newLimitedRouter(counter, 1)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: got=%d", i, rec.Code)
		}
	}
	if counter.calls != 3 {
		t.Fatalf("counter calls: got=%d", counter.calls)
	}
}

// Runs against a real Redis when TEST_REDIS_ADDR is set.
func TestRedisWindowCounterRepairsMissingExpiry(t *testing.T) {
	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	key := "rate_limit:test:" + t.Name()
	t.Cleanup(func() { client.Del(context.Background(), key) })
	// A counter stuck without a TTL, as left by a failed EXPIRE.
	if err := client.Set(ctx, key, 5, 0).Err(); err != nil {
		t.Fatalf("seed key: %v", err)
	}

	count, left, err := redisWindowCounter{client: client}.Hit(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("Hit: %v", err)
	}
	if count != 6 || left != time.Minute {
		t.Fatalf("unexpected hit: count=%d left=%v", count, left)
	}
	ttl, err := client.PTTL(ctx, key).Result()
	if err != nil {
		t.Fatalf("PTTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("key still lacks an expiry: %v", ttl)
	}
}
