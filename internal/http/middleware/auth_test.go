package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/requestdata"
)

type stubResolver struct {
	gotBearer, gotSession string
	rd                    *requestdata.RequestData
	err                   error
}

func (s *stubResolver) Resolve(ctx context.Context, bearer, session string) (*requestdata.RequestData, error) {
	s.gotBearer, s.gotSession = bearer, session
	return s.rd, s.err
}

func newAuthRouter(t *testing.T, res *stubResolver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), res)
	r := gin.New()
	r.GET("/private", am.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "%d", requestdata.UserID(c.Request.Context()))
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		res := &stubResolver{}
		rec := httptest.NewRecorder()
		newAuthRouter(t, res).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status: got=%d", rec.Code)
		}
	})

	t.Run("bearer and cookie forwarded", func(t *testing.T) {
		res := &stubResolver{rd: &requestdata.RequestData{UserID: 7}}
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer abc.def.ghi")
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
		rec := httptest.NewRecorder()
		newAuthRouter(t, res).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || rec.Body.String() != "7" {
			t.Fatalf("unexpected response: %d %q", rec.Code, rec.Body.String())
		}
		if res.gotBearer != "abc.def.ghi" || res.gotSession != "sess-1" {
			t.Fatalf("credentials not forwarded: %q %q", res.gotBearer, res.gotSession)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		res := &stubResolver{err: apierr.Unauthorized("invalid or expired token")}
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		newAuthRouter(t, res).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status: got=%d", rec.Code)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		res := &stubResolver{err: errors.New("redis down")}
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
		rec := httptest.NewRecorder()
		newAuthRouter(t, res).ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status: got=%d", rec.Code)
		}
	})
}

func TestTraceContextHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get(headerRequestID); got != "req-123" {
		t.Fatalf("request id not echoed: %q", got)
	}
	if got := rec.Header().Get(headerTraceID); len(got) != 32 {
		t.Fatalf("trace id should be generated, got %q", got)
	}
}

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(logger.Nop(), nil)
	r := gin.New()
	r.GET("/", rl.Limit("chat", 1, 0), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status=%d", i, rec.Code)
		}
	}
}
