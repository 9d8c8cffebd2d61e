package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newLimitedEngine(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/upload", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return engine
}

func post(engine *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_Middleware(t *testing.T) {
	t.Run("rejects requests over the limit", func(t *testing.T) {
		rl := NewRateLimiter(2, time.Minute)
		engine := newLimitedEngine(rl)

		for i := 0; i < 2; i++ {
			if rec := post(engine, "10.0.0.1:1234"); rec.Code != http.StatusCreated {
				t.Fatalf("request %d: expected %d, got %d", i, http.StatusCreated, rec.Code)
			}
		}

		rec := post(engine, "10.0.0.1:1234")
		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("expected %d, got %d", http.StatusTooManyRequests, rec.Code)
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Error("expected Retry-After header")
		}
	})

	t.Run("limits each client separately", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)
		engine := newLimitedEngine(rl)

		post(engine, "10.0.0.1:1234")
		if rec := post(engine, "10.0.0.2:1234"); rec.Code != http.StatusCreated {
			t.Errorf("expected %d, got %d", http.StatusCreated, rec.Code)
		}
	})

	t.Run("window reset allows new requests", func(t *testing.T) {
		now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
		rl := NewRateLimiter(1, time.Minute)
		rl.now = func() time.Time { return now }
		engine := newLimitedEngine(rl)

		post(engine, "10.0.0.1:1234")
		if rec := post(engine, "10.0.0.1:1234"); rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected %d, got %d", http.StatusTooManyRequests, rec.Code)
		}

		now = now.Add(61 * time.Second)
		if rec := post(engine, "10.0.0.1:1234"); rec.Code != http.StatusCreated {
			t.Errorf("expected %d, got %d", http.StatusCreated, rec.Code)
		}
	})
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }

	rl.allow("a")
	rl.allow("b")
	now = now.Add(2 * time.Minute)
	rl.allow("c")
	rl.Cleanup()

	if len(rl.entries) != 1 {
		t.Errorf("expected 1 entry after cleanup, got %d", len(rl.entries))
	}
}
