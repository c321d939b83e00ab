package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSimpleRateLimitBlocksOverLimit(t *testing.T) {
	const max = 3
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", SimpleRateLimit(max, time.Hour), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.1.2.3:5000"
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < max; i++ {
		if code := do(); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, code)
		}
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("request over limit: status = %d, want 429", code)
	}
}

func TestSimpleRateLimitWindowResets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", SimpleRateLimit(1, 10*time.Millisecond), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.9.8.7:5000"
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", code)
	}
	time.Sleep(20 * time.Millisecond)
	if code := do(); code != http.StatusOK {
		t.Fatalf("after window: status = %d, want 200", code)
	}
}
