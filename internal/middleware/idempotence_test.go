package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newIdempotenceRouter(t *testing.T, handler gin.HandlerFunc) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	r := gin.New()
	r.Use(Idempotence(rdb))
	r.POST("/api/v2/blogs", handler)
	r.POST("/api/v2/auth/login", handler)
	return r, mr
}

func postWithKey(r *gin.Engine, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(idempotenceHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotenceRejectsRepeat(t *testing.T) {
	r, _ := newIdempotenceRouter(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	if w := postWithKey(r, "/api/v2/blogs", "k1"); w.Code != http.StatusOK {
		t.Fatalf("first request = %d", w.Code)
	}
	if w := postWithKey(r, "/api/v2/blogs", "k1"); w.Code != http.StatusConflict {
		t.Fatalf("repeat = %d, want 409", w.Code)
	}
	// A different key is a different request.
	if w := postWithKey(r, "/api/v2/blogs", "k2"); w.Code != http.StatusOK {
		t.Fatalf("distinct key = %d", w.Code)
	}
}

func TestIdempotenceFailedRequestCanRetry(t *testing.T) {
	r, _ := newIdempotenceRouter(t, func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "nope"})
	})

	postWithKey(r, "/api/v2/blogs", "k1")
	if w := postWithKey(r, "/api/v2/blogs", "k1"); w.Code != http.StatusBadRequest {
		t.Fatalf("retry after failure = %d, want to reach the handler", w.Code)
	}
}

func TestIdempotenceSkipsLogin(t *testing.T) {
	r, _ := newIdempotenceRouter(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		if w := postWithKey(r, "/api/v2/auth/login", "k1"); w.Code != http.StatusOK {
			t.Fatalf("login attempt %d = %d", i+1, w.Code)
		}
	}
}

func TestIdempotenceMarkerSurvivesClientDisconnect(t *testing.T) {
	var disconnect context.CancelFunc
	r, mr := newIdempotenceRouter(t, func(c *gin.Context) {
		// The client goes away while the handler is still running.
		disconnect()
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	ctx, cancel := context.WithCancel(context.Background())
	disconnect = cancel
	req := httptest.NewRequest("POST", "/api/v2/blogs", strings.NewReader(`{"title":"x"}`)).WithContext(ctx)
	req.Header.Set(idempotenceHeader, "k1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got, err := mr.Get("habaru:idempotence:k1")
	if err != nil || got != "1" {
		t.Fatalf("marker = (%q, %v), want the completed marker despite the disconnect", got, err)
	}
}
