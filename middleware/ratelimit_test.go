package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(t *testing.T, limit int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	router.Use(WriteRateLimit(ctx, limit, window))
	router.POST("/api/transactions", func(c *gin.Context) {
		c.String(200, "ok")
	})
	router.GET("/api/transactions", func(c *gin.Context) {
		c.String(200, "ok")
	})
	return router
}

func doReq(router *gin.Engine, method, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/transactions", nil)
	req.Header.Set("X-Real-IP", ip)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWriteRateLimit(t *testing.T) {
	router := newLimitedRouter(t, 2, time.Minute)

	// 同一 IP 连续 3 次写入，第 3 次应返回 429
	w1 := doReq(router, "POST", "192.168.1.1")
	w2 := doReq(router, "POST", "192.168.1.1")
	w3 := doReq(router, "POST", "192.168.1.1")

	assert.Equal(t, 200, w1.Code)
	assert.Equal(t, 200, w2.Code)
	assert.Equal(t, http.StatusTooManyRequests, w3.Code)
	assert.Contains(t, w3.Body.String(), "频繁")

	// 读请求不受限
	assert.Equal(t, 200, doReq(router, "GET", "192.168.1.1").Code)

	// 不同 IP 互不影响
	assert.Equal(t, 200, doReq(router, "POST", "192.168.1.2").Code)
	assert.Equal(t, 200, doReq(router, "POST", "192.168.1.2").Code)
}

func TestWriteRateLimit_Disabled(t *testing.T) {
	router := newLimitedRouter(t, 0, time.Minute)

	for i := 0; i < 10; i++ {
		assert.Equal(t, 200, doReq(router, "POST", "10.0.0.1").Code)
	}
}

func TestIPWindow_Expiry(t *testing.T) {
	w := newIPWindow(1, time.Second)
	base := time.Date(2025, 9, 17, 10, 0, 0, 0, time.UTC)

	assert.True(t, w.allow("a", base))
	assert.False(t, w.allow("a", base.Add(500*time.Millisecond)))
	assert.True(t, w.allow("a", base.Add(1500*time.Millisecond)))

	w.sweep(base.Add(time.Hour))
	assert.Empty(t, w.hits)
}

func TestIPWindow_RunStopsOnCancel(t *testing.T) {
	w := newIPWindow(1, time.Millisecond)
	w.allow("a", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.hits) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("清理协程未退出")
	}
}
