package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ipWindow 按 IP 的滑动窗口计数
type ipWindow struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	hits   map[string][]time.Time
}

func newIPWindow(limit int, window time.Duration) *ipWindow {
	return &ipWindow{max: limit, window: window, hits: make(map[string][]time.Time)}
}

// prune 移除窗口外的记录，调用方持有锁
func (w *ipWindow) prune(ts []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-w.window)
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// allow 记录一次请求，超过上限返回 false
func (w *ipWindow) allow(ip string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	ts := w.prune(w.hits[ip], now)
	if len(ts) >= w.max {
		w.hits[ip] = ts
		return false
	}
	w.hits[ip] = append(ts, now)
	return true
}

// sweep 清理所有过期 IP
func (w *ipWindow) sweep(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for ip, ts := range w.hits {
		if ts = w.prune(ts, now); len(ts) == 0 {
			delete(w.hits, ip)
		} else {
			w.hits[ip] = ts
		}
	}
}

// run 每隔 interval 清理一次，ctx 结束时退出
func (w *ipWindow) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.sweep(now)
		}
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// WriteRateLimit 写接口限流中间件
// 每 IP 每个窗口最多 maxRequests 次 POST/PUT/PATCH/DELETE，超过则返回 429；maxRequests <= 0 时不限流
// 过期数据的清理协程随 ctx 结束而退出
func WriteRateLimit(ctx context.Context, maxRequests int, window time.Duration) gin.HandlerFunc {
	if maxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newIPWindow(maxRequests, window)
	go limiter.run(ctx, time.Minute)

	return func(c *gin.Context) {
		if !isWrite(c.Request.Method) {
			c.Next()
			return
		}
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "操作过于频繁，请稍后再试",
			})
			return
		}
		c.Next()
	}
}
