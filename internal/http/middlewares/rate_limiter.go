package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// WriteRateLimiter caps mutating requests per client IP in a fixed window.
// Reads are never limited.
func WriteRateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	type clientWindow struct {
		count int
		start time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*clientWindow)
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !isWrite(c.Request().Method) {
				return next(c)
			}

			now := time.Now()
			ip := c.RealIP()

			mu.Lock()
			for key, w := range clients {
				if now.Sub(w.start) > window {
					delete(clients, key)
				}
			}
			w, ok := clients[ip]
			if !ok {
				w = &clientWindow{start: now}
				clients[ip] = w
			}
			if w.count >= limit {
				retryAfter := window - now.Sub(w.start)
				mu.Unlock()
				c.Response().Header().Set("Retry-After", retryAfterSeconds(retryAfter))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many changes, slow down")
			}
			w.count++
			mu.Unlock()

			return next(c)
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

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
