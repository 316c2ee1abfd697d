package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionCookie = "tweetshot_session"
	storeKey      = "store"
)

// requestLogger logs one line per request with zap.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if status >= 500 {
			log.Error("request failed", fields...)
		} else {
			log.Debug("request", fields...)
		}
	}
}

// withSession attaches the caller's store to the request, issuing a new
// session cookie when needed.
func withSession(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)
		store, current := sessions.Get(id)
		if current != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, current, 0, "/", "", false, true)
		}
		c.Set(storeKey, store)
		c.Next()
	}
}
