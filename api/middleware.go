package api

import (
	"time"

	"github.com/Alen-Aazim/noble-voting/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags each request with an id and logs it once it completes.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		entry := logging.Logger.WithFields(logrus.Fields{
			"module":     "api",
			"request_id": id,
			"verb":       c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		default:
			entry.Info("request completed")
		}
	}
}

// recovery turns a panic into a 500 and logs it through logrus.
func recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err interface{}) {
		logging.Logger.WithFields(logrus.Fields{"module": "api", "method": "recovery", "request_id": c.GetString("requestID"), "panic": err}).Error("handler panicked")
		c.AbortWithStatusJSON(500, gin.H{"success": false, "message": "Internal server error"})
	})
}
