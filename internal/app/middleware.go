package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDKey = "requestID"

// RequestID propagates an X-Request-ID header, minting one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	entry := log.WithField("component", "rest")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start).String(),
			"requestID": c.GetString(requestIDKey),
		}).Info("request handled")
	}
}
