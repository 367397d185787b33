package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"

	"github.com/communitytransit/directions-backend/internal/utils"
)

// RequestLogger logs each request with timing, status and client details.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ua := user_agent.New(c.Request.UserAgent())
		browser, _ := ua.Browser()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  utils.RealIP(c),
			"browser":    browser,
			"mobile":     ua.Mobile(),
		}).Info("Request handled")
	}
}
