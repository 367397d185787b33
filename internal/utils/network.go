package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP extracts the client IP address, looking through the proxy headers
// a reverse proxy or load balancer sets before falling back to gin.
func RealIP(c *gin.Context) string {
	realIP := strings.TrimSpace(c.Request.Header.Get("X-Real-IP"))
	if realIP != "" && isPublicIP(realIP) {
		return realIP
	}

	// X-Forwarded-For lists client, proxy1, proxy2. The first public entry
	// is the real client.
	forwarded := c.Request.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		for _, ipStr := range ips {
			clientIP := strings.TrimSpace(ipStr)
			if isPublicIP(clientIP) {
				return clientIP
			}
		}
		if first := strings.TrimSpace(ips[0]); net.ParseIP(first) != nil {
			return first
		}
	}

	return c.ClientIP()
}

func isPublicIP(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && !ip.IsPrivate() && !ip.IsLoopback()
}
