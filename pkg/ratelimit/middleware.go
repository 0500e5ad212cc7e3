package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"eventure/internal/shared/utils/response"
	"eventure/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware enforces per-IP limits, with the class picked off the route.
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// Fail open: a Redis outage must not take bookings down with it.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"):
		return RateLimitTypeHealth

	// Booking flow endpoints mutate inventory, so they get the tightest
	// budget.
	case strings.Contains(path, "/book"),
		strings.Contains(path, "/payment-proof"),
		strings.Contains(path, "/cancel"):
		return RateLimitTypeBooking

	// Organizer console and review queue
	case strings.Contains(path, "/owned"),
		strings.Contains(path, "/organizer"),
		strings.Contains(path, "/accept"),
		strings.Contains(path, "/reject"),
		strings.Contains(path, "/publish"),
		strings.Contains(path, "/ticket-types"):
		return RateLimitTypeOrganizer

	// Public browsing
	case strings.Contains(path, "/events"),
		strings.Contains(path, "/vouchers"),
		strings.Contains(path, "/coupons"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// getClientIP resolves the caller's address, preferring proxy headers.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		ip := strings.TrimSpace(parts[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		if net.ParseIP(realIP) != nil {
			return realIP
		}
	}

	return c.ClientIP()
}
