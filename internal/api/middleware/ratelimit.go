package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lb1717/vootes/pkg/ratelimit"
)

// RateLimitConfig holds rate limit configuration
type RateLimitConfig struct {
	Capacity   int64                     // Maximum number of requests
	RefillRate int64                     // Requests per second
	KeyFunc    func(*gin.Context) string // Function to extract rate limit key
}

// IPKeyFunc uses the client IP address (all endpoints are public)
func IPKeyFunc(c *gin.Context) string {
	return fmt.Sprintf("ip:%s", c.ClientIP())
}

// RateLimitMiddleware creates a rate limiting middleware
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	limiter := ratelimit.NewRateLimiter(config.Capacity, config.RefillRate)

	if config.KeyFunc == nil {
		config.KeyFunc = IPKeyFunc
	}

	return func(c *gin.Context) {
		key := config.KeyFunc(c)

		if !limiter.Allow(key) {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(config.Capacity, 10))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))
			c.Header("Retry-After", "1")

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": fmt.Sprintf("Too many requests. Limit: %d requests per second", config.RefillRate),
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(config.Capacity, 10))

		c.Next()
	}
}

// VoteRateLimit 투표 엔드포인트용 Rate Limit (기본 120회/분, IP 기준)
// 투표는 연타가 정상 사용 패턴이라 버스트 여유를 크게 잡는다
func VoteRateLimit(perMinute int64) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 120
	}
	return RateLimitMiddleware(RateLimitConfig{
		Capacity:   perMinute,
		RefillRate: perMinute / 60,
		KeyFunc:    IPKeyFunc,
	})
}

// AdminRateLimit 등록/업로드 엔드포인트용 Rate Limit (30회/분, IP 기준)
func AdminRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(RateLimitConfig{
		Capacity:   30,
		RefillRate: 1,
		KeyFunc:    IPKeyFunc,
	})
}
