package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/event-management-backend/config"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter limits requests per client IP to RATE_LIMIT_PER_MINUTE.
func RateLimiter(cfg *config.Config) gin.HandlerFunc {
	store := memory.NewStore()
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  cfg.RateLimitPerMinute,
	}

	instance := limiter.New(store, rate)

	return ginlimiter.NewMiddleware(instance)
}
