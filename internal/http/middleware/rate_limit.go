package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/diagnosis/sindhu-tours/internal/http/response"
	"github.com/diagnosis/sindhu-tours/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type RateLimitConfig struct {
	Requests int           // max requests per window
	Window   time.Duration // fixed window length
	Prefix   string        // key namespace, e.g. "login"
	KeyFunc  func(r *http.Request) []string
}

// Counter is the subset of the redis client the limiter needs.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type RateLimiter struct {
	rdb    Counter
	config RateLimitConfig
}

func NewRateLimiter(rdb Counter, config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKeyFunc
	}
	return &RateLimiter{rdb: rdb, config: config}
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, key := range rl.config.KeyFunc(r) {
				if !rl.allow(r.Context(), key) {
					response.RateLimit(w, "Too many requests. Try again later.")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// allow fails open when redis is unavailable.
func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	sum := sha256.Sum256([]byte(key))
	redisKey := fmt.Sprintf("ratelimit:%s:%x", rl.config.Prefix, sum[:8])

	count, err := rl.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		logger.WarnContext(ctx, "rate limiter unavailable", "error", err)
		return true
	}
	if count == 1 {
		if err := rl.rdb.Expire(ctx, redisKey, rl.config.Window).Err(); err != nil {
			logger.WarnContext(ctx, "rate limiter expire failed", "error", err)
		}
	}
	return count <= int64(rl.config.Requests)
}

func ClientIPKeyFunc(r *http.Request) []string {
	if ip := clientIP(r); ip != "" {
		return []string{"ip:" + ip}
	}
	return nil
}

// clientIP reads RemoteAddr only. Forwarding headers are applied upstream by
// RealIP when the service runs behind a trusted proxy.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
