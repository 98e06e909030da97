package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// Middleware rejects requests over the limit with 429 and a Retry-After
// header. Limiter errors let the request through.
func Middleware(api huma.API, limiter Limiter, log *zap.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		key := clientIP(ctx.RemoteAddr())

		allowed, retryAfter, err := limiter.Allow(ctx.Context(), key)
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", zap.String("client", key), zap.Error(err))
			next(ctx)
			return
		}
		if !allowed {
			secs := int(math.Ceil(retryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			ctx.SetHeader("Retry-After", strconv.Itoa(secs))
			log.Info("rate limit exceeded", zap.String("client", key), zap.Int("retry_after", secs))
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "Too many reservation requests, please try again later")
			return
		}
		next(ctx)
	}
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
