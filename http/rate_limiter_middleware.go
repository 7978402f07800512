package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

func RateLimitMiddleware(
	limiter *RateLimiter,
	logger *zap.Logger,
	next http.Handler,
) http.Handler {
	logger = orNop(logger)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		wait, ok := limiter.allow(ip)
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			logger.Info("rate limit exceeded", zap.String("client", ip), zap.String("path", r.URL.Path))
			writeError(w, logger, &requestError{status: http.StatusTooManyRequests, message: "rate limit exceeded"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
