package grpc

import (
	"context"
	"path"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/focusplanner/internal/adapters/metrics"
	"github.com/andrescamacho/focusplanner/internal/application/logging"
)

// RateLimitInterceptor rejects requests beyond the token bucket with ResourceExhausted.
// A nil limiter lets everything through.
func RateLimitInterceptor(limiter *rate.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if limiter != nil && !limiter.Allow() {
			method := path.Base(info.FullMethod)
			metrics.RecordRateLimited(method)
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for %s", method)
		}
		return handler(ctx, req)
	}
}

// LoggingInterceptor puts logger into the request context and logs every call
func LoggingInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if logger == nil {
			return handler(ctx, req)
		}
		ctx = logging.WithLogger(ctx, logger)

		start := time.Now()
		resp, err := handler(ctx, req)

		metadata := map[string]interface{}{
			"method":      path.Base(info.FullMethod),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if err != nil {
			metadata["code"] = status.Code(err).String()
			metadata["error"] = status.Convert(err).Message()
			logger.Log(logging.LevelWarn, "rpc failed", metadata)
			return resp, err
		}

		logger.Log(logging.LevelDebug, "rpc handled", metadata)
		return resp, nil
	}
}

// newLimiter builds the daemon token bucket; non-positive settings disable throttling
func newLimiter(requests, burst int) *rate.Limiter {
	if requests <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = requests
	}
	return rate.NewLimiter(rate.Limit(requests), burst)
}
