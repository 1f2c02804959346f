package rpc

import (
	"context"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errRateLimited is allocated once to avoid per-request allocations on the hot path.
var errRateLimited = status.Error(codes.ResourceExhausted, "rate limit exceeded")

// recoveryUnary returns a unary server interceptor that recovers from panics
// and returns an Internal gRPC error instead of crashing the process.
func recoveryUnary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				resp = nil
				err = status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// rateLimitUnary returns a unary server interceptor that rejects requests
// once the global token bucket is exhausted.
func rateLimitUnary(rps float64, burst int) grpc.UnaryServerInterceptor {
	lim := rate.NewLimiter(rate.Limit(rps), burst)
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !lim.Allow() {
			return nil, errRateLimited
		}
		return handler(ctx, req)
	}
}

// chainUnary composes multiple unary interceptors into a single one.
// Interceptors execute in the order they appear in the slice.
func chainUnary(interceptors []grpc.UnaryServerInterceptor) grpc.UnaryServerInterceptor {
	switch len(interceptors) {
	case 0:
		return nil
	case 1:
		return interceptors[0]
	}

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		curr := handler
		for i := len(interceptors) - 1; i > 0; i-- {
			next := curr
			ic := interceptors[i]
			curr = func(ctx context.Context, req any) (any, error) {
				return ic(ctx, req, info, next)
			}
		}
		return interceptors[0](ctx, req, info, curr)
	}
}
