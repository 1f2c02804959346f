package rpc

import (
	"net/http"

	"github.com/nordveil/goPageStash/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

// Server is a minimal wrapper around a gRPC server carrying the PageCache
// service, with optional recovery, rate limiting, and tracing middleware.
type Server struct {
	grpcServer *grpc.Server
}

// config holds the internal configuration assembled via functional options.
type config struct {
	unaryInterceptors []grpc.UnaryServerInterceptor
}

// Option configures a Server.
type Option func(*config)

// WithRecovery prepends a panic-recovery interceptor so that a panic inside
// a handler returns codes.Internal instead of crashing the process.
func WithRecovery() Option {
	return func(c *config) {
		c.unaryInterceptors = append([]grpc.UnaryServerInterceptor{recoveryUnary()}, c.unaryInterceptors...)
	}
}

// WithRateLimit rejects requests with codes.ResourceExhausted once the
// global token bucket (rps requests per second, the given burst) is empty.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *config) {
		c.unaryInterceptors = append(c.unaryInterceptors, rateLimitUnary(rps, burst))
	}
}

// WithTracing creates a span for every RPC, extracting upstream trace
// context from incoming metadata.
func WithTracing(cfg tracing.Config) Option {
	return func(c *config) {
		c.unaryInterceptors = append(c.unaryInterceptors, tracing.UnaryServerInterceptor(&cfg))
	}
}

// NewServer creates a Server by applying functional options, wiring the
// resulting unary interceptor chain into grpc.NewServer, and registering the
// PageCache service with the given handler.
func NewServer(h Handler, opts ...Option) *Server {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	var serverOpts []grpc.ServerOption
	if u := chainUnary(cfg.unaryInterceptors); u != nil {
		serverOpts = append(serverOpts, grpc.UnaryInterceptor(u))
	}

	s := &Server{grpcServer: grpc.NewServer(serverOpts...)}
	Register(s.grpcServer, h)
	return s
}

// GRPC returns the underlying *grpc.Server so callers can serve and stop it.
func (s *Server) GRPC() *grpc.Server {
	return s.grpcServer
}

// MetricsHandler returns an http.Handler that serves Prometheus metrics.
func (s *Server) MetricsHandler() http.Handler {
	return promhttp.Handler()
}
