package gopagestash

import (
	"time"

	"github.com/nordveil/goPageStash/metrics"
	"github.com/nordveil/goPageStash/tracing"
)

// config holds the internal configuration assembled via functional options.
type config struct {
	ttl      time.Duration
	coalesce bool
	metrics  *metrics.Metrics
	tracing  *tracing.Config
}
