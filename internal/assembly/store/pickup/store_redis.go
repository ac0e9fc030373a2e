package pickup

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"paybridge/internal/assembly/models"
	"paybridge/internal/assembly/ports"
)

var lookupDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "paybridge_pickup_lookup_duration_ms",
	Help:    "Latency of pickup point lookups in milliseconds",
	Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
})

const (
	pickupKeyPrefix = "pickup:"
	// Pickup locations move rarely; a day of staleness is acceptable.
	defaultCacheTTL = 24 * time.Hour
)

// CachedSource is a Redis read-through cache in front of a carrier lookup.
// Cache failures degrade to the underlying source; a cold cache must never
// fail a payment attempt.
type CachedSource struct {
	client *redis.Client
	next   ports.PickupPointSource
	ttl    time.Duration
}

type CachedSourceOption func(*CachedSource)

func WithTTL(ttl time.Duration) CachedSourceOption {
	return func(s *CachedSource) {
		s.ttl = ttl
	}
}

func NewCached(client *redis.Client, next ports.PickupPointSource, opts ...CachedSourceOption) *CachedSource {
	s := &CachedSource{
		client: client,
		next:   next,
		ttl:    defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CachedSource) Locate(ctx context.Context, carrier models.Carrier, reference string) (*models.PickupLocation, error) {
	start := time.Now()
	defer func() {
		lookupDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	}()

	cacheKey := pickupKeyPrefix + key(carrier, reference)

	// Any cache miss or cache error falls through to the carrier lookup.
	raw, err := s.client.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var loc models.PickupLocation
		if err := json.Unmarshal(raw, &loc); err == nil {
			return &loc, nil
		}
	}

	loc, err := s.next.Locate(ctx, carrier, reference)
	if err != nil || loc == nil {
		return loc, err
	}

	if encoded, err := json.Marshal(loc); err == nil {
		s.client.Set(ctx, cacheKey, encoded, s.ttl)
	}
	return loc, nil
}
