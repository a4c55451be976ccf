package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/felixgeelhaar/fortify/retry"
	"github.com/vytor/lingoflash/internal/logger"
)

// ResilientProvider wraps an LLM provider with rate limiting, a concurrency
// cap, retries and a circuit breaker.
type ResilientProvider struct {
	provider       Provider
	circuitBreaker circuitbreaker.CircuitBreaker[*Response]
	retrier        retry.Retry[*Response]
	bulkhead       bulkhead.Bulkhead[*Response]
	rateLimit      ratelimit.RateLimiter
	name           string
}

// ResilientConfig holds configuration for the resilient provider wrapper
type ResilientConfig struct {
	// MaxAttempts includes the first call (default: 3)
	MaxAttempts int

	// InitialDelay before the first retry (default: 2s)
	InitialDelay time.Duration

	// MaxConcurrent in-flight provider calls (default: 5)
	MaxConcurrent int

	// RatePerSecond for rate limiting (default: 2)
	RatePerSecond int

	Jitter bool
}

// DefaultResilientConfig returns the production settings
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		MaxAttempts:   3,
		InitialDelay:  2 * time.Second,
		MaxConcurrent: 5,
		RatePerSecond: 2,
		Jitter:        true,
	}
}

// NewResilientProvider wraps a provider with fortify resilience patterns
func NewResilientProvider(provider Provider, cfg ResilientConfig) *ResilientProvider {
	def := DefaultResilientConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = def.InitialDelay
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = def.RatePerSecond
	}

	log := logger.Default().WithPrefix("llm_resilience")
	rp := &ResilientProvider{
		provider: provider,
		name:     provider.Name(),
	}

	rp.circuitBreaker = circuitbreaker.New[*Response](circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			log.Warn("circuit breaker state change: provider=%s from=%s to=%s", rp.name, from.String(), to.String())
		},
	})

	rp.retrier = retry.New[*Response](retry.Config{
		MaxAttempts:   cfg.MaxAttempts,
		InitialDelay:  cfg.InitialDelay,
		MaxDelay:      60 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        cfg.Jitter,
		IsRetryable:   isRetryable,
	})

	rp.bulkhead = bulkhead.New[*Response](bulkhead.Config{
		MaxConcurrent: cfg.MaxConcurrent,
		MaxQueue:      cfg.MaxConcurrent * 2,
		QueueTimeout:  30 * time.Second,
	})

	rp.rateLimit = ratelimit.New(&ratelimit.Config{
		Rate:     cfg.RatePerSecond,
		Burst:    cfg.RatePerSecond * 3,
		Interval: time.Second,
	})

	return rp
}

func (p *ResilientProvider) Name() string {
	return p.provider.Name()
}

func (p *ResilientProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	if !p.rateLimit.Allow(ctx, p.name) {
		logger.FromContext(ctx).WithPrefix("llm_resilience").Warn("rate limit exceeded for provider %s", p.name)
		return nil, ErrRateLimited
	}

	operation := func(ctx context.Context) (*Response, error) {
		return p.bulkhead.Execute(ctx, func(ctx context.Context) (*Response, error) {
			return p.provider.Generate(ctx, req)
		})
	}

	return p.circuitBreaker.Execute(ctx, func(ctx context.Context) (*Response, error) {
		return p.retrier.Do(ctx, operation)
	})
}

// Close releases the rate limiter and the wrapped provider when it holds
// resources of its own.
func (p *ResilientProvider) Close() error {
	err := p.rateLimit.Close()
	if c, ok := p.provider.(interface{ Close() error }); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// isRetryable follows HTTP semantics: throttling and server faults are
// transient, everything else is final.
func isRetryable(err error) bool {
	switch StatusCode(err) {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
