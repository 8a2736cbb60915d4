package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// domainLimiter spaces requests per target domain so enrichment runs
// stay polite to funder sites. One token bucket per domain, created on
// first use.
type domainLimiter struct {
	interval time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// newDomainLimiter creates a limiter allowing one request per interval
// per domain.
func newDomainLimiter(interval time.Duration) *domainLimiter {
	return &domainLimiter{
		interval: interval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to the given domain may proceed.
func (d *domainLimiter) Wait(ctx context.Context, domain string) error {
	if d.interval <= 0 {
		return nil
	}

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(d.interval), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
