package crawl

import (
	"context"
	"sync"

	"github.com/Marlup/gcloud-instruction-generator"
	"golang.org/x/time/rate"
)

var _ igen.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces requests to each host with its own token bucket, so
// a slow host never delays requests to another.
type DomainLimiter struct {
	limit rate.Limit
	hosts sync.Map // host -> *rate.Limiter
}

// NewDomainLimiter allows rps requests per second to each host with a burst
// of one. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	d := &DomainLimiter{limit: rate.Inf}
	if rps > 0 {
		d.limit = rate.Limit(rps)
	}
	return d
}

// Wait blocks until a request to host is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	l, ok := d.hosts.Load(host)
	if !ok {
		l, _ = d.hosts.LoadOrStore(host, rate.NewLimiter(d.limit, 1))
	}
	return l.(*rate.Limiter).Wait(ctx)
}
