package fileserver

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an unused per-client limiter is kept once the
// registry grows past limiterSweepSize entries.
const (
	limiterIdleTTL   = 5 * time.Minute
	limiterSweepSize = 4096
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterRegistry holds one token bucket per client IP.
type LimiterRegistry struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*clientLimiter
}

// NewLimiterRegistry creates a registry allowing perSecond connections per
// client with the given burst. A burst below 1 defaults to perSecond.
func NewLimiterRegistry(perSecond, burst int) *LimiterRegistry {
	if burst < 1 {
		burst = perSecond
	}
	return &LimiterRegistry{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*clientLimiter),
	}
}

// Allow reports whether the client at addr may open another connection now.
func (r *LimiterRegistry) Allow(addr net.Addr) bool {
	return r.get(clientKey(addr)).Allow()
}

// Len returns the number of tracked clients.
func (r *LimiterRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func (r *LimiterRegistry) get(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := time.Now()
	if cl, ok := r.limiters[key]; ok {
		cl.lastSeen = t
		return cl.limiter
	}

	if len(r.limiters) >= limiterSweepSize {
		for k, cl := range r.limiters {
			if t.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(r.limiters, k)
			}
		}
	}

	cl := &clientLimiter{limiter: rate.NewLimiter(r.limit, r.burst), lastSeen: t}
	r.limiters[key] = cl
	return cl.limiter
}

// clientKey strips the port so all connections from one host share a bucket.
func clientKey(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	s := addr.String()
	host, _, err := net.SplitHostPort(s)
	if err != nil {
		return s
	}
	return host
}
