package listing

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// Limit defines a simple rate limit: RPS with a burst capacity.
type Limit struct {
	RPS   float64
	Burst int
}

// TransportOptions configures the rate-limited transport.
type TransportOptions struct {
	Metrics *Metrics

	// Default applies to hosts missing from HostLimits.
	Default Limit
	// Host-specific limits (by req.URL.Host).
	HostLimits map[string]Limit
}

// DefaultLimit applies when the configuration sets no rate limit.
var DefaultLimit = Limit{RPS: 20, Burst: 20}

// DefaultTransportOptions returns defaults for a snapshot backend. The
// configuration layer owns SNAPEX_RPS and SNAPEX_BURST; callers override
// Default from there.
func DefaultTransportOptions() TransportOptions {
	return TransportOptions{Metrics: NewMetrics(), Default: DefaultLimit}
}

// LimiterTransport wraps a base RoundTripper with host-based rate limiting
// and request accounting. It never retries: a failed round trip is returned
// to the caller as is.
type LimiterTransport struct {
	Base     http.RoundTripper
	Opts     TransportOptions
	limMu    sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewLimiterTransport(opts TransportOptions) *LimiterTransport {
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	return &LimiterTransport{Opts: opts, limiters: make(map[string]*rate.Limiter)}
}

func (t *LimiterTransport) limiter(host string) *rate.Limiter {
	if host == "" {
		host = "_default_"
	}
	t.limMu.Lock()
	defer t.limMu.Unlock()
	if l, ok := t.limiters[host]; ok {
		return l
	}
	lim := t.Opts.Default
	if v, ok := t.Opts.HostLimits[host]; ok {
		lim = v
	}
	if lim.RPS <= 0 {
		lim.RPS = 10
	}
	l := rate.NewLimiter(rate.Limit(lim.RPS), max(1, lim.Burst))
	t.limiters[host] = l
	return l
}

func (t *LimiterTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *LimiterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter(req.URL.Host).Wait(req.Context()); err != nil {
		return nil, err
	}
	m := t.Opts.Metrics
	if m != nil {
		m.IncRequest(req.URL.Host)
	}
	resp, err := t.base().RoundTrip(req)
	if err != nil {
		if m != nil {
			m.IncNetError()
		}
		return nil, err
	}
	if m != nil {
		m.IncStatus(resp.StatusCode)
	}
	return resp, nil
}
