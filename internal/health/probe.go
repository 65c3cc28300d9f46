// Package health probes the external store backend so readiness checks
// reflect whether orders can actually be placed.
package health

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Report captures the outcome of the latest backend probe.
type Report struct {
	Reachable bool
	Status    int
	Latency   time.Duration
	CheckedAt time.Time
	Err       string
}

const defaultProbeTTL = 15 * time.Second

// Probe checks the backend base URL and caches the verdict briefly so a
// readiness endpoint polled every few seconds does not hammer the backend.
type Probe struct {
	baseURL string
	http    *http.Client

	mu      sync.RWMutex
	ttl     time.Duration
	cached  Report
	expires time.Time
}

// NewProbe builds a Probe for the given backend base URL. When baseURL is
// empty the probe always reports unreachable.
func NewProbe(baseURL string) *Probe {
	return &Probe{
		baseURL: strings.TrimSpace(baseURL),
		http:    &http.Client{Timeout: 5 * time.Second},
		ttl:     defaultProbeTTL,
	}
}

// SetTTL configures the cache duration (primarily for tests).
func (p *Probe) SetTTL(d time.Duration) {
	if d <= 0 {
		d = time.Second
	}
	p.mu.Lock()
	p.ttl = d
	p.mu.Unlock()
}

// Check returns the current backend report, serving the cached verdict while
// it is fresh.
func (p *Probe) Check(ctx context.Context) Report {
	p.mu.RLock()
	if time.Now().Before(p.expires) {
		report := p.cached
		p.mu.RUnlock()
		return report
	}
	p.mu.RUnlock()

	report := p.probe(ctx)

	p.mu.Lock()
	p.cached = report
	p.expires = time.Now().Add(p.ttl)
	p.mu.Unlock()
	return report
}

func (p *Probe) probe(ctx context.Context) Report {
	report := Report{CheckedAt: time.Now().UTC()}
	if p.baseURL == "" {
		report.Err = "backend url not configured"
		return report
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		report.Err = err.Error()
		return report
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.http.Do(req)
	report.Latency = time.Since(start)
	if err != nil {
		report.Err = err.Error()
		return report
	}
	defer resp.Body.Close()

	report.Status = resp.StatusCode
	// Any response at all means the backend answers; 5xx still counts as
	// unreachable for readiness purposes.
	report.Reachable = resp.StatusCode < 500
	return report
}
