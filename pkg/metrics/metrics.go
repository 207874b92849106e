package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// Metrics holds request counters for one server. Authentication outcomes
// are counted separately so rejected callers show up at a glance.
type Metrics struct {
	totalRequests  atomic.Int64
	activeRequests atomic.Int64
	totalLatencyMs atomic.Int64
	maxLatencyMs   atomic.Int64
	unauthorized   atomic.Int64
	forbidden      atomic.Int64
	rateLimited    atomic.Int64

	startTime time.Time
	now       func() time.Time

	mu             sync.Mutex
	endpointCounts map[string]int64
	statusCodes    map[int]int64
}

func New() *Metrics {
	return &Metrics{
		startTime:      time.Now(),
		now:            time.Now,
		endpointCounts: make(map[string]int64),
		statusCodes:    make(map[int]int64),
	}
}

// Middleware tracks request count, latency and outcome. It must run
// outside the error handler's reach, so the status is read after next.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.activeRequests.Add(1)
			start := m.now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			latencyMs := m.now().Sub(start).Milliseconds()
			m.activeRequests.Add(-1)
			m.totalRequests.Add(1)
			m.totalLatencyMs.Add(latencyMs)

			for {
				current := m.maxLatencyMs.Load()
				if latencyMs <= current || m.maxLatencyMs.CompareAndSwap(current, latencyMs) {
					break
				}
			}

			status := c.Response().Status
			switch status {
			case http.StatusUnauthorized:
				m.unauthorized.Add(1)
			case http.StatusForbidden:
				m.forbidden.Add(1)
			case http.StatusTooManyRequests:
				m.rateLimited.Add(1)
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			m.mu.Lock()
			m.endpointCounts[c.Request().Method+" "+path]++
			m.statusCodes[status]++
			m.mu.Unlock()

			return nil
		}
	}
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	TotalRequests  int64            `json:"total_requests"`
	ActiveRequests int64            `json:"active_requests"`
	Unauthorized   int64            `json:"unauthorized"`
	Forbidden      int64            `json:"forbidden"`
	RateLimited    int64            `json:"rate_limited"`
	AvgLatencyMs   float64          `json:"avg_latency_ms"`
	MaxLatencyMs   int64            `json:"max_latency_ms"`
	UptimeSeconds  float64          `json:"uptime_seconds"`
	EndpointCounts map[string]int64 `json:"endpoint_counts"`
	StatusCodes    map[int]int64    `json:"status_codes"`
}

func (m *Metrics) Snapshot() Snapshot {
	total := m.totalRequests.Load()

	var avgLatency float64
	if total > 0 {
		avgLatency = float64(m.totalLatencyMs.Load()) / float64(total)
	}

	m.mu.Lock()
	endpointCounts := make(map[string]int64, len(m.endpointCounts))
	for k, v := range m.endpointCounts {
		endpointCounts[k] = v
	}
	statusCodes := make(map[int]int64, len(m.statusCodes))
	for k, v := range m.statusCodes {
		statusCodes[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		TotalRequests:  total,
		ActiveRequests: m.activeRequests.Load(),
		Unauthorized:   m.unauthorized.Load(),
		Forbidden:      m.forbidden.Load(),
		RateLimited:    m.rateLimited.Load(),
		AvgLatencyMs:   avgLatency,
		MaxLatencyMs:   m.maxLatencyMs.Load(),
		UptimeSeconds:  m.now().Sub(m.startTime).Seconds(),
		EndpointCounts: endpointCounts,
		StatusCodes:    statusCodes,
	}
}

// Handler serves the current Snapshot as JSON.
func (m *Metrics) Handler(c echo.Context) error {
	return c.JSON(http.StatusOK, m.Snapshot())
}
