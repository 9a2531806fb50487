package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics accumulates in-process request counters per route. Routes are
// labelled "METHOD path status" so one handler shows up once per outcome.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]int64
	latency  map[string]time.Duration
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]int64),
		latency:  make(map[string]time.Duration),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts one handled request and accumulates its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := routeKey(method, path, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[key]++
	m.latency[key] += duration
}

// RecordError counts one failed request by domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := routeKey(method, path, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[key]++
}

func routeKey(method, path, outcome string) string {
	return method + " " + path + " " + outcome
}
