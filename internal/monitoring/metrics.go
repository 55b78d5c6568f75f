package monitoring

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricType represents the type of metric
type MetricType string

const (
	MetricTypeCounter MetricType = "counter"
	MetricTypeGauge   MetricType = "gauge"
)

// Metric represents a single metric
type Metric struct {
	Name      string            `json:"name"`
	Type      MetricType        `json:"type"`
	Help      string            `json:"help"`
	Labels    map[string]string `json:"labels,omitempty"`
	Value     float64           `json:"value"`
	Timestamp time.Time         `json:"timestamp"`
}

// Counter represents a counter metric
type Counter struct {
	name   string
	help   string
	labels map[string]string
	value  uint64
}

// NewCounter creates a new counter
func NewCounter(name, help string, labels map[string]string) *Counter {
	return &Counter{
		name:   name,
		help:   help,
		labels: labels,
	}
}

// Inc increments the counter by 1
func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

// Get returns the current value
func (c *Counter) Get() float64 {
	return float64(atomic.LoadUint64(&c.value))
}

// ToMetric converts to a Metric struct
func (c *Counter) ToMetric() Metric {
	return Metric{
		Name:      c.name,
		Type:      MetricTypeCounter,
		Help:      c.help,
		Labels:    c.labels,
		Value:     c.Get(),
		Timestamp: time.Now(),
	}
}

// Gauge represents a gauge metric
type Gauge struct {
	name   string
	help   string
	labels map[string]string
	value  int64 // stored with 3 decimal precision for atomic operations
}

// NewGauge creates a new gauge
func NewGauge(name, help string, labels map[string]string) *Gauge {
	return &Gauge{
		name:   name,
		help:   help,
		labels: labels,
	}
}

// Set sets the gauge to the given value
func (g *Gauge) Set(value float64) {
	atomic.StoreInt64(&g.value, int64(value*1000))
}

// Get returns the current value
func (g *Gauge) Get() float64 {
	return float64(atomic.LoadInt64(&g.value)) / 1000
}

// ToMetric converts to a Metric struct
func (g *Gauge) ToMetric() Metric {
	return Metric{
		Name:      g.name,
		Type:      MetricTypeGauge,
		Help:      g.help,
		Labels:    g.labels,
		Value:     g.Get(),
		Timestamp: time.Now(),
	}
}

// Collector aggregates the service's operational metrics.
type Collector struct {
	mu       sync.RWMutex
	counters map[string]*Counter
	gauges   map[string]*Gauge
}

// NewCollector creates an empty metrics collector
func NewCollector() *Collector {
	return &Collector{
		counters: make(map[string]*Counter),
		gauges:   make(map[string]*Gauge),
	}
}

// counter returns the named counter, creating it on first use.
func (c *Collector) counter(name, help string, labels map[string]string) *Counter {
	key := name + labelKey(labels)

	c.mu.RLock()
	counter, ok := c.counters[key]
	c.mu.RUnlock()
	if ok {
		return counter
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if counter, ok := c.counters[key]; ok {
		return counter
	}
	counter = NewCounter(name, help, labels)
	c.counters[key] = counter
	return counter
}

// RecordRankingRequest counts one tool invocation by terminal status.
func (c *Collector) RecordRankingRequest(status string) {
	c.counter("ranking_requests_total", "Total ranking requests",
		map[string]string{"status": status}).Inc()
}

// RecordGeocodeResult counts one geocoder call by provider status.
func (c *Collector) RecordGeocodeResult(status string) {
	c.counter("geocode_results_total", "Geocoder calls by provider status",
		map[string]string{"status": status}).Inc()
}

// Snapshot returns all metrics in registration order-independent form.
func (c *Collector) Snapshot() []Metric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metrics := make([]Metric, 0, len(c.counters)+len(c.gauges))
	for _, counter := range c.counters {
		metrics = append(metrics, counter.ToMetric())
	}
	for _, gauge := range c.gauges {
		metrics = append(metrics, gauge.ToMetric())
	}
	return metrics
}

func labelKey(labels map[string]string) string {
	key := ""
	for k, v := range labels {
		key += "{" + k + "=" + v + "}"
	}
	return key
}
