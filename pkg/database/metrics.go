package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolSnapshot is the subset of pgxpool statistics that is exported.
type PoolSnapshot struct {
	Acquired        int32
	Idle            int32
	Total           int32
	Max             int32
	AcquireCount    int64
	EmptyAcquires   int64
	AcquireDuration time.Duration
}

func snapshot(pool *pgxpool.Pool) func() PoolSnapshot {
	return func() PoolSnapshot {
		s := pool.Stat()
		return PoolSnapshot{
			Acquired:        s.AcquiredConns(),
			Idle:            s.IdleConns(),
			Total:           s.TotalConns(),
			Max:             s.MaxConns(),
			AcquireCount:    s.AcquireCount(),
			EmptyAcquires:   s.EmptyAcquireCount(),
			AcquireDuration: s.AcquireDuration(),
		}
	}
}

// PoolStatsCollector exports pool statistics as Prometheus metrics.
type PoolStatsCollector struct {
	stats   func() PoolSnapshot
	service string

	conns           *prometheus.Desc
	maxConns        *prometheus.Desc
	acquires        *prometheus.Desc
	emptyAcquires   *prometheus.Desc
	acquireDuration *prometheus.Desc
}

// NewPoolStatsCollector reads statistics from pool on every scrape.
func NewPoolStatsCollector(pool *pgxpool.Pool, service string) *PoolStatsCollector {
	return newPoolStatsCollector(snapshot(pool), service)
}

func newPoolStatsCollector(stats func() PoolSnapshot, service string) *PoolStatsCollector {
	constLabels := prometheus.Labels{"service": service}
	return &PoolStatsCollector{
		stats:   stats,
		service: service,
		conns: prometheus.NewDesc("db_pool_connections",
			"Pool connections by state.", []string{"state"}, constLabels),
		maxConns: prometheus.NewDesc("db_pool_max_connections",
			"Configured pool size.", nil, constLabels),
		acquires: prometheus.NewDesc("db_pool_acquires_total",
			"Connections acquired from the pool.", nil, constLabels),
		emptyAcquires: prometheus.NewDesc("db_pool_empty_acquires_total",
			"Acquires that had to wait for a connection.", nil, constLabels),
		acquireDuration: prometheus.NewDesc("db_pool_acquire_seconds_total",
			"Time spent acquiring connections.", nil, constLabels),
	}
}

func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.conns
	ch <- c.maxConns
	ch <- c.acquires
	ch <- c.emptyAcquires
	ch <- c.acquireDuration
}

func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.conns, prometheus.GaugeValue, float64(s.Acquired), "acquired")
	ch <- prometheus.MustNewConstMetric(c.conns, prometheus.GaugeValue, float64(s.Idle), "idle")
	ch <- prometheus.MustNewConstMetric(c.conns, prometheus.GaugeValue, float64(s.Total), "total")
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(s.Max))
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(s.AcquireCount))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquires, prometheus.CounterValue, float64(s.EmptyAcquires))
	ch <- prometheus.MustNewConstMetric(c.acquireDuration, prometheus.CounterValue, s.AcquireDuration.Seconds())
}

// RegisterPoolMetrics registers a collector for pool with reg.
func RegisterPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool, service string) error {
	return reg.Register(NewPoolStatsCollector(pool, service))
}
