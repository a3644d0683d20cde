package searcher

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Algorithm      string
	StartTime      time.Time
	Duration       time.Duration
	Iterations     int64
	Nodes          int64
	Leaves         int64
	FullPlayouts   int64
	CappedPlayouts int64
}

type MetricsCollector interface {
	Start(algorithm string)
	AddIteration()
	AddNode()
	AddLeaf()
	AddFullPlayout()
	AddCappedPlayout()
	Complete() SearchMetric
}

type metricsCollector struct {
	algorithm      string
	startTime      time.Time
	iterations     atomic.Int64
	nodes          atomic.Int64
	leaves         atomic.Int64
	fullPlayouts   atomic.Int64
	cappedPlayouts atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start(algorithm string) {
	m.algorithm = algorithm
	m.startTime = time.Now()
	m.iterations.Store(0)
	m.nodes.Store(0)
	m.leaves.Store(0)
	m.fullPlayouts.Store(0)
	m.cappedPlayouts.Store(0)
}

func (m *metricsCollector) AddIteration() {
	m.iterations.Add(1)
}

func (m *metricsCollector) AddNode() {
	m.nodes.Add(1)
}

func (m *metricsCollector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *metricsCollector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *metricsCollector) AddCappedPlayout() {
	m.cappedPlayouts.Add(1)
}

func (m *metricsCollector) Complete() SearchMetric {
	return SearchMetric{
		Algorithm:      m.algorithm,
		StartTime:      m.startTime,
		Duration:       time.Since(m.startTime),
		Iterations:     m.iterations.Load(),
		Nodes:          m.nodes.Load(),
		Leaves:         m.leaves.Load(),
		FullPlayouts:   m.fullPlayouts.Load(),
		CappedPlayouts: m.cappedPlayouts.Load(),
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start(string)           {}
func (m *noMetricsCollector) AddIteration()          {}
func (m *noMetricsCollector) AddNode()               {}
func (m *noMetricsCollector) AddLeaf()               {}
func (m *noMetricsCollector) AddFullPlayout()        {}
func (m *noMetricsCollector) AddCappedPlayout()      {}
func (m *noMetricsCollector) Complete() SearchMetric { return SearchMetric{} }
