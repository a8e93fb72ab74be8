package infrastructure

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// SystemStats holds current process statistics
type SystemStats struct {
	GoRoutines    int64         `json:"goroutines"`
	MemoryUsage   int64         `json:"memory_usage_bytes"`
	MemorySystem  int64         `json:"memory_system_bytes"`
	GCCount       uint32        `json:"gc_count"`
	ProcessUptime time.Duration `json:"uptime_ns"`
	DatasetPosts  int64         `json:"dataset_posts"`
	Timestamp     time.Time     `json:"timestamp"`
}

// SystemMetrics exposes process and dataset gauges. Values are read when the
// exporter collects, so no background goroutine is needed.
type SystemMetrics struct {
	startTime    time.Time
	datasetPosts atomic.Int64
	registration metric.Registration
}

// NewSystemMetrics registers the observable gauges on meter
func NewSystemMetrics(meter metric.Meter, startTime time.Time) (*SystemMetrics, error) {
	sm := &SystemMetrics{startTime: startTime}

	goRoutines, err := meter.Int64ObservableGauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	memoryUsage, err := meter.Int64ObservableGauge(
		"system_memory_usage_bytes",
		metric.WithDescription("Heap memory in use in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	uptime, err := meter.Float64ObservableGauge(
		"system_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	datasetPosts, err := meter.Int64ObservableGauge(
		"dataset_posts",
		metric.WithDescription("Number of posts in the loaded dataset"),
	)
	if err != nil {
		return nil, err
	}

	sm.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sm.Collect()
		o.ObserveInt64(goRoutines, stats.GoRoutines)
		o.ObserveInt64(memoryUsage, stats.MemoryUsage)
		o.ObserveFloat64(uptime, stats.ProcessUptime.Seconds())
		o.ObserveInt64(datasetPosts, stats.DatasetPosts)
		return nil
	}, goRoutines, memoryUsage, uptime, datasetPosts)
	if err != nil {
		return nil, err
	}

	return sm, nil
}

// SetDatasetPosts updates the dataset gauge
func (sm *SystemMetrics) SetDatasetPosts(n int) {
	sm.datasetPosts.Store(int64(n))
}

// Collect reads the current statistics
func (sm *SystemMetrics) Collect() *SystemStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &SystemStats{
		GoRoutines:    int64(runtime.NumGoroutine()),
		MemoryUsage:   int64(memStats.Alloc),
		MemorySystem:  int64(memStats.Sys),
		GCCount:       memStats.NumGC,
		ProcessUptime: time.Since(sm.startTime),
		DatasetPosts:  sm.datasetPosts.Load(),
		Timestamp:     time.Now(),
	}
}

// Stop unregisters the gauge callback
func (sm *SystemMetrics) Stop() error {
	if sm.registration == nil {
		return nil
	}
	return sm.registration.Unregister()
}
