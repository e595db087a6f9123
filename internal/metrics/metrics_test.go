package metrics

import (
	"testing"
	"time"
)

// =============================================================================
// Mock StatsProvider
// =============================================================================

type mockStatsProvider struct {
	stats Stats
}

func (m *mockStatsProvider) GetStats() Stats {
	return m.stats
}

// =============================================================================
// Metric Existence Tests
// =============================================================================

func TestRunMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"RunsTotal", RunsTotal},
		{"RunLastTimestamp", RunLastTimestamp},
		{"RunLastDuration", RunLastDuration},
		{"RunIsActive", RunIsActive},
		{"PipelineWorkers", PipelineWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestImageMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"ImagesProcessedTotal", ImagesProcessedTotal},
		{"ImageDuration", ImageDuration},
		{"ImagesInFlight", ImagesInFlight},
		{"BuildImages", BuildImages},
		{"IngestErrorsTotal", IngestErrorsTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestDerivationMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"VariantsTotal", VariantsTotal},
		{"VariantDuration", VariantDuration},
		{"PyramidsTotal", PyramidsTotal},
		{"PyramidDuration", PyramidDuration},
		{"TilesWrittenTotal", TilesWrittenTotal},
		{"ManifestRecords", ManifestRecords},
		{"ManifestExcludedTotal", ManifestExcludedTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

// =============================================================================
// Metric Operation Tests
// =============================================================================

func TestMetricOperations(t *testing.T) {
	t.Run("ImagesProcessedTotal is CounterVec", func(_ *testing.T) {
		ImagesProcessedTotal.WithLabelValues("success").Add(0)
	})

	t.Run("VariantDuration is HistogramVec", func(_ *testing.T) {
		VariantDuration.WithLabelValues("thumbnail").Observe(0.1)
	})

	t.Run("ImagesInFlight is Gauge", func(_ *testing.T) {
		ImagesInFlight.Set(0)
	})

	t.Run("SetAppInfo", func(_ *testing.T) {
		SetAppInfo("test", "abc123", "go1.25")
	})
}

// =============================================================================
// InitializeMetrics Tests
// =============================================================================

func TestInitializeMetrics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("InitializeMetrics() panicked: %v", r)
		}
	}()

	InitializeMetrics([]string{"thumbnail", "preview"})
}

func TestInitializeMetricsIdempotent(t *testing.T) {
	// Calling InitializeMetrics multiple times should not panic or cause
	// duplicate registration.
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("InitializeMetrics() panicked on second call: %v", r)
		}
	}()

	InitializeMetrics([]string{"thumbnail"})
	InitializeMetrics([]string{"thumbnail"})
}

// =============================================================================
// Stats Tests
// =============================================================================

func TestStatsDone(t *testing.T) {
	stats := Stats{Scheduled: 10, Succeeded: 5, Failed: 2, Skipped: 1}
	if stats.Done() != 7 {
		t.Errorf("Expected 7 done, got %d", stats.Done())
	}

	// Skips happen at scan time and are never scheduled, so a finished
	// run with skips must still land exactly on Scheduled.
	finished := Stats{Scheduled: 3, Succeeded: 3, Skipped: 2}
	if finished.Done() != finished.Scheduled {
		t.Errorf("Expected Done() == Scheduled (%d), got %d", finished.Scheduled, finished.Done())
	}
}

// =============================================================================
// Collector Tests
// =============================================================================

func TestNewCollector(t *testing.T) {
	provider := &mockStatsProvider{stats: Stats{Scheduled: 100, Succeeded: 40}}
	collector := NewCollector(provider, 5*time.Second)

	if collector == nil {
		t.Fatal("NewCollector returned nil")
	}
}

func TestCollectorCollect(t *testing.T) {
	provider := &mockStatsProvider{
		stats: Stats{Scheduled: 12, InFlight: 3, Succeeded: 7, Failed: 1, Skipped: 1},
	}
	collector := NewCollector(provider, time.Minute)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("collect() panicked: %v", r)
		}
	}()
	collector.collect()
}

func TestCollectorNilProvider(t *testing.T) {
	collector := NewCollector(nil, time.Minute)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("collect() with nil provider panicked: %v", r)
		}
	}()
	collector.collect()
}

func TestCollectorStartStop(t *testing.T) {
	provider := &mockStatsProvider{stats: Stats{Scheduled: 1}}
	collector := NewCollector(provider, 10*time.Millisecond)

	collector.Start()
	time.Sleep(25 * time.Millisecond)
	collector.Stop()
}
