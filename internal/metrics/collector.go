package metrics

import (
	"time"

	"gallery-pipeline/internal/logging"
)

// StatsProvider supplies point-in-time build progress.
type StatsProvider interface {
	GetStats() Stats
}

// Stats is a snapshot of the current build.
type Stats struct {
	Scheduled int64
	InFlight  int64
	Succeeded int64
	Failed    int64
	Skipped   int64
}

// Done reports how many scheduled images have reached a terminal
// state. Skipped files are excluded: they are rejected at scan time
// and never counted in Scheduled, so Done stays comparable to it.
func (s Stats) Done() int64 {
	return s.Succeeded + s.Failed
}

// Collector periodically mirrors build progress into the Prometheus
// gauges while a run is active.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new progress collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the collection loop and records a final snapshot
func (c *Collector) Stop() {
	close(c.stopChan)
	c.collect()
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	BuildImages.WithLabelValues("scheduled").Set(float64(stats.Scheduled))
	BuildImages.WithLabelValues("succeeded").Set(float64(stats.Succeeded))
	BuildImages.WithLabelValues("failed").Set(float64(stats.Failed))
	BuildImages.WithLabelValues("skipped").Set(float64(stats.Skipped))
	ImagesInFlight.Set(float64(stats.InFlight))

	logging.Debug("Metrics collected: %d/%d done (failed: %d, skipped: %d)",
		stats.Done(), stats.Scheduled, stats.Failed, stats.Skipped)
}
