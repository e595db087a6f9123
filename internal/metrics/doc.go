// Package metrics provides Prometheus instrumentation for the gallery pipeline.
//
// This package defines and exposes the metrics scraped from the optional
// status server while a build runs. All metrics are prefixed with
// "gallery_pipeline_" to avoid naming collisions with other applications.
//
// # Metric Categories
//
// ## Build Run Metrics
//
// Track pipeline runs as a whole:
//   - RunsTotal: Counter of pipeline runs
//   - RunLastTimestamp: Gauge of last completed run time
//   - RunLastDuration: Gauge of last run duration
//   - RunIsActive: Gauge indicating if a run is active
//   - PipelineWorkers: Gauge of parallel image workers
//
// ## Per-Image Metrics
//
// Track individual master processing:
//   - ImagesProcessedTotal: Counter by outcome (success/failed/skipped)
//   - ImageDuration: Histogram of end-to-end per-master duration
//   - ImagesInFlight: Gauge of masters currently being processed
//   - BuildImages: Gauge of the current build's images by state
//   - IngestErrorsTotal: Counter of ingest rejections by reason
//
// ## Derivation Metrics
//
// Monitor raster and pyramid generation:
//   - VariantsTotal: Counter of variant derivations by variant and status
//   - VariantDuration: Histogram of derivation time by variant
//   - PyramidsTotal: Counter of pyramid builds by status
//   - PyramidDuration: Histogram of pyramid build time
//   - TilesWrittenTotal: Counter of tiles written
//
// ## Manifest and Publisher Metrics
//
//   - ManifestRecords: Gauge of records in the last manifest
//   - ManifestExcludedTotal: Counter of records excluded as incomplete
//   - UploadsTotal, UploadBytesTotal, UploadDuration: upload activity
//
// # Usage
//
// Metrics are automatically registered with the default Prometheus registry
// using promauto. To expose them, mount the promhttp.Handler() on your
// metrics endpoint:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// To record metrics from other packages, import this package and use the
// exported metric variables:
//
//	import "gallery-pipeline/internal/metrics"
//
//	metrics.VariantsTotal.WithLabelValues("thumbnail", "success").Inc()
//	metrics.PyramidDuration.Observe(3.2)
//
// # Collector
//
// The [Collector] periodically gathers a [Stats] snapshot from a
// [StatsProvider] and mirrors it into the build gauges, so the scrape
// always reflects current progress without every counter update taking
// a lock:
//
//	collector := metrics.NewCollector(tracker, 5*time.Second)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Build throughput:
//
//	rate(gallery_pipeline_images_processed_total{status="success"}[1m])
//
// P95 per-image latency:
//
//	histogram_quantile(0.95, sum(rate(gallery_pipeline_image_duration_seconds_bucket[5m])) by (le))
//
// Failure ratio of the current build:
//
//	gallery_pipeline_build_images{state="failed"} / gallery_pipeline_build_images{state="scheduled"}
package metrics
