package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Build run metrics
var (
	RunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_runs_total",
			Help: "Total number of pipeline runs",
		},
	)

	RunLastTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_pipeline_run_last_timestamp",
			Help: "Unix timestamp of the last completed pipeline run",
		},
	)

	RunLastDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_pipeline_run_last_duration_seconds",
			Help: "Duration of the last completed pipeline run in seconds",
		},
	)

	RunIsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_pipeline_running",
			Help: "Whether a pipeline run is currently active (1 = running, 0 = idle)",
		},
	)

	PipelineWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_pipeline_workers",
			Help: "Number of parallel image workers in the current run",
		},
	)
)

// Per-image metrics
var (
	ImagesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_images_processed_total",
			Help: "Total number of masters processed, by outcome",
		},
		[]string{"status"}, // "success", "failed", "skipped"
	)

	ImageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_pipeline_image_duration_seconds",
			Help:    "End-to-end processing duration per master in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	ImagesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_pipeline_images_in_flight",
			Help: "Number of masters currently being processed",
		},
	)

	BuildImages = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gallery_pipeline_build_images",
			Help: "Images in the current build by state",
		},
		[]string{"state"}, // "scheduled", "succeeded", "failed", "skipped"
	)

	IngestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_ingest_errors_total",
			Help: "Total number of masters rejected at ingest, by reason",
		},
		[]string{"reason"}, // "unreadable", "missing_dimensions"
	)
)

// Raster variant metrics
var (
	VariantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_variants_total",
			Help: "Total number of raster variant derivations",
		},
		[]string{"variant", "status"},
	)

	VariantDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_pipeline_variant_duration_seconds",
			Help:    "Raster variant derivation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"variant"},
	)
)

// Tile pyramid metrics
var (
	PyramidsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_pyramids_total",
			Help: "Total number of tile pyramid builds",
		},
		[]string{"status"},
	)

	PyramidDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_pipeline_pyramid_duration_seconds",
			Help:    "Tile pyramid build duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	TilesWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_tiles_written_total",
			Help: "Total number of pyramid tiles written",
		},
	)
)

// Manifest metrics
var (
	ManifestRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_pipeline_manifest_records",
			Help: "Number of records in the last assembled manifest",
		},
	)

	ManifestExcludedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_manifest_excluded_total",
			Help: "Total number of records excluded from the manifest as incomplete",
		},
	)
)

// Publisher metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_uploads_total",
			Help: "Total number of object uploads",
		},
		[]string{"status"},
	)

	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_upload_bytes_total",
			Help: "Total number of bytes uploaded",
		},
	)

	UploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_pipeline_upload_duration_seconds",
			Help:    "Object upload duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_fs_retries_total",
			Help: "Total number of filesystem operation retries, by operation",
		},
		[]string{"op"},
	)

	FilesystemStaleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_fs_stale_errors_total",
			Help: "Total number of stale file handle errors, by operation",
		},
		[]string{"op"},
	)
)

// Memory pressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_pipeline_memory_usage_ratio",
			Help: "Heap in use as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_pipeline_memory_paused",
			Help: "Whether scheduling is paused for memory pressure (1 = paused)",
		},
	)
)

// Status server metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_pipeline_http_requests_total",
			Help: "Total number of status server requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_pipeline_http_request_duration_seconds",
			Help:    "Status server request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "path"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gallery_pipeline_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
