package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gallery-pipeline/internal/gallery"
	"gallery-pipeline/internal/galleryconf"
	"gallery-pipeline/internal/logging"
	"gallery-pipeline/internal/memory"
	"gallery-pipeline/internal/metrics"
	"gallery-pipeline/internal/pyramid"
	"gallery-pipeline/internal/raster"
)

// Config carries everything one build needs.
type Config struct {
	InputDir  string
	OutputDir string
	Workers   int
	DryRun    bool

	Variants []raster.Variant
	Tiles    pyramid.Builder

	Gallery        galleryconf.Gallery
	StorageBaseURL string
	Order          gallery.Order

	// Memory optionally throttles the workers under heap pressure.
	Memory *memory.Monitor
}

// imageJob is one master scheduled for processing. The index preserves
// scan order through the unordered pool.
type imageJob struct {
	index   int
	path    string
	relPath string
}

// imageResult is one master's terminal state.
type imageResult struct {
	index    int
	relPath  string
	record   *gallery.Record
	failures []Failure
	duration time.Duration
}

// Pipeline derives gallery assets for every master under the input
// root: scan, parallel per-image derivation, then manifest assembly as
// the single barrier at the end.
type Pipeline struct {
	inputDir  string
	outputDir string
	workers   int
	dryRun    bool
	variants  []raster.Variant
	tiler     pyramid.Builder
	assembler gallery.Assembler
	memory    *memory.Monitor

	// Channels
	jobs    chan imageJob
	results chan imageResult

	// Synchronization
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	// Statistics
	scheduled atomic.Int64
	inFlight  atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
}

// New creates a pipeline for one build run.
func New(cfg Config) *Pipeline {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pipeline{
		inputDir:  cfg.InputDir,
		outputDir: cfg.OutputDir,
		workers:   workers,
		dryRun:    cfg.DryRun,
		variants:  cfg.Variants,
		tiler:     cfg.Tiles,
		assembler: gallery.Assembler{
			Title:          cfg.Gallery.Title,
			Subtitle:       cfg.Gallery.Subtitle,
			Author:         cfg.Gallery.Author,
			StorageBaseURL: cfg.StorageBaseURL,
			Order:          cfg.Order,
		},
		memory:  cfg.Memory,
		jobs:    make(chan imageJob, workers*2),
		results: make(chan imageResult, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Run executes the build and returns its report. Per-image failures are
// collected in the report, never returned as the run error; the run
// error is reserved for problems that prevent the build as a whole.
func (p *Pipeline) Run() (*Report, error) {
	report := newReport(p.dryRun)
	logging.Info("Starting build %s", report.RunID)

	metrics.RunsTotal.Inc()
	metrics.RunIsActive.Set(1)
	defer metrics.RunIsActive.Set(0)

	scan, err := Scan(p.inputDir)
	if err != nil {
		return nil, err
	}
	report.Scanned = len(scan.Masters)
	report.Skipped = len(scan.Skipped)
	p.scheduled.Store(int64(len(scan.Masters)))
	p.skipped.Store(int64(len(scan.Skipped)))
	metrics.ImagesProcessedTotal.WithLabelValues("skipped").Add(float64(len(scan.Skipped)))

	if p.dryRun {
		p.logPlan(scan)
		report.finish()
		return report, nil
	}

	metrics.PipelineWorkers.Set(float64(p.workers))
	logging.Info("Processing %d masters with %d workers", len(scan.Masters), p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	// Collector: the single goroutine that owns result aggregation, so
	// workers never share mutable state.
	ordered := make([]*gallery.Record, len(scan.Masters))
	var collectorWg sync.WaitGroup
	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		for result := range p.results {
			if len(result.failures) > 0 {
				p.failed.Add(1)
				metrics.ImagesProcessedTotal.WithLabelValues("failed").Inc()
				for _, f := range result.failures {
					logging.Error("%s [%s]: %v", f.Path, f.Stage, f.Err)
				}
				report.Failures = append(report.Failures, result.failures...)
			} else {
				p.succeeded.Add(1)
				metrics.ImagesProcessedTotal.WithLabelValues("success").Inc()
			}
			if result.record != nil {
				ordered[result.index] = result.record
			}
			metrics.ImageDuration.Observe(result.duration.Seconds())
		}
	}()

	// Enqueue in scan order. A requested abort stops scheduling here;
	// whatever is in flight finishes cleanly.
enqueue:
	for i, m := range scan.Masters {
		select {
		case p.jobs <- imageJob{index: i, path: m.Path, relPath: m.RelPath}:
		case <-p.ctx.Done():
			logging.Warn("Abort requested, no further images will be scheduled")
			break enqueue
		}
	}
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
	collectorWg.Wait()

	report.Aborted = p.ctx.Err() != nil
	report.Succeeded = int(p.succeeded.Load())
	report.Failed = int(p.failed.Load())

	// The manifest barrier: every image has reached a terminal state.
	records := make([]gallery.Record, 0, len(ordered))
	for _, rec := range ordered {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	manifest, excluded := p.assembler.Assemble(records)
	report.ManifestRecords = len(manifest.Images)
	report.ExcludedRecords = len(excluded)

	manifestPath := gallery.ManifestPath(p.outputDir)
	if err := manifest.Write(manifestPath); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	report.ManifestPath = manifestPath

	report.finish()
	metrics.RunLastDuration.Set(report.Seconds)
	metrics.RunLastTimestamp.Set(float64(time.Now().Unix()))
	return report, nil
}

// worker processes masters from the jobs channel until it closes or an
// abort is requested. The current image is always finished before the
// worker checks for cancellation.
func (p *Pipeline) worker(id int) {
	defer p.wg.Done()

	logging.Debug("Worker %d started", id)

	for job := range p.jobs {
		select {
		case <-p.ctx.Done():
			logging.Debug("Worker %d stopping, abort requested", id)
			return
		default:
		}

		// Decoding a master allocates its full pixel buffer; hold off
		// while the heap is over the critical water mark.
		if p.memory != nil {
			p.memory.WaitIfPaused()
		}

		p.inFlight.Add(1)
		result := p.processImage(job)
		p.inFlight.Add(-1)

		p.results <- result
	}

	logging.Debug("Worker %d finished", id)
}

// Stop aborts the build: no new images start, in-flight ones finish.
func (p *Pipeline) Stop() {
	p.cancel()
}

// GetStats returns a progress snapshot for the status server and the
// metrics collector.
func (p *Pipeline) GetStats() metrics.Stats {
	return metrics.Stats{
		Scheduled: p.scheduled.Load(),
		InFlight:  p.inFlight.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Skipped:   p.skipped.Load(),
	}
}

// logPlan reports what a dry run would do.
func (p *Pipeline) logPlan(scan *ScanResult) {
	descs := make([]string, 0, len(p.variants))
	for _, v := range p.variants {
		descs = append(descs, fmt.Sprintf("%s (%dpx %s q%d)", v.Name, v.LongEdge, v.Format, v.Quality))
	}
	logging.Info("Variants: %s", strings.Join(descs, ", "))
	logging.Info("Tiles: %dpx, overlap %d, %s q%d", p.tiler.TileSize, p.tiler.Overlap, p.tiler.Format, p.tiler.Quality)
	for _, m := range scan.Masters {
		logging.Info("Would process %s", m.RelPath)
	}
}
