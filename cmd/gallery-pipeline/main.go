package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gallery-pipeline/internal/galleryconf"
	"gallery-pipeline/internal/logging"
	"gallery-pipeline/internal/memory"
	"gallery-pipeline/internal/metrics"
	"gallery-pipeline/internal/pipeline"
	"gallery-pipeline/internal/pyramid"
	"gallery-pipeline/internal/raster"
	"gallery-pipeline/internal/startup"
	"gallery-pipeline/internal/status"
)

func main() {
	os.Exit(run())
}

func run() int {
	startTime := time.Now()

	opts := parseFlags()

	cfg, err := startup.Load(opts)
	if err != nil {
		logging.Error("%v", err)
		return 2
	}

	startup.LogDerivationInit(cfg.VipsEnabled)
	if cfg.VipsEnabled && !cfg.DryRun {
		if err := raster.InitVips(); err != nil {
			logging.Warn("  libvips unavailable, using the pure-Go path: %v", err)
		}
		defer raster.ShutdownVips()
	}

	build := startup.GetBuildInfo()
	metrics.InitializeMetrics(cfg.Profile.VariantNames())
	metrics.SetAppInfo(build.Version, build.Commit, build.GoVersion)

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()
	defer monitor.Stop()

	pipe := pipeline.New(pipeline.Config{
		InputDir:       cfg.InputDir,
		OutputDir:      cfg.OutputDir,
		Workers:        cfg.Workers,
		DryRun:         cfg.DryRun,
		Variants:       variantList(cfg.Profile),
		Tiles:          tileBuilder(cfg.Profile),
		Gallery:        cfg.Profile.Gallery,
		StorageBaseURL: cfg.StorageBaseURL,
		Order:          cfg.Order,
		Memory:         monitor,
	})

	// SIGINT/SIGTERM stop scheduling; in-flight images finish cleanly
	// and the manifest is still written from the completed subset.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		startup.LogShutdownInitiated(sig.String())
		startup.LogShutdownStep("Stopping scheduler, waiting for in-flight images")
		pipe.Stop()
		startup.LogShutdownStepComplete("Scheduler stopped")
	}()

	if cfg.StatusEnabled {
		srv := status.New(cfg.StatusAddr, build.Version, pipe)
		srv.SetMemory(monitor)
		srv.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()

		collector := metrics.NewCollector(pipe, 5*time.Second)
		collector.Start()
		defer collector.Stop()
	}

	startup.LogBuildStarting(time.Since(startTime))

	report, err := pipe.Run()
	if err != nil {
		logging.Error("Build failed: %v", err)
		return 1
	}

	report.Log()
	return report.ExitCode()
}

func parseFlags() startup.Options {
	var opts startup.Options
	flag.StringVar(&opts.InputDir, "input", "", "input directory of master photographs")
	flag.StringVar(&opts.OutputDir, "output", "", `output directory for the built gallery (default "dist")`)
	flag.StringVar(&opts.ConfigPath, "config", "", "path to the TOML derivation profile")
	flag.IntVar(&opts.Workers, "workers", 0, "parallel image workers (default: one per CPU)")
	flag.StringVar(&opts.SortKey, "sort", "", `manifest record order, "scan" or "date" (default "scan")`)
	flag.StringVar(&opts.StorageURL, "storage-url", "", "public base URL recorded in the manifest")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "scan and plan without deriving anything")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logging.SetLevel(logging.LevelDebug)
	}
	return opts
}

// variantList converts the profile map into the deterministic variant
// order the pipeline processes.
func variantList(profile *galleryconf.Config) []raster.Variant {
	names := profile.VariantNames()
	variants := make([]raster.Variant, 0, len(names))
	for _, name := range names {
		v := profile.Variants[name]
		variants = append(variants, raster.Variant{
			Name:     name,
			LongEdge: v.LongEdge,
			Format:   v.Format,
			Quality:  v.Quality,
		})
	}
	return variants
}

func tileBuilder(profile *galleryconf.Config) pyramid.Builder {
	return pyramid.Builder{
		TileSize: profile.Tiles.Size,
		Overlap:  profile.Tiles.Overlap,
		Format:   profile.Tiles.Format,
		Quality:  profile.Tiles.Quality,
	}
}
