// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// Configuration is resolved by [Load] from command-line options first and
// environment variables second. The following environment variables are
// supported:
//
//   - GALLERY_INPUT_DIR: Directory of master photographs (required unless -input is given)
//   - GALLERY_OUTPUT_DIR: Output directory for the built gallery (default: dist)
//   - GALLERY_CONFIG: Path to the TOML derivation profile (default: gallery.toml if present)
//   - GALLERY_SORT: Manifest record order, "scan" or "date" (default: scan)
//   - GALLERY_STORAGE_URL: Public base URL recorded in the manifest
//   - PIPELINE_WORKERS: Parallel image workers (default: one per CPU)
//   - STATUS_ENABLED: Serve /progress and /metrics during the build (default: false)
//   - STATUS_PORT: Status server port (default: 9090)
//   - VIPS_ENABLED: Use libvips for resizing when available (default: true)
//   - MEMORY_LIMIT: Container memory limit for automatic GOMEMLIMIT configuration
//   - MEMORY_RATIO: Fraction of MEMORY_LIMIT for the Go heap (default: 0.85)
//   - GOMEMLIMIT: Direct override for Go's memory limit
//
// A .env file in the working directory is loaded first and never
// overrides the real environment.
//
// Every failure [Load] can return is a [ConfigurationError]; callers
// exit with status 2 without having touched the input tree.
//
// # Directory Setup
//
// The input directory must exist and is never written to. The output
// directory is created if missing and write-tested, except on dry runs,
// which touch nothing.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogDerivationInit]: Image library selection
//   - [LogBuildStarting]: Build start and startup duration
//   - [LogShutdownInitiated]: Graceful abort start
//   - [LogShutdownStep] / [LogShutdownStepComplete]: Individual abort steps
//
// # Example Usage
//
//	cfg, err := startup.Load(opts)
//	if err != nil {
//	    logging.Error("%v", err)
//	    os.Exit(2)
//	}
//
//	startup.LogDerivationInit(cfg.VipsEnabled)
//	// ... build the pipeline ...
//	startup.LogBuildStarting(time.Since(startTime))
//
//	// On SIGINT...
//	startup.LogShutdownInitiated("SIGINT")
package startup
