package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"gallery-pipeline/internal/gallery"
	"gallery-pipeline/internal/galleryconf"
	"gallery-pipeline/internal/logging"
	"gallery-pipeline/internal/memory"
	"gallery-pipeline/internal/workers"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// ConfigurationError marks a problem that prevents the run from starting
// at all: a bad flag, an unreadable profile, a missing input tree. The
// command exits with code 2 on one, before any image is touched.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Options carries the command-line flags. Zero values mean "not given";
// Load falls back to the environment and then to defaults.
type Options struct {
	InputDir   string
	OutputDir  string
	ConfigPath string
	Workers    int
	SortKey    string
	StorageURL string
	DryRun     bool
}

// Config holds the fully resolved run configuration.
type Config struct {
	InputDir       string
	OutputDir      string
	Workers        int
	DryRun         bool
	Order          gallery.Order
	StorageBaseURL string

	// Derivation profile from the TOML file (or built-in defaults)
	Profile *galleryconf.Config

	// Feature flags from the environment
	StatusEnabled bool
	StatusAddr    string
	VipsEnabled   bool
}

// Load resolves flags, environment variables, and the TOML profile into
// a run configuration. Every failure is a *ConfigurationError; the
// pipeline fails fast before touching any image.
func Load(opts Options) (*Config, error) {
	printBanner()

	// A .env file is optional and never overrides the real environment.
	if err := godotenv.Load(); err == nil {
		logging.Info("  Loaded environment from .env")
		logging.Info("")
	}

	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	inputDir := firstOf(opts.InputDir, os.Getenv("GALLERY_INPUT_DIR"))
	if inputDir == "" {
		return nil, &ConfigurationError{fmt.Errorf("no input directory (pass -input or set GALLERY_INPUT_DIR)")}
	}
	outputDir := firstOf(opts.OutputDir, os.Getenv("GALLERY_OUTPUT_DIR"), "dist")
	configPath := firstOf(opts.ConfigPath, os.Getenv("GALLERY_CONFIG"))

	workerCount := opts.Workers
	if workerCount <= 0 {
		// PIPELINE_WORKERS overrides inside the workers package.
		workerCount = workers.ForCPU(0)
	}

	sortKey := firstOf(opts.SortKey, os.Getenv("GALLERY_SORT"), "scan")
	var order gallery.Order
	switch sortKey {
	case "scan":
		order = gallery.OrderScan
	case "date":
		order = gallery.OrderDate
	default:
		return nil, &ConfigurationError{fmt.Errorf("unknown sort key %q (supported: scan, date)", sortKey)}
	}

	statusEnabled := getEnvBool("STATUS_ENABLED", false)
	statusPort := getEnv("STATUS_PORT", "9090")
	vipsEnabled := getEnvBool("VIPS_ENABLED", true)

	logging.Info("  Input:            %s", inputDir)
	logging.Info("  Output:           %s", outputDir)
	logging.Info("  Config file:      %s", orDefault(configPath, galleryconf.DefaultConfigFile+" (if present)"))
	logging.Info("  Workers:          %d", workerCount)
	logging.Info("  Sort:             %s", sortKey)
	logging.Info("  Dry run:          %v", opts.DryRun)
	logging.Info("  STATUS_ENABLED:   %v", statusEnabled)
	logging.Info("  STATUS_PORT:      %s", statusPort)
	logging.Info("  VIPS_ENABLED:     %v", vipsEnabled)
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	profile, err := galleryconf.Load(configPath)
	if err != nil {
		return nil, &ConfigurationError{err}
	}
	logProfile(profile)

	storageURL := firstOf(opts.StorageURL, os.Getenv("GALLERY_STORAGE_URL"), profile.Publish.PublicURL)

	// Resolve paths
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	inputDir, err = filepath.Abs(inputDir)
	if err != nil {
		return nil, &ConfigurationError{fmt.Errorf("resolve input directory path: %w", err)}
	}
	logging.Info("  Input directory (absolute): %s", inputDir)

	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, &ConfigurationError{fmt.Errorf("resolve output directory path: %w", err)}
	}
	logging.Info("  Output directory (absolute): %s", outputDir)

	// The input tree is read-only and must already exist.
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, &ConfigurationError{fmt.Errorf("input directory: %w", err)}
	}
	if !info.IsDir() {
		return nil, &ConfigurationError{fmt.Errorf("input path %s is not a directory", inputDir)}
	}
	logInputContents(inputDir)

	if !opts.DryRun {
		if err := ensureDirectory(outputDir, "output"); err != nil {
			return nil, &ConfigurationError{fmt.Errorf("output directory: %w", err)}
		}
		logging.Debug("  Testing output directory write access...")
		if err := testWriteAccess(outputDir); err != nil {
			return nil, &ConfigurationError{fmt.Errorf("output directory is not writable: %w", err)}
		}
		logging.Info("  [OK] Output directory is writable")
	}

	// Summary
	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    libvips:     %s", enabledString(vipsEnabled))
	logging.Info("    Status:      %s", enabledString(statusEnabled))
	logging.Info("    Publishing:  %s", configuredString(profile.Publish.Bucket != ""))

	return &Config{
		InputDir:       inputDir,
		OutputDir:      outputDir,
		Workers:        workerCount,
		DryRun:         opts.DryRun,
		Order:          order,
		StorageBaseURL: storageURL,
		Profile:        profile,
		StatusEnabled:  statusEnabled,
		StatusAddr:     ":" + statusPort,
		VipsEnabled:    vipsEnabled,
	}, nil
}

// logProfile logs the resolved derivation profile.
func logProfile(profile *galleryconf.Config) {
	logging.Info("")
	logging.Info("  Derivation profile:")
	for _, name := range profile.VariantNames() {
		v := profile.Variants[name]
		logging.Info("    %-12s %dpx long edge, %s q%d", name+":", v.LongEdge, v.Format, v.Quality)
	}
	logging.Info("    %-12s %dpx, overlap %d, %s q%d", "tiles:",
		profile.Tiles.Size, profile.Tiles.Overlap, profile.Tiles.Format, profile.Tiles.Quality)
}

// LogDerivationInit logs the image library section before workers start.
func LogDerivationInit(vipsEnabled bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("IMAGE LIBRARY")
	logging.Info("------------------------------------------------------------")

	if !vipsEnabled {
		logging.Warn("  libvips disabled (VIPS_ENABLED=false)")
		logging.Warn("  Derivation uses the pure-Go path; webp variants will fail")
	}
}

// LogBuildStarting marks the end of startup and the beginning of work.
func LogBuildStarting(startupDuration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("BUILD")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time: %v", startupDuration)
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
   ______      ____
  / ____/___ _/ / /__  _______  __
 / / __/ __ '/ / / _ \/ ___/ / / /
/ /_/ / /_/ / / /  __/ /  / /_/ /
\____/\__,_/_/_/\___/_/   \__, /
    ____  _            __/____/
   / __ \(_)___  ___  / (_)___  ___
  / /_/ / / __ \/ _ \/ / / __ \/ _ \
 / ____/ / /_/ /  __/ / / / / /  __/
/_/   /_/ .___/\___/_/_/_/ /_/\___/
       /_/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if result := memory.ConfigureFromEnv(); result.Configured {
		logging.Info("  Memory limit:    %s (source: %s)", memory.FormatBytes(result.GoMemLimit), result.Source)
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

// logInputContents reports the top level of the input tree at debug level.
func logInputContents(inputDir string) {
	if !logging.IsDebugEnabled() {
		return
	}
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return
	}
	fileCount := 0
	dirCount := 0
	for _, e := range entries {
		if e.IsDir() {
			dirCount++
		} else {
			fileCount++
		}
	}
	logging.Debug("    Contents: %d files, %d directories (top level)", fileCount, dirCount)
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func configuredString(configured bool) string {
	if configured {
		return "CONFIGURED"
	}
	return "NOT CONFIGURED"
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
