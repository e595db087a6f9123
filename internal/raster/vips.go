package raster

import (
	"fmt"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"

	"gallery-pipeline/internal/atomicfile"
	"gallery-pipeline/internal/logging"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// InitVips initializes the libvips library. Call once at startup, before
// any workers run. Without it every derivation takes the pure-Go path
// and webp variants fail.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Route vips logs through our logger, configured BEFORE Startup()
	// so LOG_LEVEL is respected from the first message.
	var vipsLogLevel vips.LogLevel
	switch logging.GetLevel() {
	case logging.LevelDebug:
		vipsLogLevel = vips.LogLevelInfo
	case logging.LevelInfo:
		vipsLogLevel = vips.LogLevelWarning
	default:
		vipsLogLevel = vips.LogLevelError
	}
	vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
		switch {
		case level <= vips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case level == vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}, vipsLogLevel)

	// Conservative memory settings; parallelism comes from the image
	// pool, not from vips itself.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024, // 50MB cache
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips cleans up libvips resources
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// deriveWithVips loads a master with decode-time shrinking, resizes it to
// exactly width x height, and writes the encoded result atomically.
// Much more memory efficient than a full decode: a 60MP TIFF never
// materializes at native size.
func deriveWithVips(srcPath, outPath string, width, height int, format string, quality int) error {
	ref, err := vips.LoadImageFromFile(srcPath, vips.NewImportParams())
	if err != nil {
		return fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	// The target box has the master's exact aspect ratio, so no cropping
	// happens with InterestingNone.
	if err := ref.Thumbnail(width, height, vips.InterestingNone); err != nil {
		return fmt.Errorf("vips resize failed: %w", err)
	}

	data, err := exportVips(ref, format, quality)
	if err != nil {
		return fmt.Errorf("vips export failed: %w", err)
	}

	return atomicfile.WriteFile(outPath, data, 0o644)
}

// exportVips encodes the vips image in the requested format. Derived
// assets never carry the master's EXIF block.
func exportVips(ref *vips.ImageRef, format string, quality int) ([]byte, error) {
	switch format {
	case "jpeg":
		data, _, err := ref.ExportJpeg(&vips.JpegExportParams{
			Quality:        quality,
			StripMetadata:  true,
			OptimizeCoding: true,
		})
		return data, err
	case "webp":
		data, _, err := ref.ExportWebp(&vips.WebpExportParams{
			Quality:       quality,
			StripMetadata: true,
		})
		return data, err
	case "png":
		data, _, err := ref.ExportPng(&vips.PngExportParams{
			Compression:   6,
			StripMetadata: true,
		})
		return data, err
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
