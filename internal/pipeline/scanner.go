package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gallery-pipeline/internal/logging"
	"gallery-pipeline/internal/mediatypes"
)

// ScannedMaster is one source image found under the input root.
type ScannedMaster struct {
	Path    string // absolute path
	RelPath string // slash-separated path relative to the input root
}

// ScanResult lists what a scan found. Masters are in deterministic
// lexical walk order, which is also the order records keep in the
// manifest unless a sort key is configured.
type ScanResult struct {
	Masters []ScannedMaster
	Skipped []string // recognized image files with no available decoder
}

// Scan walks the input tree and classifies every file. Hidden files and
// directories are ignored. Recognized-but-undecodable formats (HEIC)
// are reported as skipped with a warning; unrelated files are ignored
// silently.
func Scan(inputDir string) (*ScanResult, error) {
	result := &ScanResult{}

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == inputDir {
				return err
			}
			logging.Warn("Error accessing path %s: %v", path, err)
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") && path != inputDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		ext := strings.ToLower(filepath.Ext(d.Name()))
		switch mediatypes.ClassifyMaster(ext) {
		case mediatypes.SupportDecodable:
			result.Masters = append(result.Masters, ScannedMaster{Path: path, RelPath: relPath})
		case mediatypes.SupportRecognized:
			logging.Warn("Skipping %s: no decoder available for %s", relPath, ext)
			result.Skipped = append(result.Skipped, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan input directory: %w", err)
	}

	logging.Info("Scan found %d masters under %s (%d skipped)", len(result.Masters), inputDir, len(result.Skipped))
	return result, nil
}
