package gallery

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gallery-pipeline/internal/atomicfile"
	"gallery-pipeline/internal/logging"
	"gallery-pipeline/internal/metrics"
)

// Order selects how manifest records are arranged.
type Order string

const (
	// OrderScan keeps records in the order their masters were scheduled,
	// which is the deterministic scan order of the input tree.
	OrderScan Order = "scan"
	// OrderDate sorts records by capture time, newest first.
	OrderDate Order = "date"
)

// Record is one image's manifest entry: identity, display fields,
// dimensions, artifact paths, and the optional technical metadata.
type Record struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Filename     string  `json:"filename"`
	Collection   string  `json:"collection,omitempty"`
	Date         string  `json:"date,omitempty"`
	Location     string  `json:"location,omitempty"`
	Description  string  `json:"description,omitempty"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	AspectRatio  float64 `json:"aspectRatio"`
	Thumbnail    string  `json:"thumbnail"`
	Preview      string  `json:"preview"`
	Tiles        string  `json:"tiles"`
	Master       string  `json:"master"`
	Camera       string  `json:"camera,omitempty"`
	Lens         string  `json:"lens,omitempty"`
	FocalLength  string  `json:"focalLength,omitempty"`
	Aperture     string  `json:"aperture,omitempty"`
	ShutterSpeed string  `json:"shutterSpeed,omitempty"`
	ISO          string  `json:"iso,omitempty"`
	MasterSize   int64   `json:"masterSize,omitempty"`
	MasterFormat string  `json:"masterFormat,omitempty"`

	// DateSort orders records by capture time; it never reaches the
	// manifest.
	DateSort string `json:"-"`
}

// Manifest is the gallery document the viewer consumes.
type Manifest struct {
	Title          string   `json:"title"`
	Subtitle       string   `json:"subtitle,omitempty"`
	Author         string   `json:"author"`
	StorageBaseURL string   `json:"storageBaseUrl"`
	LastUpdated    string   `json:"lastUpdated"`
	Collections    []string `json:"collections"`
	Images         []Record `json:"images"`
}

// Assembler merges per-image records and global gallery fields into the
// final manifest.
type Assembler struct {
	Title          string
	Subtitle       string
	Author         string
	StorageBaseURL string
	Order          Order
}

// Assemble validates and orders records into a manifest. Records
// missing a required artifact path are excluded with a warning and
// returned as errors so the build summary can report them; one bad
// image never blocks publishing the rest.
func (a *Assembler) Assemble(records []Record) (*Manifest, []error) {
	included := make([]Record, 0, len(records))
	var excluded []error

	for _, rec := range records {
		if missing := rec.missingPaths(); len(missing) > 0 {
			err := &IncompleteRecordError{ID: rec.ID, Title: rec.Title, Missing: missing}
			logging.Warn("Excluding from manifest: %v", err)
			excluded = append(excluded, err)
			continue
		}
		included = append(included, rec)
	}

	if a.Order == OrderDate {
		sortByCaptureDate(included)
	}

	metrics.ManifestRecords.Set(float64(len(included)))
	metrics.ManifestExcludedTotal.Add(float64(len(excluded)))

	return &Manifest{
		Title:          a.Title,
		Subtitle:       a.Subtitle,
		Author:         a.Author,
		StorageBaseURL: a.StorageBaseURL,
		LastUpdated:    time.Now().UTC().Format(time.RFC3339),
		Collections:    collectCollections(included),
		Images:         included,
	}, excluded
}

// missingPaths reports which required artifact paths the record lacks.
func (r *Record) missingPaths() []string {
	var missing []string
	if r.Thumbnail == "" {
		missing = append(missing, "thumbnail")
	}
	if r.Preview == "" {
		missing = append(missing, "preview")
	}
	if r.Tiles == "" {
		missing = append(missing, "tiles")
	}
	if r.Master == "" {
		missing = append(missing, "master")
	}
	return missing
}

// sortByCaptureDate orders newest first; records without a capture time
// sort last. Full ties keep their scan order.
func sortByCaptureDate(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DateSort != records[j].DateSort {
			return records[i].DateSort > records[j].DateSort
		}
		return records[i].Title > records[j].Title
	})
}

// collectCollections returns the distinct collection tags in first-seen
// order over the final record sequence.
func collectCollections(records []Record) []string {
	seen := make(map[string]bool)
	collections := []string{}
	for _, rec := range records {
		if rec.Collection == "" || seen[rec.Collection] {
			continue
		}
		seen[rec.Collection] = true
		collections = append(collections, rec.Collection)
	}
	return collections
}

// ManifestPath returns the manifest location inside an output root.
func ManifestPath(outputRoot string) string {
	return filepath.Join(outputRoot, "data", "gallery.json")
}

// Write serializes the manifest to path atomically, creating parent
// directories as needed.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return atomicfile.WriteFile(path, data, 0o644)
}

// Read loads a manifest previously written by Write.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Ratio returns the manifest aspect ratio for a master's dimensions,
// rounded to four decimals.
func Ratio(width, height int) float64 {
	if height == 0 {
		return 0
	}
	return math.Round(float64(width)/float64(height)*10000) / 10000
}
