package ingest

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTestPNG writes a width x height PNG into dir and returns its path.
func writeTestPNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return path
}

func TestImageID(t *testing.T) {
	tests := []struct {
		name    string
		relPath string
		want    string
	}{
		{
			name:    "Flat file",
			relPath: "photo.jpg",
			want:    "72acded3acd4",
		},
		{
			name:    "Nested path with spaces",
			relPath: "Iceland/Gullfoss - Golden Falls.tiff",
			want:    "0adca34b24fa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ImageID(tt.relPath)
			if got != tt.want {
				t.Errorf("ImageID(%q) = %q, want %q", tt.relPath, got, tt.want)
			}
			if len(got) != 12 {
				t.Errorf("ImageID(%q) length = %d, want 12", tt.relPath, len(got))
			}
		})
	}
}

func TestImageIDStable(t *testing.T) {
	first := ImageID("some/path.jpg")
	for i := 0; i < 3; i++ {
		if got := ImageID("some/path.jpg"); got != first {
			t.Errorf("ImageID not stable: %q != %q", got, first)
		}
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name         string
		stem         string
		wantTitle    string
		wantLocation string
	}{
		{
			name:         "Title and location",
			stem:         "Dune at Dawn - Death Valley",
			wantTitle:    "Dune at Dawn",
			wantLocation: "Death Valley",
		},
		{
			name:      "Title only",
			stem:      "Lone Pine",
			wantTitle: "Lone Pine",
		},
		{
			name:         "Only first separator splits",
			stem:         "Bridge - Golden Gate - San Francisco",
			wantTitle:    "Bridge",
			wantLocation: "Golden Gate - San Francisco",
		},
		{
			name:      "Hyphen without spaces is not a separator",
			stem:      "Black-and-White Study",
			wantTitle: "Black-and-White Study",
		},
		{
			name:         "Extra whitespace trimmed",
			stem:         "Peaks  -  Dolomites",
			wantTitle:    "Peaks",
			wantLocation: "Dolomites",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, location := ParseFilename(tt.stem)
			if title != tt.wantTitle {
				t.Errorf("ParseFilename(%q) title = %q, want %q", tt.stem, title, tt.wantTitle)
			}
			if location != tt.wantLocation {
				t.Errorf("ParseFilename(%q) location = %q, want %q", tt.stem, location, tt.wantLocation)
			}
		})
	}
}

func TestCollectionOf(t *testing.T) {
	tests := []struct {
		name    string
		relPath string
		want    string
	}{
		{
			name:    "Root-level file has no collection",
			relPath: "photo.jpg",
			want:    "",
		},
		{
			name:    "Immediate parent is the collection",
			relPath: "Iceland/Gullfoss.tiff",
			want:    "Iceland",
		},
		{
			name:    "Deep nesting uses the nearest parent",
			relPath: "2025/Iceland/Gullfoss.tiff",
			want:    "Iceland",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollectionOf(tt.relPath)
			if got != tt.want {
				t.Errorf("CollectionOf(%q) = %q, want %q", tt.relPath, got, tt.want)
			}
		})
	}
}

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "Iceland/Gullfoss - Golden Falls.png", 320, 240)

	master, err := Ingest(path, "Iceland/Gullfoss - Golden Falls.png")
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	if master.Width != 320 || master.Height != 240 {
		t.Errorf("Dimensions = %dx%d, want 320x240", master.Width, master.Height)
	}
	if master.Title != "Gullfoss" {
		t.Errorf("Title = %q, want 'Gullfoss'", master.Title)
	}
	if master.Location != "Golden Falls" {
		t.Errorf("Location = %q, want 'Golden Falls'", master.Location)
	}
	if master.Collection != "Iceland" {
		t.Errorf("Collection = %q, want 'Iceland'", master.Collection)
	}
	if master.Format != "png" {
		t.Errorf("Format = %q, want 'png'", master.Format)
	}
	if master.FileSize <= 0 {
		t.Errorf("FileSize = %d, want > 0", master.FileSize)
	}
	if master.ID != ImageID("Iceland/Gullfoss - Golden Falls.png") {
		t.Errorf("ID = %q, not derived from the relative path", master.ID)
	}
	// PNGs generated here carry no EXIF.
	if master.Meta != nil {
		t.Errorf("Meta = %+v, want nil for EXIF-less master", master.Meta)
	}

	ratio := master.AspectRatio()
	if ratio < 1.333 || ratio > 1.334 {
		t.Errorf("AspectRatio() = %v, want ~1.3333", ratio)
	}
}

func TestIngestUnreadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.jpg")
	if err := os.WriteFile(path, []byte("this is not an image"), 0o644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	_, err := Ingest(path, "corrupt.jpg")
	if err == nil {
		t.Fatal("Expected error for corrupt master, got nil")
	}

	var unreadable *UnreadableImageError
	if !errors.As(err, &unreadable) {
		t.Errorf("Expected *UnreadableImageError, got %T", err)
	}
	if !errors.Is(err, ErrUnreadableImage) {
		t.Error("Expected errors.Is(err, ErrUnreadableImage) to hold")
	}
	if unreadable.Path != path {
		t.Errorf("Error path = %q, want %q", unreadable.Path, path)
	}
}

func TestIngestUnsupportedFormat(t *testing.T) {
	// A valid PNG behind a non-master extension is rejected before any
	// decode attempt.
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "notes.txt", 10, 10)

	_, err := Ingest(path, "notes.txt")
	if err == nil {
		t.Fatal("Expected error for unsupported extension, got nil")
	}
	if !errors.Is(err, ErrUnreadableImage) {
		t.Errorf("Expected ErrUnreadableImage, got %v", err)
	}
}

func TestIngestMissingFile(t *testing.T) {
	_, err := Ingest(filepath.Join(t.TempDir(), "nope.jpg"), "nope.jpg")
	if err == nil {
		t.Fatal("Expected error for missing master, got nil")
	}
	if !errors.Is(err, ErrUnreadableImage) {
		t.Errorf("Expected ErrUnreadableImage, got %v", err)
	}
}

func TestIngestTruncated(t *testing.T) {
	// A valid PNG signature with nothing after it decodes no header.
	dir := t.TempDir()
	path := filepath.Join(dir, "truncated.png")
	sig := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	if err := os.WriteFile(path, sig, 0o644); err != nil {
		t.Fatalf("Failed to write truncated file: %v", err)
	}

	_, err := Ingest(path, "truncated.png")
	if err == nil {
		t.Fatal("Expected error for truncated master, got nil")
	}
	if !errors.Is(err, ErrUnreadableImage) {
		t.Errorf("Expected ErrUnreadableImage, got %v", err)
	}
}

func TestMetaDateFormatting(t *testing.T) {
	captured := time.Date(2025, time.March, 7, 14, 30, 5, 0, time.UTC)
	meta := &Meta{Captured: captured}

	if got := meta.DateDisplay(); got != "March 07, 2025" {
		t.Errorf("DateDisplay() = %q, want 'March 07, 2025'", got)
	}
	if got := meta.SortKey(); got != "20250307143005" {
		t.Errorf("SortKey() = %q, want '20250307143005'", got)
	}
}

func TestMetaNilReceiver(t *testing.T) {
	var meta *Meta
	if got := meta.DateDisplay(); got != "" {
		t.Errorf("nil DateDisplay() = %q, want empty", got)
	}
	if got := meta.SortKey(); got != "" {
		t.Errorf("nil SortKey() = %q, want empty", got)
	}
}
