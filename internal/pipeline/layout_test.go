package pipeline

import (
	"path/filepath"
	"testing"
)

func TestVariantRelPath(t *testing.T) {
	tests := []struct {
		name    string
		variant string
		id      string
		format  string
		want    string
	}{
		{
			name:    "Thumbnail webp",
			variant: "thumbnail",
			id:      "abc123def456",
			format:  "webp",
			want:    "thumbnails/abc123def456.webp",
		},
		{
			name:    "Preview jpeg uses jpg extension",
			variant: "preview",
			id:      "abc123def456",
			format:  "jpeg",
			want:    "previews/abc123def456.jpg",
		},
		{
			name:    "Jpg alias",
			variant: "social",
			id:      "0011aabbccdd",
			format:  "jpg",
			want:    "socials/0011aabbccdd.jpg",
		},
		{
			name:    "Unknown format keeps its name",
			variant: "preview",
			id:      "abc123def456",
			format:  "bmp",
			want:    "previews/abc123def456.bmp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VariantRelPath(tt.variant, tt.id, tt.format); got != tt.want {
				t.Errorf("VariantRelPath(%q, %q, %q) = %q, want %q",
					tt.variant, tt.id, tt.format, got, tt.want)
			}
		})
	}
}

func TestTilesRelPath(t *testing.T) {
	if got := TilesRelPath("abc123def456"); got != "tiles/abc123def456" {
		t.Errorf("TilesRelPath = %q, want tiles/abc123def456", got)
	}
}

func TestMasterRelPath(t *testing.T) {
	if got := MasterRelPath("abc123def456", "png"); got != "masters/abc123def456.png" {
		t.Errorf("MasterRelPath = %q, want masters/abc123def456.png", got)
	}
}

func TestAbsPath(t *testing.T) {
	got := absPath("/out", "tiles/abc/3/0_0.jpg")
	want := filepath.Join("/out", "tiles", "abc", "3", "0_0.jpg")
	if got != want {
		t.Errorf("absPath = %q, want %q", got, want)
	}
}
