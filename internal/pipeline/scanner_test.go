package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScanClassifiesTree(t *testing.T) {
	inputDir := t.TempDir()

	// Scan classifies by extension only, so placeholder bytes are fine.
	writeFile(t, filepath.Join(inputDir, "a.jpg"), []byte("jpg"))
	writeFile(t, filepath.Join(inputDir, "iceland", "b.JPG"), []byte("jpg"))
	writeFile(t, filepath.Join(inputDir, "iceland", "c.heic"), []byte("heic"))
	writeFile(t, filepath.Join(inputDir, "japan", "e.png"), []byte("png"))
	writeFile(t, filepath.Join(inputDir, "notes.txt"), []byte("text"))
	writeFile(t, filepath.Join(inputDir, ".DS_Store"), []byte("junk"))
	writeFile(t, filepath.Join(inputDir, ".cache", "d.jpg"), []byte("jpg"))

	result, err := Scan(inputDir)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	wantMasters := []string{"a.jpg", "iceland/b.JPG", "japan/e.png"}
	if len(result.Masters) != len(wantMasters) {
		t.Fatalf("Scan found %d masters, want %d: %+v", len(result.Masters), len(wantMasters), result.Masters)
	}
	for i, want := range wantMasters {
		if result.Masters[i].RelPath != want {
			t.Errorf("Masters[%d].RelPath = %q, want %q", i, result.Masters[i].RelPath, want)
		}
	}

	if len(result.Skipped) != 1 || result.Skipped[0] != "iceland/c.heic" {
		t.Errorf("Skipped = %v, want [iceland/c.heic]", result.Skipped)
	}
}

func TestScanOrderIsDeterministic(t *testing.T) {
	inputDir := t.TempDir()
	writeFile(t, filepath.Join(inputDir, "charlie.png"), []byte("png"))
	writeFile(t, filepath.Join(inputDir, "alpha.png"), []byte("png"))
	writeFile(t, filepath.Join(inputDir, "bravo.png"), []byte("png"))

	first, err := Scan(inputDir)
	if err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	second, err := Scan(inputDir)
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}

	if len(first.Masters) != 3 {
		t.Fatalf("Scan found %d masters, want 3", len(first.Masters))
	}
	for i := range first.Masters {
		if first.Masters[i].RelPath != second.Masters[i].RelPath {
			t.Errorf("scan order differs at %d: %q vs %q",
				i, first.Masters[i].RelPath, second.Masters[i].RelPath)
		}
	}
	// Lexical walk order.
	if first.Masters[0].RelPath != "alpha.png" {
		t.Errorf("Masters[0] = %q, want alpha.png", first.Masters[0].RelPath)
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("Scan of a missing root should return an error")
	}
}

func TestScanEmptyTree(t *testing.T) {
	result, err := Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(result.Masters) != 0 || len(result.Skipped) != 0 {
		t.Errorf("empty tree scanned as %+v", result)
	}
}
