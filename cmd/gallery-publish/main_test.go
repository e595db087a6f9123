package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// TestPrintUsage tests that printUsage doesn't panic
func TestPrintUsage(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("printUsage panicked: %v", r)
		}
	}()

	printUsage()
}

func TestSanitizeCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean command", input: "upload", want: "upload"},
		{name: "hyphen and underscore kept", input: "dry-run_2", want: "dry-run_2"},
		{name: "shell metacharacters replaced", input: "up;rm -rf", want: "up_rm__rf"},
		{name: "newline replaced", input: "a\nb", want: "a_b"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeCommand(tt.input); got != tt.want {
				t.Errorf("sanitizeCommand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "bytes", n: 512, want: "512 B"},
		{name: "kibibytes", n: 2048, want: "2.0 KiB"},
		{name: "mebibytes", n: 5 << 20, want: "5.0 MiB"},
		{name: "gibibytes", n: 3 << 30, want: "3.0 GiB"},
		{name: "zero", n: 0, want: "0 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := humanBytes(tt.n); got != tt.want {
				t.Errorf("humanBytes(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

// TestConfirmRequiresTerminal verifies that confirm refuses to proceed
// when stdin is not a terminal, which is the case under go test.
func TestConfirmRequiresTerminal(t *testing.T) {
	if _, err := confirm("proceed? "); err == nil {
		t.Error("expected an error when stdin is not a terminal")
	}
}

// TestRunUploadDryRun exercises the upload path that never needs
// credentials or a bucket.
func TestRunUploadDryRun(t *testing.T) {
	root := t.TempDir()
	writePublishFile(t, filepath.Join(root, "thumbnails", "abc.jpg"), "thumb")
	writePublishFile(t, filepath.Join(root, "data", "gallery.json"), `{"title":"T","images":[]}`)

	code := runUpload(context.Background(), []string{"-output", root, "-dry-run"})
	if code != 0 {
		t.Errorf("runUpload dry-run = %d, want 0", code)
	}
}

func TestRunUploadDryRunWithoutBuild(t *testing.T) {
	root := t.TempDir()

	code := runUpload(context.Background(), []string{"-output", root, "-dry-run"})
	if code != 1 {
		t.Errorf("runUpload on an empty directory = %d, want 1", code)
	}
}

func TestRunUploadBadFlag(t *testing.T) {
	code := runUpload(context.Background(), []string{"-no-such-flag"})
	if code != 2 {
		t.Errorf("runUpload with an unknown flag = %d, want 2", code)
	}
}

func writePublishFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
