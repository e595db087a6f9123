package startup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gallery-pipeline/internal/gallery"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	// Check that all fields are populated
	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}

	// Verify that runtime values are correct
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
			setEnv:       false,
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				// Ensure the variable is not set
				os.Unsetenv(tt.key)
				t.Cleanup(func() {
					os.Unsetenv(tt.key)
				})
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestLoadResolvesDefaults(t *testing.T) {
	cfg, err := Load(Options{InputDir: t.TempDir(), OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Workers < 1 {
		t.Errorf("Workers = %d, want >= 1", cfg.Workers)
	}
	if cfg.Order != gallery.OrderScan {
		t.Errorf("Order = %v, want scan order by default", cfg.Order)
	}
	if cfg.StatusAddr != ":9090" {
		t.Errorf("StatusAddr = %q, want :9090", cfg.StatusAddr)
	}
	if cfg.StatusEnabled {
		t.Error("status server should be disabled by default")
	}
	if !cfg.VipsEnabled {
		t.Error("libvips should be enabled by default")
	}

	// The built-in derivation profile applies when no file is given.
	if cfg.Profile == nil {
		t.Fatal("Profile should be set")
	}
	if _, ok := cfg.Profile.Variants["thumbnail"]; !ok {
		t.Error("default profile should include a thumbnail variant")
	}
	if _, ok := cfg.Profile.Variants["preview"]; !ok {
		t.Error("default profile should include a preview variant")
	}
}

func TestLoadMissingInput(t *testing.T) {
	_, err := Load(Options{})
	if err == nil {
		t.Fatal("Load without an input directory should fail")
	}
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("error %T is not a *ConfigurationError", err)
	}
}

func TestLoadNonexistentInput(t *testing.T) {
	_, err := Load(Options{InputDir: filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatal("Load with a missing input tree should fail")
	}
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("error %T is not a *ConfigurationError", err)
	}
}

func TestLoadSortKeys(t *testing.T) {
	inputDir := t.TempDir()

	cfg, err := Load(Options{InputDir: inputDir, OutputDir: t.TempDir(), SortKey: "date"})
	if err != nil {
		t.Fatalf("Load with -sort date: %v", err)
	}
	if cfg.Order != gallery.OrderDate {
		t.Errorf("Order = %v, want date order", cfg.Order)
	}

	if _, err := Load(Options{InputDir: inputDir, OutputDir: t.TempDir(), SortKey: "title"}); err == nil {
		t.Error("Load should reject an unknown sort key")
	}
}

func TestLoadEnvFallbacks(t *testing.T) {
	inputDir := t.TempDir()
	t.Setenv("GALLERY_INPUT_DIR", inputDir)
	t.Setenv("GALLERY_OUTPUT_DIR", t.TempDir())
	t.Setenv("GALLERY_SORT", "date")
	t.Setenv("STATUS_ENABLED", "true")
	t.Setenv("STATUS_PORT", "9191")

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load from environment: %v", err)
	}
	if cfg.InputDir != inputDir {
		t.Errorf("InputDir = %q, want %q", cfg.InputDir, inputDir)
	}
	if cfg.Order != gallery.OrderDate {
		t.Errorf("Order = %v, want date order from GALLERY_SORT", cfg.Order)
	}
	if !cfg.StatusEnabled || cfg.StatusAddr != ":9191" {
		t.Errorf("status = %v at %q, want enabled at :9191", cfg.StatusEnabled, cfg.StatusAddr)
	}
}

func TestLoadDryRunSkipsOutputSetup(t *testing.T) {
	inputDir := t.TempDir()
	blocked := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(blocked, []byte("file"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	// A dry run never touches the output path.
	if _, err := Load(Options{InputDir: inputDir, OutputDir: blocked, DryRun: true}); err != nil {
		t.Errorf("dry-run Load should not validate the output path: %v", err)
	}

	// A real run must fail on an unusable output path.
	if _, err := Load(Options{InputDir: inputDir, OutputDir: blocked}); err == nil {
		t.Error("Load should reject an output path that is a file")
	}
}

func TestConfigurationErrorUnwrap(t *testing.T) {
	cause := errors.New("bad value")
	err := &ConfigurationError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("ConfigurationError should unwrap to its cause")
	}
	if err.Error() != "configuration: bad value" {
		t.Errorf("Error() = %q", err.Error())
	}
}
