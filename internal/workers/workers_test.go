package workers

import (
	"os"
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	// Save and restore original environment
	originalEnv := os.Getenv("PIPELINE_WORKERS")
	defer func() {
		if originalEnv != "" {
			os.Setenv("PIPELINE_WORKERS", originalEnv)
		} else {
			os.Unsetenv("PIPELINE_WORKERS")
		}
	}()

	// Clear any existing override
	os.Unsetenv("PIPELINE_WORKERS")

	availableCPU := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		minExpect  int
		maxExpect  int
	}{
		{
			name:       "CPU-bound task (1.0x multiplier)",
			multiplier: 1.0,
			limit:      0,
			minExpect:  1,
			maxExpect:  availableCPU,
		},
		{
			name:       "I/O-bound task (2.0x multiplier)",
			multiplier: 2.0,
			limit:      0,
			minExpect:  1,
			maxExpect:  availableCPU * 2,
		},
		{
			name:       "With limit lower than calculated",
			multiplier: 2.0,
			limit:      2,
			minExpect:  1,
			maxExpect:  2,
		},
		{
			name:       "Very low multiplier still yields a worker",
			multiplier: 0.1,
			limit:      0,
			minExpect:  1,
			maxExpect:  availableCPU,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.multiplier, tt.limit)

			if got < tt.minExpect {
				t.Errorf("Count(%v, %d) = %d, expected >= %d", tt.multiplier, tt.limit, got, tt.minExpect)
			}

			if got > tt.maxExpect {
				t.Errorf("Count(%v, %d) = %d, expected <= %d", tt.multiplier, tt.limit, got, tt.maxExpect)
			}
		})
	}
}

func TestCountWithEnvOverride(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		limit    int
		expected int
		wantCalc bool
	}{
		{
			name:     "Valid override",
			envValue: "8",
			limit:    0,
			expected: 8,
		},
		{
			name:     "Override capped by limit",
			envValue: "20",
			limit:    10,
			expected: 10,
		},
		{
			name:     "Override below limit",
			envValue: "5",
			limit:    10,
			expected: 5,
		},
		{
			name:     "Invalid override (non-numeric)",
			envValue: "invalid",
			limit:    0,
			wantCalc: true,
		},
		{
			name:     "Invalid override (zero)",
			envValue: "0",
			limit:    0,
			wantCalc: true,
		},
		{
			name:     "Invalid override (negative)",
			envValue: "-5",
			limit:    0,
			wantCalc: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("PIPELINE_WORKERS", tt.envValue)
			defer os.Unsetenv("PIPELINE_WORKERS")

			got := Count(1.0, tt.limit)

			if tt.wantCalc {
				// Should fall back to default calculation
				if got < 1 {
					t.Errorf("Count with invalid override should return at least 1, got %d", got)
				}
			} else {
				if got != tt.expected {
					t.Errorf("Count(1.0, %d) with PIPELINE_WORKERS=%s = %d, want %d", tt.limit, tt.envValue, got, tt.expected)
				}
			}
		})
	}
}

func TestForCPU(t *testing.T) {
	os.Unsetenv("PIPELINE_WORKERS")
	defer os.Unsetenv("PIPELINE_WORKERS")

	tests := []struct {
		name  string
		limit int
	}{
		{name: "No limit", limit: 0},
		{name: "With limit of 4", limit: 4},
		{name: "With limit of 1", limit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForCPU(tt.limit)

			if got < 1 {
				t.Errorf("ForCPU(%d) = %d, want >= 1", tt.limit, got)
			}
			if tt.limit > 0 && got > tt.limit {
				t.Errorf("ForCPU(%d) = %d, should not exceed limit", tt.limit, got)
			}
			if tt.limit == 0 && got > runtime.GOMAXPROCS(0) {
				t.Errorf("ForCPU(0) = %d, should not exceed GOMAXPROCS=%d", got, runtime.GOMAXPROCS(0))
			}
		})
	}
}

func TestForIO(t *testing.T) {
	os.Unsetenv("PIPELINE_WORKERS")
	defer os.Unsetenv("PIPELINE_WORKERS")

	got := ForIO(8)
	if got < 1 {
		t.Errorf("ForIO(8) = %d, want >= 1", got)
	}
	if got > 8 {
		t.Errorf("ForIO(8) = %d, should not exceed limit", got)
	}
}

func TestForMixed(t *testing.T) {
	os.Unsetenv("PIPELINE_WORKERS")
	defer os.Unsetenv("PIPELINE_WORKERS")

	got := ForMixed(0)
	if got < 1 {
		t.Errorf("ForMixed(0) = %d, want >= 1", got)
	}
}

func TestCountBoundaries(t *testing.T) {
	os.Unsetenv("PIPELINE_WORKERS")
	defer os.Unsetenv("PIPELINE_WORKERS")

	tests := []struct {
		name       string
		multiplier float64
		limit      int
	}{
		{"Zero multiplier", 0.0, 0},
		{"Negative multiplier", -1.0, 0},
		{"Very high multiplier", 100.0, 0},
		{"Very high limit", 1.0, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.multiplier, tt.limit)

			// Should never return less than 1
			if got < 1 {
				t.Errorf("Count(%v, %d) = %d, should never be less than 1", tt.multiplier, tt.limit, got)
			}

			// Should respect limit if set
			if tt.limit > 0 && got > tt.limit {
				t.Errorf("Count(%v, %d) = %d, should not exceed limit", tt.multiplier, tt.limit, got)
			}
		})
	}
}

func BenchmarkCount(b *testing.B) {
	os.Unsetenv("PIPELINE_WORKERS")

	for i := 0; i < b.N; i++ {
		_ = Count(1.5, 10)
	}
}
