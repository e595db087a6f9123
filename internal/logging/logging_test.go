package logging

import (
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		debug    string
		level    string
		expected LogLevel
	}{
		{
			name:     "Debug via LOG_LEVEL",
			level:    "debug",
			expected: LevelDebug,
		},
		{
			name:     "Info via LOG_LEVEL",
			level:    "info",
			expected: LevelInfo,
		},
		{
			name:     "Warn via LOG_LEVEL",
			level:    "warn",
			expected: LevelWarn,
		},
		{
			name:     "Error via LOG_LEVEL",
			level:    "error",
			expected: LevelError,
		},
		{
			name:     "Case insensitive",
			level:    "DEBUG",
			expected: LevelDebug,
		},
		{
			name:     "Warning alias",
			level:    "warning",
			expected: LevelWarn,
		},
		{
			name:     "Default is info",
			level:    "",
			expected: LevelInfo,
		},
		{
			name:     "Garbage defaults to info",
			level:    "loud",
			expected: LevelInfo,
		},
		{
			name:     "DEBUG=1 wins over LOG_LEVEL",
			debug:    "1",
			level:    "error",
			expected: LevelDebug,
		},
		{
			name:     "DEBUG=true",
			debug:    "true",
			expected: LevelDebug,
		},
		{
			name:     "DEBUG=off is ignored",
			debug:    "off",
			level:    "warn",
			expected: LevelWarn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLevel(tt.debug, tt.level)
			if got != tt.expected {
				t.Errorf("parseLevel(%q, %q) = %v, want %v", tt.debug, tt.level, got, tt.expected)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	orig := GetLevel()
	defer SetLevel(orig)

	SetLevel(LevelError)
	if got := GetLevel(); got != LevelError {
		t.Errorf("GetLevel() after SetLevel(LevelError) = %v, want %v", got, LevelError)
	}
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() should be false at error level")
	}

	SetLevel(LevelDebug)
	if !IsDebugEnabled() {
		t.Error("IsDebugEnabled() should be true at debug level")
	}
}

func TestLogLevelConstants(t *testing.T) {
	// Verify log level ordering
	if LevelDebug >= LevelInfo {
		t.Error("LevelDebug should be less than LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("LevelInfo should be less than LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("LevelWarn should be less than LevelError")
	}
}

// TestLoggingFunctions tests that logging functions don't panic
func TestLoggingFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{
			name: "Debug doesn't panic",
			fn:   func() { Debug("test message") },
		},
		{
			name: "Info doesn't panic",
			fn:   func() { Info("test message") },
		},
		{
			name: "Warn doesn't panic",
			fn:   func() { Warn("test message") },
		},
		{
			name: "Error doesn't panic",
			fn:   func() { Error("test message") },
		},
		{
			name: "Info with args doesn't panic",
			fn:   func() { Info("test %s %d", "message", 123) },
		},
		{
			name: "Printf doesn't panic",
			fn:   func() { Printf("test %s %d", "message", 123) },
		},
		{
			name: "Println doesn't panic",
			fn:   func() { Println("test", "message", 123) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Function panicked: %v", r)
				}
			}()
			tt.fn()
		})
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := tt.level.String()
			if got != tt.expected {
				t.Errorf("LogLevel.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}
