package errors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{
			name:     "wrap nil error",
			err:      nil,
			msg:      "fetch registry metadata",
			expected: "",
		},
		{
			name:     "wrap standard error",
			err:      errors.New("connection reset"),
			msg:      "fetch registry metadata",
			expected: "fetch registry metadata: connection reset",
		},
		{
			name:     "wrap with empty message",
			err:      errors.New("connection reset"),
			msg:      "",
			expected: ": connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				if result != nil {
					t.Errorf("Expected nil, got %v", result)
				}
				return
			}
			if result.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Error())
			}
			// Test that the original error is wrapped
			if !errors.Is(result, tt.err) {
				t.Errorf("Expected wrapped error to contain original error")
			}
		})
	}
}

func TestWrapf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		format   string
		args     []interface{}
		expected string
	}{
		{
			name:     "wrapf nil error",
			err:      nil,
			format:   "formatted: %s",
			args:     []interface{}{"test"},
			expected: "",
		},
		{
			name:     "wrapf standard error",
			err:      errors.New("connection reset"),
			format:   "failed to install %s",
			args:     []interface{}{"denikson-BepInExPack_Valheim"},
			expected: "failed to install denikson-BepInExPack_Valheim: connection reset",
		},
		{
			name:     "wrapf with multiple args",
			err:      errors.New("connection reset"),
			format:   "failed to fetch %s after %d attempts",
			args:     []interface{}{"ValheimModding-Jotunn", 2},
			expected: "failed to fetch ValheimModding-Jotunn after 2 attempts: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrapf(tt.err, tt.format, tt.args...)
			if tt.err == nil {
				if result != nil {
					t.Errorf("Expected nil, got %v", result)
				}
				return
			}
			if result.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Error())
			}
			// Test that the original error is wrapped
			if !errors.Is(result, tt.err) {
				t.Errorf("Expected wrapped error to contain original error")
			}
		})
	}
}

func TestTag(t *testing.T) {
	cause := errors.New("unexpected EOF")

	tagged := Tag(ErrExtraction, cause)
	if !errors.Is(tagged, ErrExtraction) {
		t.Errorf("Expected tagged error to match its category")
	}
	if !errors.Is(tagged, cause) {
		t.Errorf("Expected tagged error to keep its cause")
	}
	if errors.Is(tagged, ErrDownload) {
		t.Errorf("Expected tagged error not to match an unrelated category")
	}
	if got := tagged.Error(); got != "extraction failed: unexpected EOF" {
		t.Errorf("Expected %q, got %q", "extraction failed: unexpected EOF", got)
	}
	if Tag(ErrExtraction, nil) != nil {
		t.Errorf("Expected nil for nil cause")
	}
}
