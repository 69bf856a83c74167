package strings

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "short label unchanged", input: "OK", expected: "OK"},
		{name: "empty label", input: "", expected: ""},
		{name: "exact length unchanged", input: strings.Repeat("a", MaxLabelLen), expected: strings.Repeat("a", MaxLabelLen)},
		{name: "long label cut without ellipsis", input: strings.Repeat("b", MaxLabelLen+10), expected: strings.Repeat("b", MaxLabelLen)},
		{name: "unicode cut on rune boundary", input: strings.Repeat("日", MaxLabelLen+1), expected: strings.Repeat("日", MaxLabelLen)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateLabel(tt.input)
			assert.Equal(t, tt.expected, result)
			assert.True(t, utf8.ValidString(result))
		})
	}
}

func TestVisibleLabel(t *testing.T) {
	assert.Equal(t, "Apply", VisibleLabel("Apply"))
	assert.Equal(t, "Apply", VisibleLabel("Apply##settings"))
	assert.Equal(t, "Frame 12", VisibleLabel("Frame 12###fps"))
	assert.Equal(t, "", VisibleLabel("##hidden"))
}

func TestTruncateSummary(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "Check failed",
			maxLen:   20,
			expected: "Check failed",
		},
		{
			name:     "long string truncated",
			input:    "Unable to locate item Demo/Checkbox within 30 frames",
			maxLen:   24,
			expected: "Unable to locate item...",
		},
		{
			name:     "newlines collapsed",
			input:    "panic: boom\ngoroutine 7 [running]:\n",
			maxLen:   40,
			expected: "panic: boom goroutine 7 [running]:",
		},
		{
			name:     "unicode truncation safe",
			input:    "日本語テスト文字列",
			maxLen:   6,
			expected: "日本語...",
		},
		{
			name:     "whitespace only becomes empty",
			input:    "  \n\t ",
			maxLen:   10,
			expected: "",
		},
		{
			name:     "maxLen clamped to MinTruncateLen",
			input:    "hello",
			maxLen:   0,
			expected: "h...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateSummary(tt.input, tt.maxLen))
		})
	}
}
