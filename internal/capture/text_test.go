package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"collapses spaces", "Line    with \t multiple    spaces", "Line with multiple spaces"},
		{"line endings", "Line 1\r\nLine 2\rLine 3", "Line 1\nLine 2\nLine 3"},
		{"blank line runs", "Line 1\n\n\n\n\nLine 2", "Line 1\n\nLine 2"},
		{"bullets", "• Go\n· Rust\n* Python\n- Java", "- Go\n- Rust\n- Python\n- Java"},
		{"trims edges", "\n\n  Title  \n\n", "Title"},
		{"non-breaking space", "Remote\u00a0\u00a0friendly", "Remote friendly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	input := "Title\n\n\n• one   two\r\n"
	once := CleanText(input)
	assert.Equal(t, once, CleanText(once))
}
