package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"bare fence", "```\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"plain object", `{"key": "value"}`, `{"key": "value"}`},
		{"preamble", "Here is the JSON:\n{\"suggestions\": []}", `{"suggestions": []}`},
		{"trailing prose", "{\"a\": 1}\n\nHope this helps!", `{"a": 1}`},
		{"array", "Items:\n[\"x\", \"y\"]", `["x", "y"]`},
		{"braces in strings", `{"t": "Hello {name}!"}`, `{"t": "Hello {name}!"}`},
		{"escaped quotes", `Result: {"m": "say \"hi\" }"}`, `{"m": "say \"hi\" }"}`},
		{"no json", "  nothing here  ", "nothing here"},
		{"unbalanced", `{"a": 1`, `{"a": 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	assert.Equal(t, `{"outer": {"inner": [1, 2]}}`, extractJSONObject(`{"outer": {"inner": [1, 2]}} tail`))
	assert.Equal(t, `[[1], [2]]`, extractJSONArray(`[[1], [2]], more`))
	assert.Empty(t, extractJSONObject("not json"))
	assert.Empty(t, extractJSONArray(""))
}
