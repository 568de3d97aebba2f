package groq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"bare object",
			`{"programName": "Summer Sale"}`,
			`{"programName": "Summer Sale"}`,
		},
		{
			"markdown fenced",
			"```json\n{\"programName\": \"Summer Sale\"}\n```",
			`{"programName": "Summer Sale"}`,
		},
		{
			"prose around object",
			`Here is the extraction: {"a": 1} hope it helps`,
			`{"a": 1}`,
		},
		{
			"trailing comma fixed",
			`{"a": 1,}`,
			`{"a": 1}`,
		},
		{
			"unquoted key fixed",
			`{a: "b"}`,
			`{"a": "b"}`,
		},
		{
			"nested braces in strings",
			`{"a": "value with } brace", "b": {"c": 2}}`,
			`{"a": "value with } brace", "b": {"c": 2}}`,
		},
		{"no object at all", "sorry, I cannot read this document", ""},
		{"empty object", "{}", ""},
		{"not json", "{16}", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}
