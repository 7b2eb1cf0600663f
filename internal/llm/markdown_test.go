package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `["a"]`, want: `["a"]`},
		{name: "json fence", in: "```json\n[\"a\", \"b\"]\n```", want: `["a", "b"]`},
		{name: "bare fence", in: "```\n[]\n```", want: "[]"},
		{name: "single line fence", in: "```[\"a\"]```", want: `["a"]`},
		{name: "surrounding whitespace", in: "  \n```json\n[1]\n```\n ", want: "[1]"},
		{name: "unterminated", in: "```json\n[1]", want: "```json\n[1]"},
		{name: "too short", in: "`````", want: "`````"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.in))
		})
	}
}
