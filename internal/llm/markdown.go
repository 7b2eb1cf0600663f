package llm

import "strings"

// cleanMarkdownWrapper strips a surrounding ``` fence, with or without a
// language tag, from a model response.
func cleanMarkdownWrapper(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	// Drop the language tag on the opening line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "[{\"") {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body)
}
