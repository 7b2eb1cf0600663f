// Package llm talks to hosted language models for study tips and curriculum
// indicator suggestions. Gemini, Anthropic, and OpenAI are supported behind a
// single Client interface with rate limiting and response caching.
package llm
