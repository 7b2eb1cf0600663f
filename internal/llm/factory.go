package llm

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/khru/internal/common"
)

// NewClient builds a provider client wrapped with rate limiting and, when
// CacheTTL is positive, response caching. The returned closer stops the
// limiter's background goroutine.
func NewClient(cfg Config) (Client, io.Closer, error) {
	var (
		base Client
		err  error
	)
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		base, err = newGeminiClient(cfg)
	case "anthropic":
		base, err = newAnthropicClient(cfg)
	case "openai":
		base, err = newOpenAIClient(cfg)
	default:
		return nil, nil, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrMissingConfig, err)
	}

	limited := &limitedClient{next: base, limiter: newRateLimiter(cfg.RateLimit)}
	if cfg.CacheTTL <= 0 {
		return limited, limited, nil
	}
	return newCachedClient(limited, cfg.CacheTTL), limited, nil
}
