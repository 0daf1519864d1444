package llm

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// IsTransient reports whether a provider error is worth retrying:
// rate limits, upstream 5xx responses and network timeouts. Anything
// else (bad request, auth failure) fails immediately.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"timeout", "connection reset", "connection refused", "temporarily unavailable", "rate limit"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
