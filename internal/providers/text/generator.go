package text

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"logoforge/internal/domain"
)

const (
	staticProviderName = "static"
	geminiProviderName = "gemini"
	openAIProviderName = "openai"
)

// DefaultTimeout is the budget of a single provider call.
const DefaultTimeout = 30 * time.Second

// Request is a single text generation call.
type Request struct {
	Prompt string
	// JSON asks the provider for a bare JSON object answer.
	JSON bool
}

// Generator produces text for a prompt. Failures are *domain.ProviderError.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// FailureHook observes provider failures with a short reason code such as
// "http_request", "http_503" or "decode_response".
type FailureHook func(reason string, err error)

func (h FailureHook) emit(reason string, err error) {
	if h != nil {
		h(reason, err)
	}
}

func readErrorBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return strings.TrimSpace(string(body))
}

func statusReason(status int) string {
	return fmt.Sprintf("http_%d", status)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func missingField(provider, field string) *domain.ProviderError {
	return domain.NewProviderError(provider, domain.ProviderKindMissingField, fmt.Errorf("response has no %s", field))
}
