package image

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	openAIProviderName    = "openai"
	geminiProviderName    = "gemini"
	syntheticProviderName = "synthetic"
)

// DefaultSize is used when a request carries no size.
const DefaultSize = "1024x1024"

// DefaultTimeout is the budget of a single provider call.
const DefaultTimeout = 30 * time.Second

// GenerateRequest describes a normalized request passed to any image provider.
type GenerateRequest struct {
	Prompt    string
	Size      string
	RequestID string
}

// Asset represents one generated image.
type Asset struct {
	Data   []byte
	Format string
	URL    string
}

// Generator is the contract implemented by all image providers. Failures are
// *domain.ProviderError.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
	Name() string
}

// FailureHook observes provider failures with a short reason code.
type FailureHook func(reason string, err error)

func (h FailureHook) emit(reason string, err error) {
	if h != nil {
		h(reason, err)
	}
}

// ParseSize splits a "WIDTHxHEIGHT" token. Invalid input yields 1024x1024.
func ParseSize(size string) (int, int) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(size)), "x")
	if !ok {
		return 1024, 1024
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return 1024, 1024
	}
	return width, height
}

// AspectRatio maps a pixel size to the closest ratio token Gemini accepts.
func AspectRatio(size string) string {
	width, height := ParseSize(size)
	ratio := float64(width) / float64(height)
	switch {
	case ratio >= 1.6:
		return "16:9"
	case ratio >= 1.2:
		return "4:3"
	case ratio <= 0.625:
		return "9:16"
	case ratio <= 0.83:
		return "3:4"
	default:
		return "1:1"
	}
}

func normalizeFormat(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	switch mime {
	case "image/jpeg", "image/jpg":
		return "image/jpeg"
	case "image/png":
		return "image/png"
	default:
		if strings.HasPrefix(mime, "image/") {
			return mime
		}
		return "image/png"
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func statusReason(status int) string {
	return fmt.Sprintf("http_%d", status)
}
