package fallback

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TextFallback is returned in place of a strategy the text provider could
// not produce.
const TextFallback = "A marketing strategy could not be generated right now. Please try again later."

// PlaceholderMIME is the content type of the bundled placeholder asset.
const PlaceholderMIME = "image/png"

// AssetReader loads raw bytes by key.
type AssetReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// Resolver substitutes static content for failed provider results.
type Resolver struct {
	assets      AssetReader
	placeholder string
}

func NewResolver(assets AssetReader, placeholderKey string) *Resolver {
	return &Resolver{assets: assets, placeholder: strings.TrimSpace(placeholderKey)}
}

// ResolveImage returns data unchanged when err is nil. Otherwise it returns the
// placeholder bytes, or nil and an error when the placeholder is unreadable.
func (r *Resolver) ResolveImage(ctx context.Context, data []byte, err error) ([]byte, error) {
	if err == nil {
		return data, nil
	}
	return r.Placeholder(ctx)
}

// Placeholder reads the configured placeholder asset.
func (r *Resolver) Placeholder(ctx context.Context) ([]byte, error) {
	if r == nil || r.assets == nil {
		return nil, errors.New("fallback: no placeholder store configured")
	}
	blob, err := r.assets.Read(ctx, r.placeholder)
	if err != nil {
		return nil, fmt.Errorf("fallback: read placeholder: %w", err)
	}
	if len(blob) == 0 {
		return nil, fmt.Errorf("fallback: placeholder %q is empty", r.placeholder)
	}
	return blob, nil
}

// ResolveText returns text unchanged when err is nil and TextFallback
// otherwise. It never fails.
func (r *Resolver) ResolveText(text string, err error) string {
	if err != nil {
		return TextFallback
	}
	return text
}
