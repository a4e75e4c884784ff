package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logoforge/internal/domain"
)

type mapAssets map[string][]byte

func (m mapAssets) Read(ctx context.Context, key string) ([]byte, error) {
	blob, ok := m[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return blob, nil
}

func TestResolveImagePassesThroughSuccess(t *testing.T) {
	r := NewResolver(mapAssets{"placeholder.png": []byte("ph")}, "placeholder.png")
	got, err := r.ResolveImage(context.Background(), []byte("real"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("real"), got)
}

func TestResolveImageUsesPlaceholderOnError(t *testing.T) {
	r := NewResolver(mapAssets{"placeholder.png": []byte("ph")}, "placeholder.png")
	perr := domain.NewProviderError("openai", domain.ProviderKindTransport, errors.New("reset"))
	got, err := r.ResolveImage(context.Background(), nil, perr)
	require.NoError(t, err)
	assert.Equal(t, []byte("ph"), got)
}

func TestResolveImageUnreadablePlaceholder(t *testing.T) {
	r := NewResolver(mapAssets{}, "placeholder.png")
	got, err := r.ResolveImage(context.Background(), nil, errors.New("boom"))
	require.Error(t, err)
	assert.Nil(t, got)

	empty := NewResolver(mapAssets{"placeholder.png": {}}, "placeholder.png")
	_, err = empty.Placeholder(context.Background())
	require.Error(t, err)

	var nilResolver *Resolver
	_, err = nilResolver.Placeholder(context.Background())
	require.Error(t, err)
}

func TestResolveText(t *testing.T) {
	r := NewResolver(nil, "")
	assert.Equal(t, "ok", r.ResolveText("ok", nil))
	assert.Equal(t, TextFallback, r.ResolveText("partial", errors.New("timeout")))
}
