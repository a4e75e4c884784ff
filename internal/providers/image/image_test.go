package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logoforge/internal/domain"
	"logoforge/internal/providers/genai"
)

func TestParseSizeAndAspectRatio(t *testing.T) {
	w, h := ParseSize("1792x1024")
	assert.Equal(t, 1792, w)
	assert.Equal(t, 1024, h)

	w, h = ParseSize("bogus")
	assert.Equal(t, 1024, w)
	assert.Equal(t, 1024, h)

	assert.Equal(t, "16:9", AspectRatio("1792x1024"))
	assert.Equal(t, "9:16", AspectRatio("1024x1792"))
	assert.Equal(t, "1:1", AspectRatio(""))
	assert.Equal(t, "4:3", AspectRatio("1024x768"))
}

func TestSyntheticGeneratorIsDeterministic(t *testing.T) {
	gen := NewSyntheticGenerator()
	req := GenerateRequest{Prompt: "Lumen logo", Size: "64x48"}

	first, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, "image/png", first.Format)

	cfg, err := png.DecodeConfig(bytes.NewReader(first.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)

	other, err := gen.Generate(context.Background(), GenerateRequest{Prompt: "Nova logo", Size: "64x48"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Data, other.Data)
}

func TestSyntheticGeneratorHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSyntheticGenerator().Generate(ctx, GenerateRequest{Prompt: "x"})
	var pe *domain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, syntheticProviderName, pe.Provider)
}

func newOpenAITestGenerator(t *testing.T, srv *httptest.Server, format string, hook FailureHook) *OpenAIGenerator {
	t.Helper()
	gen, err := NewOpenAIGenerator(OpenAIOptions{
		APIKey:         "sk-test",
		BaseURL:        srv.URL + "/v1",
		ResponseFormat: format,
		HTTPClient:     srv.Client(),
		Timeout:        2 * time.Second,
		OnFailure:      hook,
	})
	require.NoError(t, err)
	return gen
}

func TestOpenAIGeneratorB64(t *testing.T) {
	payload := []byte("\x89PNG fake")
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data":    []any{map[string]any{"b64_json": base64.StdEncoding.EncodeToString(payload)}},
		})
	}))
	defer srv.Close()

	asset, err := newOpenAITestGenerator(t, srv, "b64_json", nil).Generate(context.Background(), GenerateRequest{Prompt: "logo"})
	require.NoError(t, err)
	assert.Equal(t, payload, asset.Data)
	assert.Equal(t, "image/png", asset.Format)
	assert.Equal(t, "dall-e-3", got["model"])
	assert.Equal(t, "1024x1024", got["size"])
	assert.Equal(t, "b64_json", got["response_format"])
	assert.EqualValues(t, 1, got["n"])
}

func TestOpenAIGeneratorURLDownload(t *testing.T) {
	payload := []byte("jpeg bytes")
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/v1/images/generations", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []any{map[string]any{"url": srv.URL + "/files/logo.jpg"}},
		})
	})
	mux.HandleFunc("/files/logo.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(payload)
	})

	asset, err := newOpenAITestGenerator(t, srv, "url", nil).Generate(context.Background(), GenerateRequest{Prompt: "logo", Size: "512x512"})
	require.NoError(t, err)
	assert.Equal(t, payload, asset.Data)
	assert.Equal(t, "image/jpeg", asset.Format)
	assert.Equal(t, srv.URL+"/files/logo.jpg", asset.URL)
}

func TestOpenAIGeneratorFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		kind    domain.ProviderKind
		status  int
		reason  string
	}{
		{
			name: "api_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"error":{"message":"content policy","type":"invalid_request_error"}}`)
			},
			kind:   domain.ProviderKindStatus,
			status: http.StatusBadRequest,
			reason: "http_400",
		},
		{
			name: "plain_status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, "upstream down")
			},
			kind:   domain.ProviderKindStatus,
			status: http.StatusBadGateway,
			reason: "http_502",
		},
		{
			name: "empty_data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"data":[]}`)
			},
			kind:   domain.ProviderKindMissingField,
			reason: "empty_response",
		},
		{
			name: "malformed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"data":[`)
			},
			kind:   domain.ProviderKindMalformedJSON,
			reason: "decode_response",
		},
		{
			name: "bad_b64",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"data":[{"b64_json":"%%%"}]}`)
			},
			kind:   domain.ProviderKindMalformedJSON,
			reason: "decode_response",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			var reason string
			gen := newOpenAITestGenerator(t, srv, "b64_json", func(r string, err error) { reason = r })
			_, err := gen.Generate(context.Background(), GenerateRequest{Prompt: "logo"})
			var pe *domain.ProviderError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.kind, pe.Kind)
			assert.Equal(t, tc.status, pe.Status)
			assert.Equal(t, openAIProviderName, pe.Provider)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestOpenAIGeneratorTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	gen, err := NewOpenAIGenerator(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), GenerateRequest{Prompt: "logo"})
	var pe *domain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, domain.ProviderKindTimeout, pe.Kind)
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	_, err := NewOpenAIGenerator(OpenAIOptions{})
	require.Error(t, err)
}

type stubGeminiClient struct {
	asset *genai.ImageAsset
	err   error
	got   genai.ImageRequest
}

func (s *stubGeminiClient) GenerateImage(ctx context.Context, req genai.ImageRequest) (*genai.ImageAsset, error) {
	s.got = req
	return s.asset, s.err
}

func TestGeminiGeneratorMapsSize(t *testing.T) {
	stub := &stubGeminiClient{asset: &genai.ImageAsset{Data: []byte("img"), Format: "image/webp"}}
	gen := &GeminiGenerator{client: stub}

	asset, err := gen.Generate(context.Background(), GenerateRequest{Prompt: "logo", Size: "1792x1024", RequestID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "16:9", stub.got.AspectRatio)
	assert.Equal(t, "r1", stub.got.RequestID)
	assert.Equal(t, []byte("img"), asset.Data)
	assert.Equal(t, "image/webp", asset.Format)
}

func TestGeminiGeneratorFailure(t *testing.T) {
	var reason string
	stub := &stubGeminiClient{err: domain.StatusError("gemini", http.StatusServiceUnavailable, "busy")}
	gen := &GeminiGenerator{client: stub, onFailure: func(r string, err error) { reason = r }}

	_, err := gen.Generate(context.Background(), GenerateRequest{Prompt: "logo"})
	var pe *domain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusServiceUnavailable, pe.Status)
	assert.Equal(t, "http_503", reason)

	stub.err = errors.New("connection reset")
	_, err = gen.Generate(context.Background(), GenerateRequest{Prompt: "logo"})
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, domain.ProviderKindTransport, pe.Kind)
	assert.Equal(t, "http_request", reason)
}
