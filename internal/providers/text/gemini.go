package text

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"logoforge/internal/domain"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	OnFailure  FailureHook
}

// contentGenerator is the slice of the genai SDK the generator uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator produces text through the Gemini API SDK.
type GeminiGenerator struct {
	models    contentGenerator
	model     string
	timeout   time.Duration
	onFailure FailureHook
}

const defaultGeminiTextModel = "gemini-2.5-flash"

func NewGeminiGenerator(ctx context.Context, opts GeminiOptions) (*GeminiGenerator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	cfg := &genai.ClientConfig{
		APIKey:     strings.TrimSpace(opts.APIKey),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newGeminiGenerator(client.Models, opts.Model, timeout, opts.OnFailure), nil
}

func newGeminiGenerator(models contentGenerator, model string, timeout time.Duration, hook FailureHook) *GeminiGenerator {
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultGeminiTextModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GeminiGenerator{models: models, model: model, timeout: timeout, onFailure: hook}
}

func (g *GeminiGenerator) Name() string { return geminiProviderName }

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.6),
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code != 0 {
			return "", g.fail(statusReason(apiErr.Code), domain.StatusError(geminiProviderName, apiErr.Code, apiErr.Message))
		}
		return "", g.fail("http_request", domain.ClassifyTransport(geminiProviderName, err))
	}
	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", g.fail("empty_response", missingField(geminiProviderName, "candidate text"))
	}
	return text, nil
}

func (g *GeminiGenerator) fail(reason string, err *domain.ProviderError) error {
	g.onFailure.emit(reason, err)
	return err
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if part != nil && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
		if strings.TrimSpace(sb.String()) != "" {
			return sb.String()
		}
	}
	return ""
}

var _ Generator = (*GeminiGenerator)(nil)
