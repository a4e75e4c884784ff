package image

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"logoforge/internal/domain"
)

type OpenAIOptions struct {
	APIKey         string
	Model          string
	BaseURL        string
	Organization   string
	Size           string
	ResponseFormat string
	HTTPClient     *http.Client
	Timeout        time.Duration
	OnFailure      FailureHook
}

// OpenAIGenerator produces a single image through the images API.
type OpenAIGenerator struct {
	client         *openai.Client
	httpClient     *http.Client
	model          string
	size           string
	responseFormat string
	timeout        time.Duration
	onFailure      FailureHook
}

func NewOpenAIGenerator(opts OpenAIOptions) (*OpenAIGenerator, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	cfg := openai.DefaultConfig(apiKey)
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		cfg.BaseURL = base
	}
	cfg.OrgID = strings.TrimSpace(opts.Organization)
	cfg.HTTPClient = httpClient

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	size := strings.TrimSpace(opts.Size)
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}
	format := strings.TrimSpace(opts.ResponseFormat)
	if format != openai.CreateImageResponseFormatURL {
		format = openai.CreateImageResponseFormatB64JSON
	}

	return &OpenAIGenerator{
		client:         openai.NewClientWithConfig(cfg),
		httpClient:     httpClient,
		model:          model,
		size:           size,
		responseFormat: format,
		timeout:        timeout,
		onFailure:      opts.OnFailure,
	}, nil
}

func (g *OpenAIGenerator) Name() string { return openAIProviderName }

func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	size := strings.TrimSpace(req.Size)
	if size == "" {
		size = g.size
	}
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          g.model,
		N:              1,
		Size:           size,
		ResponseFormat: g.responseFormat,
		User:           req.RequestID,
	})
	if err != nil {
		return nil, g.classify(err)
	}
	if len(resp.Data) == 0 {
		err := domain.NewProviderError(openAIProviderName, domain.ProviderKindMissingField, errors.New("response has no data"))
		g.onFailure.emit("empty_response", err)
		return nil, err
	}

	item := resp.Data[0]
	if b64 := strings.TrimSpace(item.B64JSON); b64 != "" {
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			perr := domain.NewProviderError(openAIProviderName, domain.ProviderKindMalformedJSON, fmt.Errorf("decode b64_json: %w", err))
			g.onFailure.emit("decode_response", perr)
			return nil, perr
		}
		return &Asset{Data: data, Format: "image/png"}, nil
	}
	if u := strings.TrimSpace(item.URL); u != "" {
		return g.download(ctx, u)
	}

	err = domain.NewProviderError(openAIProviderName, domain.ProviderKindMissingField, errors.New("response has no b64_json or url"))
	g.onFailure.emit("empty_response", err)
	return nil, err
}

func (g *OpenAIGenerator) download(ctx context.Context, target string) (*Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		perr := domain.NewProviderError(openAIProviderName, domain.ProviderKindMissingField, fmt.Errorf("image url: %w", err))
		g.onFailure.emit("build_request", perr)
		return nil, perr
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		perr := domain.ClassifyTransport(openAIProviderName, err)
		g.onFailure.emit("http_request", perr)
		return nil, perr
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		perr := domain.StatusError(openAIProviderName, resp.StatusCode, "download image: "+strings.TrimSpace(string(body)))
		g.onFailure.emit(statusReason(resp.StatusCode), perr)
		return nil, perr
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		perr := domain.ClassifyTransport(openAIProviderName, fmt.Errorf("read image: %w", err))
		g.onFailure.emit("http_request", perr)
		return nil, perr
	}
	if len(data) == 0 {
		perr := domain.NewProviderError(openAIProviderName, domain.ProviderKindMissingField, errors.New("downloaded image is empty"))
		g.onFailure.emit("empty_response", perr)
		return nil, perr
	}
	return &Asset{Data: data, Format: normalizeFormat(resp.Header.Get("Content-Type")), URL: target}, nil
}

func (g *OpenAIGenerator) classify(err error) *domain.ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		perr := domain.StatusError(openAIProviderName, apiErr.HTTPStatusCode, apiErr.Message)
		g.onFailure.emit(statusReason(apiErr.HTTPStatusCode), perr)
		return perr
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		perr := domain.StatusError(openAIProviderName, reqErr.HTTPStatusCode, string(reqErr.Body))
		g.onFailure.emit(statusReason(reqErr.HTTPStatusCode), perr)
		return perr
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		perr := domain.NewProviderError(openAIProviderName, domain.ProviderKindMalformedJSON, err)
		g.onFailure.emit("decode_response", perr)
		return perr
	}
	perr := domain.ClassifyTransport(openAIProviderName, err)
	g.onFailure.emit("http_request", perr)
	return perr
}

var _ Generator = (*OpenAIGenerator)(nil)
