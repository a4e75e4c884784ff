package image

import (
	"context"

	"logoforge/internal/domain"
	"logoforge/internal/providers/genai"
)

type geminiImageClient interface {
	GenerateImage(ctx context.Context, req genai.ImageRequest) (*genai.ImageAsset, error)
}

// GeminiGenerator adapts the Gemini image client to the Generator contract.
type GeminiGenerator struct {
	client    geminiImageClient
	onFailure FailureHook
}

func NewGeminiGenerator(client *genai.Client, onFailure FailureHook) *GeminiGenerator {
	return &GeminiGenerator{client: client, onFailure: onFailure}
}

func (g *GeminiGenerator) Name() string { return geminiProviderName }

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	asset, err := g.client.GenerateImage(ctx, genai.ImageRequest{
		Prompt:      req.Prompt,
		AspectRatio: AspectRatio(req.Size),
		RequestID:   req.RequestID,
	})
	if err != nil {
		perr := domain.ClassifyTransport(geminiProviderName, err)
		g.onFailure.emit(failureReason(perr), perr)
		return nil, perr
	}
	return &Asset{
		Data:   asset.Data,
		Format: normalizeFormat(asset.Format),
		URL:    asset.URL,
	}, nil
}

func failureReason(err *domain.ProviderError) string {
	switch err.Kind {
	case domain.ProviderKindStatus:
		return statusReason(err.Status)
	case domain.ProviderKindMalformedJSON:
		return "decode_response"
	case domain.ProviderKindMissingField:
		return "empty_response"
	default:
		return "http_request"
	}
}

var _ Generator = (*GeminiGenerator)(nil)
