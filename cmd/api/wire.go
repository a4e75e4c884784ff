package main

import (
	"context"

	"logoforge/internal/guard"
	"logoforge/internal/infra"
	"logoforge/internal/providers/genai"
	"logoforge/internal/providers/image"
	"logoforge/internal/providers/text"
)

func newImageGenerator(cfg *infra.Config, logger infra.Logger) (image.Generator, error) {
	onFailure := func(reason string, err error) {
		logger.Warn().Err(err).Str("provider", cfg.ImageProvider).Str("reason", reason).Msg("image provider failure")
	}
	switch cfg.ImageProvider {
	case infra.ProviderSynthetic:
		return image.NewSyntheticGenerator(), nil
	case infra.ProviderGemini:
		client, err := genai.NewClient(genai.Options{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiImageModel,
			Timeout: cfg.ProviderTimeout(),
			Logger:  &logger,
		})
		if err != nil {
			return nil, err
		}
		return image.NewGeminiGenerator(client, onFailure), nil
	default:
		return image.NewOpenAIGenerator(image.OpenAIOptions{
			APIKey:         cfg.OpenAIAPIKey,
			Model:          cfg.OpenAIImageModel,
			BaseURL:        cfg.OpenAIBaseURL,
			Organization:   cfg.OpenAIOrg,
			Size:           cfg.ImageSize,
			ResponseFormat: cfg.ImageResponseFormat,
			Timeout:        cfg.ProviderTimeout(),
			OnFailure:      onFailure,
		})
	}
}

func newTextGenerator(ctx context.Context, cfg *infra.Config, logger infra.Logger) (text.Generator, error) {
	onFailure := func(reason string, err error) {
		logger.Warn().Err(err).Str("provider", cfg.TextProvider).Str("reason", reason).Msg("text provider failure")
	}
	switch cfg.TextProvider {
	case infra.ProviderStatic:
		return text.NewStaticGenerator(), nil
	case infra.ProviderGemini:
		return text.NewGeminiGenerator(ctx, text.GeminiOptions{
			APIKey:    cfg.GeminiAPIKey,
			Model:     cfg.GeminiTextModel,
			BaseURL:   cfg.GeminiBaseURL,
			Timeout:   cfg.ProviderTimeout(),
			OnFailure: onFailure,
		})
	default:
		return text.NewOpenAIGenerator(text.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAITextModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			Timeout:      cfg.ProviderTimeout(),
			OnFailure:    onFailure,
			OnWarning: func(reason, detail string) {
				logger.Warn().Str("reason", reason).Str("detail", detail).Msg("text provider model adjusted")
			},
		})
	}
}

// newTitleGuard returns a nil guard when the duplicate check is disabled.
// The returned func releases the backing store.
func newTitleGuard(ctx context.Context, cfg *infra.Config, logger infra.Logger) (*guard.Guard, func(), error) {
	ttl := cfg.DuplicateGuardTTL()
	switch cfg.DuplicateGuard {
	case infra.GuardNone:
		return nil, func() {}, nil
	case infra.GuardRedis:
		rdb, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return guard.New(guard.NewRedisStore(rdb, ttl), logger), func() { _ = rdb.Close() }, nil
	case infra.GuardPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store := guard.NewPostgresStore(infra.NewSQLRunner(pool, logger), ttl)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return guard.New(store, logger), pool.Close, nil
	default:
		return guard.New(guard.NewMemoryStore(ttl), logger), func() {}, nil
	}
}
