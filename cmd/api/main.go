package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"logoforge/internal/domain"
	"logoforge/internal/fallback"
	"logoforge/internal/generation"
	"logoforge/internal/http/handlers"
	httpapi "logoforge/internal/http/httpapi"
	"logoforge/internal/infra"
	"logoforge/internal/infra/geoip"
	"logoforge/internal/middleware"
	"logoforge/internal/prompt"
	"logoforge/internal/providers/text"
	"logoforge/internal/storage"
)

func main() {
	// Load .env when present
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	format := domain.ParseStrategyFormat(cfg.StrategyFormat)
	builder, err := prompt.NewBuilder(prompt.Options{ImageMaxLength: cfg.PromptMaxLength, Format: format})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to compile prompt templates")
	}

	images, err := newImageGenerator(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.ImageProvider).Msg("failed to configure image provider")
	}
	writer, err := newTextGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.TextProvider).Msg("failed to configure text provider")
	}

	assets, err := storage.NewFileStore(cfg.PlaceholderDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open placeholder directory")
	}

	titleGuard, closeGuard, err := newTitleGuard(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.DuplicateGuard).Msg("failed to configure duplicate guard")
	}
	defer closeGuard()

	svc, err := generation.NewService(generation.Options{
		Builder:    builder,
		Images:     images,
		Strategies: text.NewStrategyClient(writer, format),
		Fallback:   fallback.NewResolver(assets, cfg.PlaceholderFile),
		Guard:      titleGuard,
		ImageSize:  cfg.ImageSize,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build generation service")
	}

	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geo.Close()
	var lookup middleware.CountryLookup
	if geo != nil {
		lookup = geo.CountryCode
	}

	app := handlers.NewApp(svc, logger, cfg.MaxUploadBytes())
	app.Providers = handlers.Providers{
		Image:          images.Name(),
		Text:           writer.Name(),
		StrategyFormat: string(format),
		DuplicateGuard: cfg.DuplicateGuard,
	}
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Locales: middleware.I18NOptions{
			DefaultLocale:    cfg.DefaultLocale,
			SupportedLocales: cfg.SupportedLocales,
			Lookup:           lookup,
		},
		RateLimitPerMin:   cfg.RateLimitPerMin,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("image_provider", images.Name()).
			Str("text_provider", writer.Name()).
			Str("strategy_format", string(format)).
			Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
