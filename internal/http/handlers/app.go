package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"logoforge/internal/domain"
	"logoforge/internal/generation"
	"logoforge/internal/infra"
)

// BrandGenerator runs one brand generation.
type BrandGenerator interface {
	Generate(ctx context.Context, in generation.Input) (*domain.GenerationResult, error)
}

type App struct {
	Generator      BrandGenerator
	Logger         infra.Logger
	MaxUploadBytes int64
	Providers      Providers
}

func NewApp(generator BrandGenerator, logger infra.Logger, maxUploadBytes int64) *App {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &App{Generator: generator, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}
