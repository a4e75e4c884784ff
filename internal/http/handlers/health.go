package handlers

import (
	"net/http"
)

// Providers names the backends wired into the generation service.
type Providers struct {
	Image          string `json:"image_provider"`
	Text           string `json:"text_provider"`
	StrategyFormat string `json:"strategy_format"`
	DuplicateGuard string `json:"duplicate_guard"`
}

type healthResponse struct {
	Status string `json:"status"`
	Providers
}

// Health reports liveness and which providers answer generation requests.
// It never calls the providers.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, healthResponse{Status: "ok", Providers: a.Providers})
}
