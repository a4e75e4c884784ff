package guard

import (
	"context"
	"strings"

	"logoforge/internal/domain"
	"logoforge/internal/infra"
)

// Store remembers the last title each client generated a logo for.
type Store interface {
	// Claim records title as the latest one for clientIP unless it already
	// is. It reports whether the title was recorded. Check and write happen
	// atomically so concurrent identical requests cannot both claim.
	Claim(ctx context.Context, clientIP, title string) (bool, error)
}

// Guard rejects a client repeating its previous title. Store failures never
// block a request; they are logged and the claim passes.
type Guard struct {
	store  Store
	logger infra.Logger
}

func New(store Store, logger infra.Logger) *Guard {
	return &Guard{store: store, logger: logger}
}

// Claim returns domain.ErrDuplicateTitle when title equals the last title
// remembered for clientIP. Otherwise title becomes the remembered one.
func (g *Guard) Claim(ctx context.Context, clientIP, title string) error {
	if g == nil || g.store == nil {
		return nil
	}
	claimed, err := g.store.Claim(ctx, clientKey(clientIP), normalizeTitle(title))
	if err != nil {
		g.logger.Warn().Err(err).Str("client_ip", clientIP).Msg("guard: claim failed, allowing request")
		return nil
	}
	if !claimed {
		return domain.ErrDuplicateTitle
	}
	return nil
}

func clientKey(ip string) string {
	if ip = strings.TrimSpace(ip); ip == "" {
		return "unknown"
	}
	return ip
}

func normalizeTitle(title string) string {
	return strings.TrimSpace(title)
}
