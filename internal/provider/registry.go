package provider

import (
	"context"
	"sync"

	"gridchat/internal/config"
	"gridchat/internal/models"
)

// Registry resolves the provider client for a bot. Exactly one client shape
// exists per bot; it is built on first use and reused for the bot's lifetime.
type Registry struct {
	cfg *config.Config

	mu      sync.Mutex
	clients map[int64]Client
}

func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		cfg:     cfg,
		clients: make(map[int64]Client),
	}
}

// For returns the client configured for the bot.
func (r *Registry) For(ctx context.Context, bot *models.Bot) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[bot.ID]; ok {
		return client, nil
	}

	var (
		client Client
		err    error
	)
	if bot.ProviderKind == models.ProviderFlattened {
		client = NewFlattened(bot.Flattened.Endpoint, bot.Flattened.APIKey)
	} else {
		client, err = NewStructured(ctx, bot.Provider, bot.Model, r.cfg)
	}
	if err != nil {
		return nil, err
	}
	r.clients[bot.ID] = client
	return client, nil
}
