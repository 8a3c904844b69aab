package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gridchat/internal/models"
)

// CreateBot stores a new bot configuration.
func (s *Service) CreateBot(ctx context.Context, bot models.Bot) (*models.Bot, error) {
	bot.Name = strings.TrimSpace(bot.Name)
	if bot.Name == "" {
		return nil, errors.New("bot name is required")
	}
	if bot.ProviderKind == "" {
		bot.ProviderKind = models.ProviderStructured
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bots (name, persona, provider_kind, provider, model,
			sheet_enabled, sheet_id, sheet_api_key,
			flattened_endpoint, flattened_api_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bot.Name, bot.Persona, bot.ProviderKind, bot.Provider, bot.Model,
		bot.Sheet.Enabled, bot.Sheet.SheetID, bot.Sheet.APIKey,
		bot.Flattened.Endpoint, bot.Flattened.APIKey, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("bot id: %w", err)
	}
	bot.ID = id
	bot.CreatedAt = now
	return &bot, nil
}

// GetBot returns one bot, or ErrBotNotFound.
func (s *Service) GetBot(ctx context.Context, botID int64) (*models.Bot, error) {
	var bot models.Bot
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, persona, provider_kind, provider, model,
			sheet_enabled, sheet_id, sheet_api_key,
			flattened_endpoint, flattened_api_key, created_at
		 FROM bots WHERE id = ?`, botID,
	).Scan(&bot.ID, &bot.Name, &bot.Persona, &bot.ProviderKind, &bot.Provider, &bot.Model,
		&bot.Sheet.Enabled, &bot.Sheet.SheetID, &bot.Sheet.APIKey,
		&bot.Flattened.Endpoint, &bot.Flattened.APIKey, &bot.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBotNotFound
		}
		return nil, fmt.Errorf("get bot: %w", err)
	}
	return &bot, nil
}

// ListBots returns all configured bots.
func (s *Service) ListBots(ctx context.Context) ([]models.Bot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, persona, provider_kind, provider, model,
			sheet_enabled, sheet_id, sheet_api_key,
			flattened_endpoint, flattened_api_key, created_at
		 FROM bots ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list bots: %w", err)
	}
	defer rows.Close()

	var bots []models.Bot
	for rows.Next() {
		var bot models.Bot
		if err := rows.Scan(&bot.ID, &bot.Name, &bot.Persona, &bot.ProviderKind, &bot.Provider, &bot.Model,
			&bot.Sheet.Enabled, &bot.Sheet.SheetID, &bot.Sheet.APIKey,
			&bot.Flattened.Endpoint, &bot.Flattened.APIKey, &bot.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bot: %w", err)
		}
		bots = append(bots, bot)
	}
	return bots, rows.Err()
}
