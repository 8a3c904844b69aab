// Package chat owns the per-message pipeline and the thread/turn store.
package chat

import (
	"context"
	"database/sql"
	"errors"

	"gridchat/internal/assets"
	"gridchat/internal/extract"
	"gridchat/internal/models"
	"gridchat/internal/provider"
	"gridchat/internal/sheet"
)

// ErrBotNotFound is returned when a request names a bot that does not exist.
// This is the only condition that fails the whole request.
var ErrBotNotFound = errors.New("bot not found")

// ClientResolver returns the provider client configured for a bot.
type ClientResolver interface {
	For(ctx context.Context, bot *models.Bot) (provider.Client, error)
}

// TableSource fetches remote sheet tables.
type TableSource interface {
	GetTable(ctx context.Context, sheetID, apiKey string, forceRefresh bool) (interface{}, error)
}

// AssetSource serves dashboard/file lookup requests.
type AssetSource interface {
	IsAssetRequest(message string) bool
	ExtractAssetQuery(message string) string
	SearchAssets(query string) ([]assets.Asset, error)
	DescribeAssets(found []assets.Asset, query string) string
}

// Service sequences classification, extraction, filtering, composition and
// the provider call for each incoming message, and persists the turns.
type Service struct {
	db        *sql.DB
	extractor *extract.Extractor
	sheets    TableSource
	assets    AssetSource
	providers ClientResolver
}

// NewService wires the pipeline collaborators. sheets and assetSource may be
// nil; the corresponding stages are then skipped.
func NewService(db *sql.DB, sheets TableSource, assetSource AssetSource, providers ClientResolver) *Service {
	svc := &Service{
		db:        db,
		extractor: extract.New(),
		sheets:    sheets,
		providers: providers,
	}
	if assetSource != nil {
		svc.assets = assetSource
	}
	return svc
}

var _ TableSource = (*sheet.Service)(nil)
var _ AssetSource = (*assets.Manager)(nil)
var _ ClientResolver = (*provider.Registry)(nil)
