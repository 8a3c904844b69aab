// Package sheet fetches and formats tables from the remote tabular data
// service (the project-tracking sheet).
package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gridchat/internal/config"
	"gridchat/internal/redis"
)

const defaultCacheTTL = 10 * time.Minute

// Service fetches sheet JSON over HTTP with a redis-backed cache in front.
// A nil cache client disables caching; every call then hits the remote.
type Service struct {
	httpClient *http.Client
	cache      *redis.Client
	baseURL    string
	apiKey     string
	cacheTTL   time.Duration
}

func NewService(cfg config.SheetConfig, cache *redis.Client) *Service {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cache:      cache,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		cacheTTL:   ttl,
	}
}

// GetTable returns the decoded table for the sheet. forceRefresh bypasses
// the cache; apiKey overrides the service-level key when a bot carries its
// own binding.
func (s *Service) GetTable(ctx context.Context, sheetID, apiKey string, forceRefresh bool) (interface{}, error) {
	if sheetID == "" {
		return nil, fmt.Errorf("sheet id is required")
	}
	cacheKey := "sheet:" + sheetID

	if !forceRefresh && s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var table interface{}
			if err := json.Unmarshal([]byte(cached), &table); err == nil {
				return table, nil
			}
			// poisoned entry, drop it and refetch
			_ = s.cache.Del(ctx, cacheKey)
		}
	}

	raw, err := s.fetch(ctx, sheetID, apiKey)
	if err != nil {
		return nil, err
	}

	var table interface{}
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("decode sheet %s: %w", sheetID, err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, string(raw), s.cacheTTL)
	}
	return table, nil
}

func (s *Service) fetch(ctx context.Context, sheetID, apiKey string) ([]byte, error) {
	url := fmt.Sprintf("%s/sheets/%s", s.baseURL, sheetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build sheet request: %w", err)
	}
	key := apiKey
	if key == "" {
		key = s.apiKey
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %s: %w", sheetID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch sheet %s: status %s", sheetID, resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheetID, err)
	}
	return raw, nil
}
