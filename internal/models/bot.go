package models

import "time"

// ProviderKind selects which of the two LLM provider shapes a bot talks to.
// The choice is a static bot-level configuration, never re-decided per request.
type ProviderKind string

const (
	// ProviderStructured sends system text, history and user content parts separately.
	ProviderStructured ProviderKind = "structured"
	// ProviderFlattened sends one concatenated text blob.
	ProviderFlattened ProviderKind = "flattened"
)

// SheetBinding connects a bot to one sheet of the remote tabular service.
type SheetBinding struct {
	Enabled bool   `json:"enabled"`
	SheetID string `json:"sheet_id"`
	APIKey  string `json:"api_key,omitempty"`
}

// FlattenedBinding configures the flattened-text provider endpoint.
type FlattenedBinding struct {
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"api_key,omitempty"`
}

// Bot is an operator-configured assistant: persona text, data bindings and
// the provider routing flag.
type Bot struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Persona      string           `json:"persona"`
	ProviderKind ProviderKind     `json:"provider_kind"`
	Provider     string           `json:"provider"`
	Model        string           `json:"model"`
	Sheet        SheetBinding     `json:"sheet"`
	Flattened    FlattenedBinding `json:"flattened"`
	CreatedAt    time.Time        `json:"created_at"`
}
