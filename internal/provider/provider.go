// Package provider hands composed prompts to an LLM backend. Two provider
// shapes exist: one accepts a structured message list, the other a single
// flattened text blob. Which one a bot uses is fixed at configuration time.
package provider

import (
	"context"

	"gridchat/internal/models"
)

// Turn is one prior conversation turn.
type Turn struct {
	Role    models.Role
	Content string
}

// ContentPart is one piece of the current user message: text, or an inline
// image carried as raw bytes plus its mime type.
type ContentPart struct {
	Text      string
	ImageMIME string
	ImageData []byte
}

// Prompt is the composed request: system instruction, history oldest first,
// then the current user content parts.
type Prompt struct {
	System    string
	History   []Turn
	UserParts []ContentPart
}

// Client is the capability interface implemented by both provider shapes.
type Client interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}
