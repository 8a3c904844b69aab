package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"gridchat/internal/config"
	"gridchat/internal/models"
)

// Structured talks to a chat-completion backend keeping system text, history
// and user content parts distinct. The model handle is injected at
// construction; there is no process-wide client state.
type Structured struct {
	chatModel model.ToolCallingChatModel
}

// NewStructured builds the chat model for the named provider from config.
func NewStructured(ctx context.Context, providerName, modelName string, cfg *config.Config) (*Structured, error) {
	provCfg, ok := cfg.Providers[providerName]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", providerName)
	}
	if modelName == "" {
		modelName = provCfg.Model
	}

	var (
		chatModel model.ToolCallingChatModel
		err       error
	)
	switch providerName {
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   modelName,
			APIKey:  provCfg.APIKey,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: provCfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  modelName,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     modelName,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", providerName)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", providerName, err)
	}
	return &Structured{chatModel: chatModel}, nil
}

// Complete sends the prompt as a structured message list and returns the
// assistant text.
func (s *Structured) Complete(ctx context.Context, p Prompt) (string, error) {
	messages := make([]*schema.Message, 0, len(p.History)+2)
	if p.System != "" {
		messages = append(messages, &schema.Message{Role: schema.System, Content: p.System})
	}
	for _, turn := range p.History {
		messages = append(messages, &schema.Message{Role: schemaRole(turn.Role), Content: turn.Content})
	}

	user, err := userMessage(p.UserParts)
	if err != nil {
		return "", err
	}
	messages = append(messages, user)

	resp, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}
	return resp.Content, nil
}

func userMessage(parts []ContentPart) (*schema.Message, error) {
	if len(parts) == 0 {
		return nil, errors.New("user content is empty")
	}
	// single text part stays a plain string message
	if len(parts) == 1 && parts[0].ImageData == nil {
		return &schema.Message{Role: schema.User, Content: parts[0].Text}, nil
	}

	multi := make([]schema.ChatMessagePart, 0, len(parts))
	for _, part := range parts {
		if part.ImageData != nil {
			dataURL := fmt.Sprintf("data:%s;base64,%s",
				part.ImageMIME, base64.StdEncoding.EncodeToString(part.ImageData))
			multi = append(multi, schema.ChatMessagePart{
				Type:     schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{URL: dataURL},
			})
			continue
		}
		multi = append(multi, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeText,
			Text: part.Text,
		})
	}
	return &schema.Message{Role: schema.User, MultiContent: multi}, nil
}

func schemaRole(role models.Role) schema.RoleType {
	switch role {
	case models.RoleAssistant:
		return schema.Assistant
	case models.RoleSystem:
		return schema.System
	default:
		return schema.User
	}
}
