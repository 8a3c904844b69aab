package chat

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"gridchat/internal/models"
	"gridchat/internal/prompt"
	"gridchat/internal/provider"
	"gridchat/internal/query"
	"gridchat/internal/relevance"
	"gridchat/internal/sheet"
)

// apologyMessage is persisted as the assistant turn when the provider call
// fails, keeping the conversation coherent instead of surfacing an error.
const apologyMessage = "Sorry, I could not process your request right now. Please try again. / Maaf, permintaan Anda tidak dapat diproses saat ini. Silakan coba lagi."

const titleLimit = 30

// ProcessRequest carries one incoming user message.
type ProcessRequest struct {
	UserID   int64
	BotID    int64
	ThreadID int64
	Message  string
	File     *models.UploadedFile
}

// ProcessResult is the pipeline outcome returned to the transport layer.
type ProcessResult struct {
	Response    string              `json:"response"`
	ThreadID    int64               `json:"thread_id"`
	Title       string              `json:"title,omitempty"`
	Attachments []models.Attachment `json:"attachments,omitempty"`
}

// ProcessMessage runs the full pipeline for one message: ensure thread,
// build user content, try the asset short-circuit, classify, fetch and
// filter tabular context, compose the prompt, dispatch to the provider and
// persist exactly one user and one assistant turn.
func (s *Service) ProcessMessage(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	bot, err := s.GetBot(ctx, req.BotID)
	if err != nil {
		return nil, err
	}

	threadID := req.ThreadID
	var title string
	var history []*models.Message
	if threadID == 0 {
		title = threadTitle(req.Message, bot.Name)
		thread, err := s.CreateThread(ctx, req.UserID, bot.ID, title)
		if err != nil {
			return nil, err
		}
		threadID = thread.ID
	} else {
		if err := s.TouchThread(ctx, threadID); err != nil {
			return nil, fmt.Errorf("thread %d: %w", threadID, err)
		}
		history, err = s.ListTurns(ctx, threadID)
		if err != nil {
			return nil, err
		}
	}

	parts, attachments := s.buildUserContent(req)

	// Dashboard lookups bypass the LLM when they produce at least one hit.
	if s.assets != nil && s.assets.IsAssetRequest(req.Message) {
		assetQuery := s.assets.ExtractAssetQuery(req.Message)
		found, err := s.assets.SearchAssets(assetQuery)
		if err != nil {
			log.Printf("asset search failed: %v", err)
		}
		if len(found) > 0 {
			reply := s.assets.DescribeAssets(found, assetQuery)
			assetAttachments := make([]models.Attachment, 0, len(found))
			for _, a := range found {
				assetAttachments = append(assetAttachments, models.Attachment{
					Name: a.Name, Path: a.RelativePath, Category: a.Type, SizeKB: a.SizeKB,
				})
			}
			if err := s.persistTurns(ctx, bot, req, threadID, reply, nil, assetAttachments); err != nil {
				return nil, err
			}
			return &ProcessResult{Response: reply, ThreadID: threadID, Title: title, Attachments: assetAttachments}, nil
		}
	}

	contextBlock := s.tabularContext(ctx, bot, req.Message)
	system := prompt.Compose(bot.Name, bot.Persona, contextBlock)

	response := s.dispatch(ctx, bot, provider.Prompt{
		System:    system,
		History:   toTurns(history),
		UserParts: parts,
	})

	if err := s.persistTurns(ctx, bot, req, threadID, response, attachments, nil); err != nil {
		return nil, err
	}
	return &ProcessResult{Response: response, ThreadID: threadID, Title: title, Attachments: attachments}, nil
}

// buildUserContent assembles the ordered content parts: message text first,
// then either the inline image payload or the extracted document text.
func (s *Service) buildUserContent(req ProcessRequest) ([]provider.ContentPart, []models.Attachment) {
	var parts []provider.ContentPart
	if req.Message != "" {
		parts = append(parts, provider.ContentPart{Text: req.Message})
	}

	var attachments []models.Attachment
	if req.File != nil {
		if req.File.IsImage() {
			if data, err := os.ReadFile(req.File.Path); err == nil {
				parts = append(parts, provider.ContentPart{ImageMIME: req.File.MimeType, ImageData: data})
			} else {
				log.Printf("read image %s failed: %v", req.File.OriginalName, err)
			}
		} else if text := s.extractor.Extract(req.File); text != "" {
			parts = append(parts, provider.ContentPart{Text: text})
		}
		attachments = append(attachments, attachmentSummary(req.File))
	}
	return parts, attachments
}

// tabularContext fetches, filters and formats the sheet data when the
// message classifies as a data query. Fetch failures degrade to a short
// notice; the pipeline always continues.
func (s *Service) tabularContext(ctx context.Context, bot *models.Bot, message string) string {
	if s.sheets == nil || !bot.Sheet.Enabled || bot.Sheet.SheetID == "" {
		return ""
	}
	if !query.IsDataQuery(message) {
		return ""
	}

	table, err := s.sheets.GetTable(ctx, bot.Sheet.SheetID, bot.Sheet.APIKey, query.WantsRefresh(message))
	if err != nil {
		log.Printf("sheet fetch failed: %v", err)
		return "\n[SYSTEM: data source unavailable.]\n"
	}
	filtered := relevance.Filter(table, message)
	return fmt.Sprintf("\n\n=== FILTERED DATA (SEARCH RESULT) ===\n%s\n=== END DATA ===\n", sheet.FormatForPrompt(filtered))
}

// dispatch invokes the bot's provider. Any failure degrades to the apology
// message so the caller still gets a coherent conversation.
func (s *Service) dispatch(ctx context.Context, bot *models.Bot, p provider.Prompt) string {
	client, err := s.providers.For(ctx, bot)
	if err != nil {
		log.Printf("resolve provider for bot %d failed: %v", bot.ID, err)
		return apologyMessage
	}
	response, err := client.Complete(ctx, p)
	if err != nil {
		log.Printf("provider call for bot %d failed: %v", bot.ID, err)
		return apologyMessage
	}
	return response
}

// persistTurns writes exactly one user turn and one assistant turn.
func (s *Service) persistTurns(ctx context.Context, bot *models.Bot, req ProcessRequest, threadID int64,
	response string, userAttachments, assistantAttachments []models.Attachment) error {
	if _, err := s.AppendTurn(ctx, models.Message{
		UserID: req.UserID, BotID: bot.ID, ThreadID: threadID,
		Role: models.RoleUser, Content: req.Message, Attachments: userAttachments,
	}); err != nil {
		return err
	}
	if _, err := s.AppendTurn(ctx, models.Message{
		UserID: req.UserID, BotID: bot.ID, ThreadID: threadID,
		Role: models.RoleAssistant, Content: response, Attachments: assistantAttachments,
	}); err != nil {
		return err
	}
	return nil
}

func threadTitle(message, botName string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return "Chat with " + botName
	}
	runes := []rune(message)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return message
}

func attachmentSummary(file *models.UploadedFile) models.Attachment {
	category := "file"
	if file.IsImage() {
		category = "image"
	}
	return models.Attachment{
		Name:     file.OriginalName,
		Path:     file.Path,
		Category: category,
		SizeKB:   fmt.Sprintf("%.1f", float64(file.Size)/1024),
	}
}

func toTurns(history []*models.Message) []provider.Turn {
	turns := make([]provider.Turn, 0, len(history))
	for _, msg := range history {
		if msg == nil {
			continue
		}
		turns = append(turns, provider.Turn{Role: msg.Role, Content: msg.Content})
	}
	return turns
}
