package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Flattened talks to a backend that accepts one concatenated text blob:
// persona, history, message and attachment text joined with section markers.
type Flattened struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewFlattened(endpoint, apiKey string) *Flattened {
	return &Flattened{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Complete flattens the prompt and posts it as JSON. Inline images are
// dropped; this provider shape is text-only.
func (f *Flattened) Complete(ctx context.Context, p Prompt) (string, error) {
	if f.endpoint == "" {
		return "", errors.New("flattened provider endpoint not configured")
	}

	payload := struct {
		Message string `json:"message"`
	}{Message: Flatten(p)}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error != "" {
			return "", errors.New(e.Error)
		}
		return "", fmt.Errorf("provider error: %s", resp.Status)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Response == "" {
		return "", errors.New("empty provider response")
	}
	return out.Response, nil
}

// Flatten renders the prompt as one text blob with section markers.
func Flatten(p Prompt) string {
	var b strings.Builder
	b.WriteString("[SYSTEM]\n")
	b.WriteString(p.System)

	for _, turn := range p.History {
		fmt.Fprintf(&b, "\n\n[%s]\n%s", strings.ToUpper(string(turn.Role)), turn.Content)
	}

	var message, attachments []string
	for i, part := range p.UserParts {
		if part.ImageData != nil {
			continue
		}
		if i == 0 {
			message = append(message, part.Text)
		} else {
			attachments = append(attachments, part.Text)
		}
	}
	fmt.Fprintf(&b, "\n\n[USER]\n%s", strings.Join(message, "\n"))
	if len(attachments) > 0 {
		fmt.Fprintf(&b, "\n\n[USER ATTACHMENT]\n%s", strings.Join(attachments, "\n"))
	}
	return b.String()
}
