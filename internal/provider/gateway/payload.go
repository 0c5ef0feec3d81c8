package gateway

import (
	"strings"

	"github.com/nvoss/hearth/internal/domain"
)

// Wire types for the OpenAI-chat-style request body both gateways accept.
type payload struct {
	Model     string        `json:"model"`
	Messages  []wireMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Stream    bool          `json:"stream,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type wirePart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *wireImageRef `json:"image_url,omitempty"`
}

type wireImageRef struct {
	URL string `json:"url"`
}

// BuildPayload assembles the outbound body for a target. The model identifier
// is remapped to the target's native naming; a non-empty system instruction is
// prepended as a synthetic leading message rather than a top-level field, for
// compatibility across gateways that handle a dedicated system field
// differently. Streaming is granted only when requested and the model is not
// hard-excluded from streaming. Deterministic: identical inputs encode to
// byte-identical bodies.
func BuildPayload(req *domain.CompletionRequest, target domain.BackendTarget) payload {
	messages := make([]wireMessage, 0, len(req.Messages)+1)

	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, wireMessage{
			Role:    domain.RoleSystem,
			Content: system,
		})
	}

	for _, msg := range req.Messages {
		messages = append(messages, wireMessage{
			Role:    msg.Role,
			Content: encodeContent(msg),
		})
	}

	return payload{
		Model:     target.NativeModel(req.Model),
		Messages:  messages,
		MaxTokens: req.MaxTokens,
		Stream:    req.Stream && domain.StreamingAllowed(req.Model),
	}
}

// encodeContent renders a message's content either as a plain string or as an
// ordered sequence of typed parts when the message is multimodal.
func encodeContent(msg domain.Message) any {
	if len(msg.Parts) == 0 {
		return msg.Content
	}

	parts := make([]wirePart, 0, len(msg.Parts))
	for _, part := range msg.Parts {
		switch part.Type {
		case domain.PartImageURL:
			parts = append(parts, wirePart{
				Type:     domain.PartImageURL,
				ImageURL: &wireImageRef{URL: part.ImageURL},
			})
		default:
			parts = append(parts, wirePart{
				Type: domain.PartText,
				Text: part.Text,
			})
		}
	}
	return parts
}
