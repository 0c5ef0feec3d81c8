package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nvoss/hearth/internal/domain"
)

// chatResponse is the OpenAI-chat-style response body shape.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error json.RawMessage `json:"error,omitempty"`
}

// wireError decodes the error shapes gateways embed: an object with a
// message, or a bare string.
type wireErrorObject struct {
	Message string `json:"message"`
}

const maxRawErrorLength = 512

// decodeCompletion normalizes a 2xx gateway body. An embedded error object
// takes precedence over any data fields regardless of the HTTP status; a body
// without the choices[0].message.content path is a malformed success,
// distinct from an HTTP failure.
func decodeCompletion(body []byte, statusCode int, target domain.BackendTarget) (*domain.CompletionResponse, error) {
	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: body is not valid JSON", domain.ErrMalformedResponse)
	}

	if len(decoded.Error) > 0 {
		return nil, &domain.UpstreamError{
			Target:     target.Name,
			StatusCode: statusCode,
			Message:    decodeErrorMessage(decoded.Error),
		}
	}

	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("%w: missing choices", domain.ErrMalformedResponse)
	}

	return &domain.CompletionResponse{
		Model:   decoded.Model,
		Target:  target.Name,
		Content: decoded.Choices[0].Message.Content,
		Usage: domain.Usage{
			PromptTokens:     decoded.Usage.PromptTokens,
			CompletionTokens: decoded.Usage.CompletionTokens,
			TotalTokens:      decoded.Usage.TotalTokens,
		},
	}, nil
}

// decodeErrorMessage extracts a human-readable message from an embedded error
// value, which may be an object or a bare string.
func decodeErrorMessage(raw json.RawMessage) string {
	var obj wireErrorObject
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil && str != "" {
		return str
	}

	return truncate(string(raw))
}

// upstreamMessage extracts the best error message from a non-2xx body.
func upstreamMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Error) > 0 {
		return decodeErrorMessage(envelope.Error)
	}
	return truncate(strings.TrimSpace(string(body)))
}

func truncate(s string) string {
	if len(s) > maxRawErrorLength {
		return s[:maxRawErrorLength]
	}
	return s
}
