// Package gateway provides the HTTP client shared by the primary and legacy
// chat gateways. Both accept the same OpenAI-chat-style body; the client is
// parameterized by the backend target the orchestrator resolved, and reports
// backend failures as *domain.UpstreamError so the orchestrator can classify
// them.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nvoss/hearth/internal/domain"
	"github.com/nvoss/hearth/internal/observability"
)

// Config contains gateway HTTP client settings, in seconds.
type Config struct {
	Timeout       int
	HeaderTimeout int
}

// Client implements domain.ChatCaller over raw HTTP. The raw client is kept
// deliberately: outcome classification needs the exact status code and body,
// which an SDK surface would hide.
type Client struct {
	httpClient *http.Client
	// streamClient has no overall timeout: a deadline would cut long streams
	// short. The header timeout still bounds a hung connection attempt.
	streamClient *http.Client
}

// NewClient creates a new gateway client.
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
		streamClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: time.Duration(config.HeaderTimeout) * time.Second,
			},
		},
	}
}

// Complete sends a buffered completion request to one target.
func (c *Client) Complete(
	ctx context.Context,
	target domain.BackendTarget,
	req *domain.CompletionRequest,
) (*domain.CompletionResponse, error) {
	buffered := *req
	buffered.Stream = false

	resp, err := c.send(ctx, target, BuildPayload(&buffered, target), false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{
			Target:     target.Name,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(body),
		}
	}

	return decodeCompletion(body, resp.StatusCode, target)
}

// Stream sends a streaming completion request to one target and relays the
// decoded deltas. The connection attempt is classified like a buffered call;
// after that, errors travel in-band on the channel.
func (c *Client) Stream(
	ctx context.Context,
	target domain.BackendTarget,
	req *domain.CompletionRequest,
) (<-chan domain.StreamChunk, error) {
	streaming := *req
	streaming.Stream = true

	body := BuildPayload(&streaming, target)
	if !body.Stream {
		return nil, fmt.Errorf("model %s does not support streaming", req.Model)
	}

	//nolint:bodyclose // Response body is closed by the relay goroutine
	resp, err := c.send(ctx, target, body, true)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, &domain.UpstreamError{
			Target:     target.Name,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(raw),
		}
	}

	chunks := make(chan domain.StreamChunk)
	go relay(observability.WithTarget(ctx, target.Name), resp, chunks)

	return chunks, nil
}

// send builds and executes one HTTP call against a target.
func (c *Client) send(
	ctx context.Context,
	target domain.BackendTarget,
	body payload,
	stream bool,
) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		target.BaseURL+"/chat/completions",
		bytes.NewReader(encoded),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+target.APIKey)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	client := c.httpClient
	if stream {
		client = c.streamClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", target.Name, err)
	}

	return resp, nil
}
