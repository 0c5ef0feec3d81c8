package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nvoss/hearth/internal/domain"
	"github.com/nvoss/hearth/internal/observability"
)

// Handler handles HTTP requests.
type Handler struct {
	orchestrator *domain.Orchestrator
	media        *domain.MediaService
	predictions  domain.PredictionRunner
	creds        domain.CredentialProvider
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	orchestrator *domain.Orchestrator,
	media *domain.MediaService,
	predictions domain.PredictionRunner,
	creds domain.CredentialProvider,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		media:        media,
		predictions:  predictions,
		creds:        creds,
	}
}

// HandleChatCompletion processes chat completion requests, buffered or
// streaming.
func (h *Handler) HandleChatCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if req.Model == "" {
		writeBadRequest(w, "model is required")
		return
	}
	if len(req.Messages) == 0 {
		writeBadRequest(w, "messages are required")
		return
	}

	ctx = observability.WithModel(ctx, req.Model)
	logger := observability.FromContext(ctx)
	logger.Info("completion request received",
		observability.String("model", req.Model),
		observability.Bool("stream", req.Stream),
	)

	// Hard-excluded models are always buffered regardless of preference.
	if req.Stream && domain.StreamingAllowed(req.Model) {
		h.handleStream(ctx, w, &req)
		return
	}
	req.Stream = false

	response, err := h.orchestrator.Complete(ctx, &req)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	logger.Info("completion succeeded",
		observability.String("target", response.Target),
		observability.Int("tokens", response.Usage.TotalTokens),
	)

	writeJSON(w, http.StatusOK, response)
}

// handleStream relays provider deltas to the caller under the gateway's own
// SSE envelope so the UI never needs provider-specific headers.
func (h *Handler) handleStream(
	ctx context.Context,
	w http.ResponseWriter,
	req *domain.CompletionRequest,
) {
	logger := observability.FromContext(ctx)
	logger.Info("stream request started")

	chunks, err := h.orchestrator.Stream(ctx, req)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// SSE headers go out only after the upstream connection succeeded, so
	// cascade failures can still use the error envelope above.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-ctx.Done():
			logger.Info("stream context done", observability.Error(ctx.Err()))
			return

		case chunk, chunkOk := <-chunks:
			if !chunkOk {
				logger.Info("stream completed normally")
				return
			}

			if chunk.Error != nil {
				logger.Error("stream chunk error", observability.Error(chunk.Error))
				fmt.Fprintf(w, "event: error\ndata: %s\n\n", chunk.Error.Error())
				flusher.Flush()
				return
			}

			data, _ := json.Marshal(chunk)
			fmt.Fprintf(w, "data: %s\n\n", string(data))
			flusher.Flush()

			if chunk.Done {
				logger.Info("stream completed")
				return
			}
		}
	}
}

// HandleImageGeneration processes image and video generation requests.
func (h *Handler) HandleImageGeneration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.MediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if req.Prompt == "" {
		writeBadRequest(w, "prompt is required")
		return
	}
	if req.Model == "" {
		writeBadRequest(w, "model is required")
		return
	}

	ctx = observability.WithModel(ctx, req.Model)
	logger := observability.FromContext(ctx)
	logger.Info("media request received")

	result, err := h.media.Generate(ctx, &req)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// predictionRequest is the inbound body for the prediction tool endpoint.
type predictionRequest struct {
	Model    string         `json:"model"`
	Input    map[string]any `json:"input"`
	Password string         `json:"password,omitempty"`
}

// HandlePrediction starts an asynchronous prediction and awaits its terminal
// state. The endpoint is guarded by the shared tool password.
func (h *Handler) HandlePrediction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if req.Model == "" {
		writeBadRequest(w, "model is required")
		return
	}

	if !h.passwordValid(req.Password) {
		writeUnauthorized(w)
		return
	}

	ctx = observability.WithModel(ctx, req.Model)
	logger := observability.FromContext(ctx)
	logger.Info("prediction request received")

	output, err := h.predictions.StartAndAwait(ctx, req.Model, req.Input)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"output": output})
}

// passwordValid compares the supplied password against the configured shared
// secret in constant time. An unset secret closes the endpoint.
func (h *Handler) passwordValid(supplied string) bool {
	expected := h.creds.Secret(domain.SecretToolPassword)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) == 1
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
