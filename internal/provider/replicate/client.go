// Package replicate provides the asynchronous prediction client: create a
// job, poll it to a terminal state, and normalize the output.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nvoss/hearth/internal/domain"
	"github.com/nvoss/hearth/internal/observability"
)

const providerName = "replicate"

// modelPaths maps logical media model keys to fully-qualified prediction
// service model paths.
var modelPaths = map[string]string{
	"seedance-pro":  "bytedance/seedance-1-pro",
	"seedance-lite": "bytedance/seedance-1-lite",
	"kling":         "kwaivgi/kling-v2.1",
	"veo":           "google/veo-3-fast",
	"flux-kontext":  "black-forest-labs/flux-kontext-pro",
	"imagen-4":      "google/imagen-4",
}

// Config contains prediction service settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout int // seconds
}

// Client talks to the prediction service and implements
// domain.PredictionRunner together with its Poller.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	poller     *Poller
}

// NewClient creates a new prediction client.
func NewClient(config Config) *Client {
	c := &Client{
		baseURL: config.BaseURL,
		token:   config.Token,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
	c.poller = NewPoller(c)
	return c
}

// predictionBody is the wire shape for create and status responses.
type predictionBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

// CreatePrediction starts a job for a logical model key.
func (c *Client) CreatePrediction(
	ctx context.Context,
	modelKey string,
	input map[string]any,
) (*domain.GenerationJob, error) {
	path, ok := modelPaths[modelKey]
	if !ok {
		return nil, fmt.Errorf("unknown prediction model: %s", modelKey)
	}

	encoded, err := json.Marshal(map[string]any{"input": input})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	endpoint := c.baseURL + "/models/" + path + "/predictions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	body, statusCode, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode > 299 {
		return nil, &domain.UpstreamError{
			Target:     providerName,
			StatusCode: statusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return decodeJob(body)
}

// FetchJob retrieves the current job snapshot from its polling URL.
func (c *Client) FetchJob(ctx context.Context, job *domain.GenerationJob) (*domain.GenerationJob, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, job.PollURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	body, statusCode, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode > 299 {
		return nil, &domain.UpstreamError{
			Target:     providerName,
			StatusCode: statusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return decodeJob(body)
}

// StartAndAwait creates a prediction and polls it to a terminal state,
// returning the output references on success.
func (c *Client) StartAndAwait(
	ctx context.Context,
	modelKey string,
	input map[string]any,
) ([]string, error) {
	job, err := c.CreatePrediction(ctx, modelKey, input)
	if err != nil {
		return nil, err
	}

	ctx = observability.WithJobID(ctx, job.ID)
	logger := observability.FromContext(ctx)
	logger.Info("prediction created",
		observability.String("model", modelKey),
		observability.String("status", string(job.Status)))

	if !job.Status.Terminal() {
		job, err = c.poller.PollUntilTerminal(ctx, job, PolicyFor(modelKey))
		if err != nil {
			return nil, err
		}
	}

	switch job.Status {
	case domain.JobSucceeded:
		return job.Output, nil
	case domain.JobCanceled:
		return nil, domain.ErrJobCanceled
	default:
		return nil, &domain.JobFailedError{Message: job.Error}
	}
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

// decodeJob converts a wire body into a job snapshot.
func decodeJob(body []byte) (*domain.GenerationJob, error) {
	var decoded predictionBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: prediction body is not valid JSON", domain.ErrMalformedResponse)
	}
	if decoded.ID == "" {
		return nil, fmt.Errorf("%w: prediction without an id", domain.ErrMalformedResponse)
	}

	return &domain.GenerationJob{
		ID:      decoded.ID,
		PollURL: decoded.URLs.Get,
		Status:  domain.JobStatus(decoded.Status),
		Output:  decodeOutput(decoded.Output),
		Error:   decoded.Error,
	}, nil
}

// decodeOutput reads an output field that is a string or an array of strings.
func decodeOutput(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}

	return nil
}
