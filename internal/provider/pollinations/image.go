// Package pollinations provides the image and video generation client.
// Generation is a single GET with the prompt in the path and all parameters
// as query values; the endpoint either returns JSON carrying the image URL or
// redirects to the raw bytes.
package pollinations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nvoss/hearth/internal/domain"
	"github.com/nvoss/hearth/internal/observability"
)

const (
	providerName  = "pollinations"
	defaultWidth  = 1024
	defaultHeight = 1024
)

// Config contains image client settings.
type Config struct {
	BaseURL string
	Timeout int // seconds
	APIKey  string
}

// Client implements domain.MediaGenerator against the image endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new image generation client.
func NewClient(config Config) *Client {
	return &Client{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
}

// Generate produces an image or video URL for the request. Video models are
// addressed by aspect ratio, duration and audio; they never receive pixel
// dimensions. Image models get width/height with 1024 defaults.
func (c *Client) Generate(ctx context.Context, req *domain.MediaRequest) (*domain.MediaResult, error) {
	logger := observability.FromContext(observability.WithModel(ctx, req.Model))

	endpoint := c.baseURL + "/prompt/" + url.PathEscape(req.Prompt) + "?" + buildQuery(req).Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &domain.UpstreamError{
			Target:     providerName,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	result, err := c.decodeResult(resp, req.Model)
	if err != nil {
		return nil, err
	}

	logger.Info("media generated", observability.String("url", result.URL))
	return result, nil
}

// buildQuery assembles the generation query parameters. The parameter set
// branches on workload: video models take aspectRatio/duration/audio, image
// models take width/height.
func buildQuery(req *domain.MediaRequest) url.Values {
	q := url.Values{}
	q.Set("model", req.Model)
	q.Set("nologo", "true")
	q.Set("private", "true")

	if domain.IsVideoModel(req.Model) {
		aspect := req.AspectRatio
		if aspect == "" {
			aspect = "16:9"
		}
		q.Set("aspectRatio", aspect)
		if req.Duration > 0 {
			q.Set("duration", strconv.Itoa(req.Duration))
		}
		q.Set("audio", strconv.FormatBool(req.Audio))
	} else {
		width := req.Width
		if width <= 0 {
			width = defaultWidth
		}
		height := req.Height
		if height <= 0 {
			height = defaultHeight
		}
		q.Set("width", strconv.Itoa(width))
		q.Set("height", strconv.Itoa(height))
	}

	if req.Seed != 0 {
		q.Set("seed", strconv.Itoa(req.Seed))
	}
	if req.Enhance {
		q.Set("enhance", "true")
	}
	if req.Transparent {
		q.Set("transparent", "true")
	}
	if len(req.ReferenceImages) > 0 {
		q.Set("image", strings.Join(req.ReferenceImages, ","))
	}

	return q
}

// mediaResponse is the JSON body shape the endpoint returns when it does not
// redirect to raw bytes.
type mediaResponse struct {
	ImageURL string          `json:"imageUrl"`
	Output   json.RawMessage `json:"output"`
	Error    json.RawMessage `json:"error"`
}

// decodeResult extracts the media URL. A JSON body is inspected for imageUrl
// or output (string or first array element), with an embedded error taking
// precedence; a non-JSON body means the endpoint redirected to the raw media,
// so the final request URL is the result.
func (c *Client) decodeResult(resp *http.Response, model string) (*domain.MediaResult, error) {
	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if contentType != "application/json" {
		return &domain.MediaResult{
			URL:   resp.Request.URL.String(),
			Model: model,
		}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var decoded mediaResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: body is not valid JSON", domain.ErrMalformedResponse)
	}

	if len(decoded.Error) > 0 {
		return nil, &domain.UpstreamError{
			Target:     providerName,
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(decoded.Error),
		}
	}

	if decoded.ImageURL != "" {
		return &domain.MediaResult{URL: decoded.ImageURL, Model: model}, nil
	}

	if mediaURL := firstOutput(decoded.Output); mediaURL != "" {
		return &domain.MediaResult{URL: mediaURL, Model: model}, nil
	}

	return nil, fmt.Errorf("%w: no media URL in response", domain.ErrMalformedResponse)
}

// firstOutput reads an output field that is either a string or an array of
// strings, taking the first element.
func firstOutput(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0]
	}

	return ""
}

func decodeErrorMessage(raw json.RawMessage) string {
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil && str != "" {
		return str
	}

	return string(raw)
}
