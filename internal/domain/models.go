package domain

// Message roles used on the wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content part types for multimodal messages.
const (
	PartText     = "text"
	PartImageURL = "image_url"
)

// ContentPart is a single typed element of a multimodal message.
type ContentPart struct {
	Type     string `json:"type"` // text, image_url
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Message represents a chat message. Content carries plain text; when Parts
// is non-empty it takes precedence and the message is encoded as an ordered
// sequence of typed parts.
type Message struct {
	Role    string        `json:"role"`
	Content string        `json:"content,omitempty"`
	Parts   []ContentPart `json:"parts,omitempty"`
}

// CompletionRequest represents a unified chat completion request.
// It is immutable per call; the orchestrator derives variants via WithModel.
type CompletionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	System    string    `json:"system,omitempty"`
	MaxTokens int       `json:"max_tokens,omitempty"`
	Stream    bool      `json:"stream,omitempty"`
}

// WithModel returns a shallow copy of the request with the model substituted.
func (r *CompletionRequest) WithModel(model string) *CompletionRequest {
	clone := *r
	clone.Model = model
	return &clone
}

// CompletionResponse represents a normalized completion result.
type CompletionResponse struct {
	Model   string `json:"model"`
	Target  string `json:"target"`
	Content string `json:"content"`
	Usage   Usage  `json:"usage,omitempty"`
}

// StreamChunk represents a single streaming response delta.
type StreamChunk struct {
	Delta string `json:"delta"`
	Done  bool   `json:"done"`
	Error error  `json:"-"`
}

// Usage tracks token consumption as reported by the backend.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Target names in cascade order.
const (
	TargetPrimary = "primary"
	TargetLegacy  = "legacy"
)

// BackendTarget is one candidate backend for a request. Constructed fresh per
// request by the resolver; never persisted.
type BackendTarget struct {
	Name     string
	BaseURL  string
	APIKey   string
	modelMap map[string]string
}

// NativeModel translates a logical model identifier into the target's native
// naming scheme. Unmapped identifiers pass through unchanged.
func (t BackendTarget) NativeModel(model string) string {
	if native, ok := t.modelMap[model]; ok {
		return native
	}
	return model
}

// MediaRequest represents an image or video generation request.
type MediaRequest struct {
	Prompt          string   `json:"prompt"`
	Model           string   `json:"model"`
	Width           int      `json:"width,omitempty"`
	Height          int      `json:"height,omitempty"`
	Seed            int      `json:"seed,omitempty"`
	AspectRatio     string   `json:"aspectRatio,omitempty"`
	Duration        int      `json:"duration,omitempty"`
	Audio           bool     `json:"audio,omitempty"`
	Enhance         bool     `json:"enhance,omitempty"`
	Transparent     bool     `json:"transparent,omitempty"`
	ReferenceImages []string `json:"referenceImages,omitempty"`
}

// MediaResult represents a normalized media generation result.
type MediaResult struct {
	URL    string `json:"url"`
	Model  string `json:"model"`
	Cached bool   `json:"cached,omitempty"`
}

// JobStatus enumerates the lifecycle of an asynchronous generation job.
type JobStatus string

const (
	JobStarting   JobStatus = "starting"
	JobProcessing JobStatus = "processing"
	JobSucceeded  JobStatus = "succeeded"
	JobFailed     JobStatus = "failed"
	JobCanceled   JobStatus = "canceled"
)

// Terminal reports whether the status can no longer change.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobSucceeded, JobFailed, JobCanceled:
		return true
	default:
		return false
	}
}

// GenerationJob is a provider-assigned asynchronous prediction handle.
// Mutated only by replacing the whole snapshot with a fresh status fetch.
type GenerationJob struct {
	ID      string    `json:"id"`
	PollURL string    `json:"poll_url"`
	Status  JobStatus `json:"status"`
	Output  []string  `json:"output,omitempty"`
	Error   string    `json:"error,omitempty"`
}
