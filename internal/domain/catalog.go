package domain

// Fixed model tables. These mirror the hosted catalogs; they are data, not
// behavior, and are the only place model identifiers are special-cased.

// legacyEligible lists the logical models the legacy gateway still serves.
var legacyEligible = map[string]bool{
	"openai":           true,
	"openai-fast":      true,
	"openai-reasoning": true,
	"mistral":          true,
	"llama":            true,
}

// primaryModelMap remaps logical identifiers to the primary gateway's native
// names. Unlisted identifiers pass through unchanged.
var primaryModelMap = map[string]string{
	"openai-reasoning": "o3",
	"gemini-thinking":  "gemini-2.5-flash-thinking",
}

// legacyModelMap remaps logical identifiers to the legacy gateway's naming.
var legacyModelMap = map[string]string{
	"openai":           "gpt-4o",
	"openai-fast":      "gpt-4o-mini",
	"openai-reasoning": "o3-mini",
}

// streamExcluded lists models whose output is always buffered regardless of
// the caller's streaming preference.
var streamExcluded = map[string]bool{
	"openai-reasoning":   true,
	"deepseek-reasoning": true,
}

// StreamingAllowed reports whether the model may be streamed.
func StreamingAllowed(model string) bool {
	return !streamExcluded[model]
}

// videoModels lists the media models addressed by aspect ratio and duration
// rather than pixel dimensions.
var videoModels = map[string]bool{
	"seedance-pro":  true,
	"seedance-lite": true,
	"kling":         true,
	"veo":           true,
}

// IsVideoModel reports whether the media model is a video model.
func IsVideoModel(model string) bool {
	return videoModels[model]
}

// LegacyEligible reports whether the legacy gateway serves the model.
func LegacyEligible(model string) bool {
	return legacyEligible[model]
}
