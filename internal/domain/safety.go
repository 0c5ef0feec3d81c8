package domain

import "strings"

// safetyPhrases are the upstream error fragments that identify a content
// filter rejection. Matching is case-insensitive substring search.
var safetyPhrases = []string{
	"content management policy",
	"content filtering",
	"content filter",
}

// safetyProne lists models served through a filtered deployment that have a
// designated unfiltered substitute.
var safetyProne = map[string]bool{
	"openai":       true,
	"openai-fast":  true,
	"openai-large": true,
}

// SafetyFallbackModel is the substitute used when a safety filter triggers.
const SafetyFallbackModel = "unity"

// IsSafetyFiltered reports whether an upstream error message indicates a
// content filter rejection.
func IsSafetyFiltered(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range safetyPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// SafetyProne reports whether the model has a safety-filter substitute.
func SafetyProne(model string) bool {
	return safetyProne[model]
}
