package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// MediaCacheKey derives a deterministic cache key from a media request.
// Requests are keyed by exact identity: upstream generation is deterministic
// for a fixed prompt, model, seed and dimensions, so exact-match keying is
// sound. Field order is fixed by the struct, so identical requests always
// hash identically.
func MediaCacheKey(req *MediaRequest) string {
	encoded, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
