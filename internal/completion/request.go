package completion

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	defaultLanguage  = "en"
	defaultMaxTokens = 1024
)

// Request describes one generation call. Two requests that normalize to
// the same value share a cache entry and an in-flight backend call.
type Request struct {
	Prompt    string `json:"prompt"`
	Context   string `json:"context,omitempty"`
	Language  string `json:"language"`
	MaxTokens int    `json:"max_tokens"`
}

// Normalize trims whitespace and fills defaults so that inputs differing
// only in formatting hash identically.
func (r Request) Normalize() Request {
	r.Prompt = strings.TrimSpace(r.Prompt)
	r.Context = strings.TrimSpace(r.Context)
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))
	if r.Language == "" {
		r.Language = defaultLanguage
	}
	if r.MaxTokens <= 0 {
		r.MaxTokens = defaultMaxTokens
	}
	return r
}

// Key derives the cache key: xxhash64 over the canonical JSON of the
// normalized request. The hash is one-way; the request is never
// recoverable from the key.
func (r Request) Key() string {
	data, _ := json.Marshal(r.Normalize())
	return fmt.Sprintf("gen_%016x", xxhash.Sum64(data))
}
