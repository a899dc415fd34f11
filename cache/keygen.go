package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
)

// KeyFor builds a stable cache key from a request identifier (an endpoint
// URL or a GraphQL document) and its parameters. encoding/json sorts map
// keys, so equal parameter sets always serialize the same way.
func KeyFor(identifier string, params map[string]any) string {
	b, err := json.Marshal(struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables,omitempty"`
	}{
		Query:     identifier,
		Variables: params,
	})
	if err != nil {
		// Unsupported parameter values; fall back to the identifier plus a
		// printed form of params, which is still deterministic for maps.
		return fmt.Sprintf("%s|%v", identifier, params)
	}
	return string(b)
}

// hashKey shortens a key into something safe for filenames and redis keys.
func hashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return fmt.Sprintf("%x", sum)
}
