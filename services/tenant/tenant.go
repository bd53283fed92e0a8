package tenant

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidToken is returned when a configuration token cannot be decoded.
// The handler layer maps it to a "not found / invalid configuration" response.
var ErrInvalidToken = errors.New("invalid configuration token")

// Context carries the per-request credentials decoded from the token path
// segment: one TMDB key and an ordered list of Gemini keys. It is rebuilt on
// every request and never persisted; the TMDB key doubles as the tenant's
// cache partition key.
type Context struct {
	TMDBKey    string   `json:"tmdbKey"`
	GeminiKeys []string `json:"geminiKeys"`
}

// Decode parses a base64url(JSON) configuration token. Tokens produced by the
// configure page use unpadded base64url, but padded and standard encodings
// from older pages are accepted too.
func Decode(token string) (Context, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Context{}, ErrInvalidToken
	}
	raw, err := decodeBase64(token)
	if err != nil {
		return Context{}, ErrInvalidToken
	}
	var tc Context
	if err := json.Unmarshal(raw, &tc); err != nil {
		return Context{}, ErrInvalidToken
	}
	tc.TMDBKey = strings.TrimSpace(tc.TMDBKey)
	keys := make([]string, 0, len(tc.GeminiKeys))
	for _, k := range tc.GeminiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	tc.GeminiKeys = keys
	return tc, nil
}

// Encode builds a configuration token for the given context. Used by the
// configure page handler and by tests.
func Encode(tc Context) string {
	raw, _ := json.Marshal(tc)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Configured reports whether the context can serve catalog and meta requests.
// An unconfigured context must publish an empty-capability manifest and never
// reach a provider.
func (c Context) Configured() bool {
	return c.TMDBKey != "" && len(c.GeminiKeys) > 0
}

// ID returns the cache partition key for this tenant.
func (c Context) ID() string {
	return c.TMDBKey
}

func decodeBase64(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	} {
		if raw, err := enc.DecodeString(s); err == nil {
			return raw, nil
		}
	}
	return nil, ErrInvalidToken
}
