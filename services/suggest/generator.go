package suggest

import (
	"context"
	"log"
)

// DefaultModels is the ordered model pool tried for every tenant. Earlier
// entries are stronger models; the tail is the free-tier fallback.
var DefaultModels = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemma-3n-e4b-it",
}

// textClient issues one generation call per (model, credential) pair.
type textClient interface {
	Generate(ctx context.Context, model, apiKey, prompt string) (string, error)
}

// attempt is one slot of the flattened fallback pool. keyIdx is kept for log
// lines so credentials never appear in logs.
type attempt struct {
	model  string
	key    string
	keyIdx int
}

// Generator walks an ordered (model × credential) fallback pool until one
// call succeeds. The pool is flattened model-major: every credential is tried
// on a model before the next model is considered, spreading load across both
// model capacity and per-key quota.
type Generator struct {
	client textClient
	models []string
}

func NewGenerator(client textClient, models []string) *Generator {
	if len(models) == 0 {
		models = DefaultModels
	}
	return &Generator{client: client, models: models}
}

// buildPool flattens the model list and the tenant's ordered key list into a
// single linear walk. Keeping the ordering policy here makes it testable
// independently of the iteration.
func buildPool(models, keys []string) []attempt {
	pool := make([]attempt, 0, len(models)*len(keys))
	for _, m := range models {
		for i, k := range keys {
			pool = append(pool, attempt{model: m, key: k, keyIdx: i})
		}
	}
	return pool
}

// Generate returns the first successful response text from the pool, walking
// it strictly in order. Every failure, quota or otherwise, advances to the
// next option. An exhausted pool yields ("", false): no suggestions are
// available, which callers must treat as an empty result, not an error.
func (g *Generator) Generate(ctx context.Context, keys []string, prompt string) (string, bool) {
	pool := buildPool(g.models, keys)
	for i, a := range pool {
		text, err := g.client.Generate(ctx, a.model, a.key, prompt)
		if err == nil {
			return text, true
		}
		if IsQuotaError(err) {
			log.Printf("[suggest] model %s key #%d quota exhausted (option %d/%d), trying next", a.model, a.keyIdx+1, i+1, len(pool))
		} else {
			log.Printf("[suggest] model %s key #%d failed (option %d/%d): %v", a.model, a.keyIdx+1, i+1, len(pool), err)
		}
	}
	log.Printf("[suggest] all %d pool options exhausted", len(pool))
	return "", false
}
