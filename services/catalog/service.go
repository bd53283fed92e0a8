package catalog

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"cinemind/models"
	"cinemind/services/metadata"
	"cinemind/services/suggest"
	"cinemind/services/tenant"
)

const (
	// pageSize is the fixed catalog page length; skip offsets advance in
	// multiples of it.
	pageSize = 20
	// suggestionCount is how many candidates one generation round asks for.
	suggestionCount = 20
)

// ErrMissingQuery is the only fault catalog resolution surfaces to the
// router; every provider-layer failure degrades to an empty result instead.
var ErrMissingQuery = errors.New("missing search query")

var imdbIDPattern = regexp.MustCompile(`^tt\d+$`)

// suggestionGenerator produces raw suggestion text, or false when the whole
// fallback pool is exhausted.
type suggestionGenerator interface {
	Generate(ctx context.Context, keys []string, prompt string) (string, bool)
}

// metaResolver resolves candidates and ids against the metadata provider.
type metaResolver interface {
	Resolve(ctx context.Context, apiKey string, c models.Candidate, mediaType string) *models.Meta
	Detail(ctx context.Context, apiKey, mediaType, imdbID string) (*models.Meta, error)
	Trending(ctx context.Context, apiKey, mediaType string) ([]models.Meta, error)
}

var (
	_ suggestionGenerator = (*suggest.Generator)(nil)
	_ metaResolver        = (*metadata.Resolver)(nil)
)

// Service is the request-resolution pipeline: intent filter, tenant cache,
// suggestion generation, pagination and metadata fan-out, composed behind the
// two operations the router calls.
type Service struct {
	generator suggestionGenerator
	resolver  metaResolver
	cache     *Cache
}

func NewService(generator suggestionGenerator, resolver metaResolver, cache *Cache) *Service {
	if cache == nil {
		cache = NewCache(DefaultCacheTTL)
	}
	return &Service{generator: generator, resolver: resolver, cache: cache}
}

// Catalog resolves a search-driven catalog page. The returned slice is never
// nil. Provider failures of any kind yield an empty page; only a missing
// query is an error.
func (s *Service) Catalog(ctx context.Context, tc tenant.Context, mediaType, rawQuery string, skip int) ([]models.Meta, error) {
	// Callers may append a protocol suffix to the search term; strip it
	// before it pollutes prompts and cache keys.
	query := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rawQuery), ".json"))
	if query == "" {
		return nil, ErrMissingQuery
	}
	normalized := strings.ToLower(query)

	wantsMovies, wantsSeries := classifyIntent(normalized)
	if skipForIntent(mediaType, wantsMovies, wantsSeries) {
		log.Printf("[catalog] query %q leans away from %s, skipping", normalized, mediaType)
		return []models.Meta{}, nil
	}

	items, ok := s.cache.Get(tc.ID(), mediaType, normalized)
	if !ok {
		text, generated := s.generator.Generate(ctx, tc.GeminiKeys, buildPrompt(query, mediaType))
		if !generated {
			log.Printf("[catalog] no suggestions available for %q (%s)", normalized, mediaType)
			return []models.Meta{}, nil
		}
		items = suggest.ParseCandidates(text)
		if len(items) == 0 {
			// Not cached: the next request should retry generation
			// instead of reusing a cached failure.
			return []models.Meta{}, nil
		}
		s.cache.Put(tc.ID(), mediaType, normalized, items)
	}

	page := paginate(items, skip)
	if len(page) == 0 {
		return []models.Meta{}, nil
	}
	return s.resolvePage(ctx, tc.TMDBKey, page, mediaType), nil
}

// Detail resolves a single record by canonical id. Malformed ids are Absent,
// not errors; provider faults propagate.
func (s *Service) Detail(ctx context.Context, tc tenant.Context, mediaType, id string) (*models.Meta, error) {
	if !imdbIDPattern.MatchString(id) {
		return nil, nil
	}
	return s.resolver.Detail(ctx, tc.TMDBKey, mediaType, id)
}

// Trending serves the non-search catalog. Like search catalogs it degrades to
// an empty page on provider faults.
func (s *Service) Trending(ctx context.Context, tc tenant.Context, mediaType string) []models.Meta {
	metas, err := s.resolver.Trending(ctx, tc.TMDBKey, mediaType)
	if err != nil {
		log.Printf("[catalog] trending %s failed: %v", mediaType, err)
		return []models.Meta{}
	}
	if metas == nil {
		metas = []models.Meta{}
	}
	return metas
}

// paginate returns the [skip, skip+pageSize) window of items. An offset at or
// past the end yields an empty page without error.
func paginate(items []models.Candidate, skip int) []models.Candidate {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return nil
	}
	end := skip + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// resolvePage fans out over the page fully concurrently, joins every outcome,
// and drops unresolved items while preserving the page order. Partial success
// is normal: a page where half the candidates resolve returns the resolved
// half with no gaps.
func (s *Service) resolvePage(ctx context.Context, apiKey string, page []models.Candidate, mediaType string) []models.Meta {
	// Index-slot writes keep the original ordering without a mutex.
	resolved := make([]*models.Meta, len(page))
	p := pool.New()
	for i, c := range page {
		i, c := i, c
		p.Go(func() {
			resolved[i] = s.resolver.Resolve(ctx, apiKey, c, mediaType)
		})
	}
	p.Wait()

	metas := make([]models.Meta, 0, len(page))
	for _, m := range resolved {
		if m != nil {
			metas = append(metas, *m)
		}
	}
	return metas
}
