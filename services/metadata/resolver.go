package metadata

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"cinemind/models"
)

// castLimit bounds the cast list on detail lookups.
const castLimit = 10

// Resolver turns unverified suggestion candidates into authoritative TMDB
// records keyed by IMDB id. Catalog resolution tolerates any per-item fault
// by returning nil; detail lookups surface provider faults to the caller.
type Resolver struct {
	tmdb *tmdbClient
}

func NewResolver(httpc *http.Client) *Resolver {
	return &Resolver{tmdb: newTMDBClient(httpc)}
}

// Resolve looks up one candidate and returns its record, or nil when it
// cannot be safely surfaced: no search match, no IMDB id on the match, or any
// provider fault. The year filter is applied only for movies; generative year
// estimates for series are unreliable because of multi-year runs.
func (r *Resolver) Resolve(ctx context.Context, apiKey string, c models.Candidate, mediaType string) *models.Meta {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return nil
	}

	year := ""
	if mediaType == "movie" {
		year = strings.TrimSpace(c.Year)
	}

	results, err := r.tmdb.searchTitle(ctx, apiKey, mediaType, title, year)
	if err != nil {
		log.Printf("[metadata] search failed for %q (%s): %v", title, mediaType, err)
		return nil
	}
	if len(results) == 0 {
		return nil
	}
	first := results[0]

	imdbID, err := r.tmdb.externalIDs(ctx, apiKey, mediaType, first.ID)
	if err != nil {
		log.Printf("[metadata] external ids failed for %q (tmdb %d): %v", title, first.ID, err)
		return nil
	}
	if imdbID == "" {
		return nil
	}

	return &models.Meta{
		ID:          imdbID,
		Type:        mediaType,
		Name:        first.displayName(),
		Poster:      posterURL(first.PosterPath),
		Description: first.Overview,
		ReleaseInfo: first.year(),
	}
}

// Detail performs a single authoritative lookup by IMDB id. (nil, nil) means
// the id resolved to nothing; an error means the provider faulted, and unlike
// catalog resolution the fault propagates because a single detail request has
// no graceful degraded form.
func (r *Resolver) Detail(ctx context.Context, apiKey, mediaType, imdbID string) (*models.Meta, error) {
	found, err := r.tmdb.findByIMDBID(ctx, apiKey, mediaType, imdbID)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", imdbID, err)
	}
	if found == nil {
		return nil, nil
	}

	det, err := r.tmdb.details(ctx, apiKey, mediaType, found.ID)
	if err != nil {
		return nil, fmt.Errorf("details %s (tmdb %d): %w", imdbID, found.ID, err)
	}

	meta := &models.Meta{
		ID:          imdbID,
		Type:        mediaType,
		Name:        det.displayName(),
		Poster:      posterURL(det.PosterPath),
		Description: det.Overview,
		ReleaseInfo: det.year(),
		Background:  backdropURL(det.BackdropPath),
	}
	for _, g := range det.Genres {
		if g.Name != "" {
			meta.Genres = append(meta.Genres, g.Name)
		}
	}
	for _, c := range det.Credits.Cast {
		if len(meta.Cast) >= castLimit {
			break
		}
		if c.Name != "" {
			meta.Cast = append(meta.Cast, c.Name)
		}
	}
	if det.VoteAverage > 0 {
		meta.IMDBRating = fmt.Sprintf("%.1f", det.VoteAverage)
	}
	return meta, nil
}

// Trending returns today's trending titles enriched with IMDB ids. Items
// without an IMDB id are dropped; the id lookups run concurrently since each
// is an independent round trip.
func (r *Resolver) Trending(ctx context.Context, apiKey, mediaType string) ([]models.Meta, error) {
	titles, err := r.tmdb.trending(ctx, apiKey, mediaType)
	if err != nil {
		return nil, err
	}

	// Each goroutine writes its own slot, so no mutex is needed.
	ids := make([]string, len(titles))
	p := pool.New().WithMaxGoroutines(8)
	for i, t := range titles {
		i, t := i, t
		p.Go(func() {
			imdbID, err := r.tmdb.externalIDs(ctx, apiKey, mediaType, t.ID)
			if err != nil {
				log.Printf("[metadata] trending external ids failed (tmdb %d): %v", t.ID, err)
				return
			}
			ids[i] = imdbID
		})
	}
	p.Wait()

	metas := make([]models.Meta, 0, len(titles))
	for i, t := range titles {
		if ids[i] == "" {
			continue
		}
		metas = append(metas, models.Meta{
			ID:          ids[i],
			Type:        mediaType,
			Name:        t.displayName(),
			Poster:      posterURL(t.PosterPath),
			Description: t.Overview,
			ReleaseInfo: t.year(),
		})
	}
	return metas, nil
}
