package metadata

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinemind/models"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

// newFakeResolver routes TMDB paths to canned bodies. Unknown paths fail with
// 404 so a missing route surfaces immediately instead of retrying.
func newFakeResolver(t *testing.T, routes map[string]string) *Resolver {
	t.Helper()
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if body, ok := routes[req.URL.Path]; ok {
				return jsonResponse(http.StatusOK, body), nil
			}
			return jsonResponse(http.StatusNotFound, `{"status_message":"not found"}`), nil
		}),
	}
	return NewResolver(httpc)
}

func TestResolveMovieCandidate(t *testing.T) {
	var searchQuery string
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			switch req.URL.Path {
			case "/3/search/movie":
				searchQuery = req.URL.RawQuery
				return jsonResponse(http.StatusOK, `{"results":[
					{"id":157336,"title":"Interstellar","overview":"A team of explorers.","release_date":"2014-11-05","poster_path":"/p.jpg"},
					{"id":999,"title":"Interstellar Wars"}
				]}`), nil
			case "/3/movie/157336/external_ids":
				return jsonResponse(http.StatusOK, `{"imdb_id":"tt0816692"}`), nil
			}
			return jsonResponse(http.StatusNotFound, `{}`), nil
		}),
	}
	r := NewResolver(httpc)

	meta := r.Resolve(context.Background(), "key", models.Candidate{Title: "Interstellar", Year: "2014"}, "movie")
	require.NotNil(t, meta)
	assert.Equal(t, "tt0816692", meta.ID)
	assert.Equal(t, "movie", meta.Type)
	assert.Equal(t, "Interstellar", meta.Name)
	assert.Equal(t, "2014", meta.ReleaseInfo)
	assert.Equal(t, tmdbPosterBaseURL+"/p.jpg", meta.Poster)
	assert.Contains(t, searchQuery, "year=2014", "movie searches filter by year")
}

func TestResolveSeriesIgnoresYear(t *testing.T) {
	var searchQuery string
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			switch req.URL.Path {
			case "/3/search/tv":
				searchQuery = req.URL.RawQuery
				return jsonResponse(http.StatusOK, `{"results":[{"id":1396,"name":"Breaking Bad","first_air_date":"2008-01-20"}]}`), nil
			case "/3/tv/1396/external_ids":
				return jsonResponse(http.StatusOK, `{"imdb_id":"tt0903747"}`), nil
			}
			return jsonResponse(http.StatusNotFound, `{}`), nil
		}),
	}
	r := NewResolver(httpc)

	meta := r.Resolve(context.Background(), "key", models.Candidate{Title: "Breaking Bad", Year: "2008"}, "series")
	require.NotNil(t, meta)
	assert.Equal(t, "tt0903747", meta.ID)
	assert.Equal(t, "Breaking Bad", meta.Name)
	assert.NotContains(t, searchQuery, "first_air_date_year", "series runs span years, so no year filter")
}

func TestResolveNoMatchReturnsNil(t *testing.T) {
	r := newFakeResolver(t, map[string]string{
		"/3/search/movie": `{"results":[]}`,
	})
	meta := r.Resolve(context.Background(), "key", models.Candidate{Title: "Nonexistent"}, "movie")
	assert.Nil(t, meta)
}

func TestResolveMissingIMDBIDReturnsNil(t *testing.T) {
	r := newFakeResolver(t, map[string]string{
		"/3/search/movie":          `{"results":[{"id":42,"title":"Obscure"}]}`,
		"/3/movie/42/external_ids": `{"imdb_id":""}`,
	})
	meta := r.Resolve(context.Background(), "key", models.Candidate{Title: "Obscure"}, "movie")
	assert.Nil(t, meta, "a record without an IMDB id cannot be addressed and is dropped")
}

func TestResolveProviderFaultReturnsNil(t *testing.T) {
	// The fake 404s everything, which is an unrecoverable provider fault.
	r := newFakeResolver(t, nil)
	meta := r.Resolve(context.Background(), "key", models.Candidate{Title: "Anything"}, "movie")
	assert.Nil(t, meta)
}

func TestResolveEmptyTitleReturnsNil(t *testing.T) {
	r := newFakeResolver(t, nil)
	assert.Nil(t, r.Resolve(context.Background(), "key", models.Candidate{Title: "   "}, "movie"))
}

func TestDetailFullRecord(t *testing.T) {
	cast := ""
	for i := 0; i < 12; i++ {
		if i > 0 {
			cast += ","
		}
		cast += `{"name":"Actor ` + string(rune('A'+i)) + `"}`
	}
	r := newFakeResolver(t, map[string]string{
		"/3/find/tt0816692": `{"movie_results":[{"id":157336,"title":"Interstellar"}]}`,
		"/3/movie/157336": `{
			"id":157336,"title":"Interstellar","overview":"A team of explorers.",
			"release_date":"2014-11-05","poster_path":"/p.jpg","backdrop_path":"/b.jpg",
			"vote_average":8.4337,
			"genres":[{"name":"Adventure"},{"name":"Drama"},{"name":"Science Fiction"}],
			"credits":{"cast":[` + cast + `]}
		}`,
	})

	meta, err := r.Detail(context.Background(), "key", "movie", "tt0816692")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "tt0816692", meta.ID)
	assert.Equal(t, "Interstellar", meta.Name)
	assert.Equal(t, []string{"Adventure", "Drama", "Science Fiction"}, meta.Genres)
	assert.Len(t, meta.Cast, castLimit)
	assert.Equal(t, "8.4", meta.IMDBRating)
	assert.Equal(t, tmdbBackdropBaseURL+"/b.jpg", meta.Background)
}

func TestDetailUnknownIDIsAbsentNotError(t *testing.T) {
	r := newFakeResolver(t, map[string]string{
		"/3/find/tt9999999": `{"movie_results":[],"tv_results":[]}`,
	})
	meta, err := r.Detail(context.Background(), "key", "movie", "tt9999999")
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestDetailProviderFaultPropagates(t *testing.T) {
	r := newFakeResolver(t, nil)
	_, err := r.Detail(context.Background(), "key", "movie", "tt0816692")
	require.Error(t, err)
}

func TestTrendingDropsItemsWithoutIMDBID(t *testing.T) {
	r := newFakeResolver(t, map[string]string{
		"/3/trending/movie/day": `{"results":[
			{"id":1,"title":"First","release_date":"2026-01-01"},
			{"id":2,"title":"No ID"},
			{"id":3,"title":"Third","release_date":"2026-02-01"}
		]}`,
		"/3/movie/1/external_ids": `{"imdb_id":"tt0000001"}`,
		"/3/movie/2/external_ids": `{"imdb_id":""}`,
		"/3/movie/3/external_ids": `{"imdb_id":"tt0000003"}`,
	})

	metas, err := r.Trending(context.Background(), "key", "movie")
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "tt0000001", metas[0].ID)
	assert.Equal(t, "tt0000003", metas[1].ID, "input order survives the concurrent enrichment")
}

func TestTrendingListFaultPropagates(t *testing.T) {
	r := newFakeResolver(t, nil)
	_, err := r.Trending(context.Background(), "key", "movie")
	require.Error(t, err)
}

func TestTitleDisplayNameAndYear(t *testing.T) {
	movie := tmdbTitle{Title: "Arrival", ReleaseDate: "2016-11-11"}
	assert.Equal(t, "Arrival", movie.displayName())
	assert.Equal(t, "2016", movie.year())

	show := tmdbTitle{Name: "Dark", FirstAirDate: "2017-12-01"}
	assert.Equal(t, "Dark", show.displayName())
	assert.Equal(t, "2017", show.year())

	assert.Empty(t, tmdbTitle{Title: "Undated"}.year())
}
