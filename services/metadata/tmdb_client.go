package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
)

const (
	tmdbBaseURL         = "https://api.themoviedb.org/3"
	tmdbPosterBaseURL   = "https://image.tmdb.org/t/p/w500"
	tmdbBackdropBaseURL = "https://image.tmdb.org/t/p/original"
)

// tmdbClient is a minimal TMDB API client. The API key is a per-call argument
// because it belongs to the tenant, not the process.
type tmdbClient struct {
	httpc *http.Client
}

func newTMDBClient(httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &tmdbClient{httpc: httpc}
}

type tmdbTitle struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
}

// displayName returns the movie title or series name, whichever is set.
func (t tmdbTitle) displayName() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Name
}

// year extracts the release year from whichever date field is set.
func (t tmdbTitle) year() string {
	date := t.ReleaseDate
	if date == "" {
		date = t.FirstAirDate
	}
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

type tmdbSearchResponse struct {
	Results []tmdbTitle `json:"results"`
}

type tmdbExternalIDs struct {
	IMDBID string `json:"imdb_id"`
}

type tmdbFindResponse struct {
	MovieResults []tmdbTitle `json:"movie_results"`
	TVResults    []tmdbTitle `json:"tv_results"`
}

type tmdbDetails struct {
	tmdbTitle
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
	} `json:"credits"`
}

// doGET issues one TMDB GET with bounded retries on transient failures.
// Client errors other than 429 are not worth retrying and fail immediately.
func (c *tmdbClient) doGET(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := tmdbBaseURL + path + "?" + params.Encode()
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
				err := fmt.Errorf("tmdb %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
				if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
					return err
				}
				return retry.Unrecoverable(err)
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("tmdb %s: decode: %w", path, err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// searchTitle searches movies or series by title. year is only sent when
// non-empty; the caller decides whether a year filter makes sense.
func (c *tmdbClient) searchTitle(ctx context.Context, apiKey, mediaType, title, year string) ([]tmdbTitle, error) {
	path := "/search/tv"
	yearParam := "first_air_date_year"
	if mediaType == "movie" {
		path = "/search/movie"
		yearParam = "year"
	}
	params := url.Values{
		"api_key":       []string{apiKey},
		"query":         []string{title},
		"include_adult": []string{"false"},
	}
	if year != "" {
		params.Set(yearParam, year)
	}
	var resp tmdbSearchResponse
	if err := c.doGET(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// externalIDs returns the IMDB id for a TMDB record, or "" when TMDB has none.
func (c *tmdbClient) externalIDs(ctx context.Context, apiKey, mediaType string, id int64) (string, error) {
	kind := "tv"
	if mediaType == "movie" {
		kind = "movie"
	}
	path := fmt.Sprintf("/%s/%d/external_ids", kind, id)
	var resp tmdbExternalIDs
	if err := c.doGET(ctx, path, url.Values{"api_key": []string{apiKey}}, &resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.IMDBID), nil
}

// findByIMDBID resolves an IMDB id back to the TMDB record of the requested
// media type. Returns nil when TMDB knows nothing under that id.
func (c *tmdbClient) findByIMDBID(ctx context.Context, apiKey, mediaType, imdbID string) (*tmdbTitle, error) {
	params := url.Values{
		"api_key":         []string{apiKey},
		"external_source": []string{"imdb_id"},
	}
	var resp tmdbFindResponse
	if err := c.doGET(ctx, "/find/"+url.PathEscape(imdbID), params, &resp); err != nil {
		return nil, err
	}
	results := resp.TVResults
	if mediaType == "movie" {
		results = resp.MovieResults
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// details fetches the full record with credits in one round trip.
func (c *tmdbClient) details(ctx context.Context, apiKey, mediaType string, id int64) (*tmdbDetails, error) {
	kind := "tv"
	if mediaType == "movie" {
		kind = "movie"
	}
	path := "/" + kind + "/" + strconv.FormatInt(id, 10)
	params := url.Values{
		"api_key":            []string{apiKey},
		"append_to_response": []string{"credits"},
	}
	var resp tmdbDetails
	if err := c.doGET(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// trending fetches today's trending titles for a media type.
func (c *tmdbClient) trending(ctx context.Context, apiKey, mediaType string) ([]tmdbTitle, error) {
	kind := "tv"
	if mediaType == "movie" {
		kind = "movie"
	}
	var resp tmdbSearchResponse
	if err := c.doGET(ctx, "/trending/"+kind+"/day", url.Values{"api_key": []string{apiKey}}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbPosterBaseURL + path
}

func backdropURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbBackdropBaseURL + path
}
