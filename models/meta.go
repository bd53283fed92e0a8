package models

// Candidate is a (title, year) pair produced by the suggestion provider.
// It has not yet been verified against TMDB; the year may be empty when the
// provider omitted it or returned something unparseable.
type Candidate struct {
	Title string `json:"title"`
	Year  string `json:"year,omitempty"`
}

// Meta is a resolved catalog record keyed by its IMDB identifier. It is the
// shape returned to the addon router for both catalog rows and detail lookups;
// catalog rows carry only the core fields, detail lookups fill the rest.
type Meta struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Poster      string   `json:"poster,omitempty"`
	Description string   `json:"description,omitempty"`
	ReleaseInfo string   `json:"releaseInfo,omitempty"`
	Background  string   `json:"background,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Cast        []string `json:"cast,omitempty"`
	IMDBRating  string   `json:"imdbRating,omitempty"`
}

// CatalogResponse wraps a page of resolved records.
type CatalogResponse struct {
	Metas []Meta `json:"metas"`
}

// MetaResponse wraps a single detail lookup. Meta is null when the identifier
// could not be resolved.
type MetaResponse struct {
	Meta *Meta `json:"meta"`
}
