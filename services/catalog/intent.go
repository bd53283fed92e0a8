package catalog

import "strings"

var (
	movieKeywords  = []string{"movie", "film", "cinema"}
	seriesKeywords = []string{"series", "show", "tv", "season", "episode"}
)

// classifyIntent reports which media types a normalized query leans toward,
// by substring match against fixed keyword sets. A query matching neither set
// is type-neutral and both flags come back false; the caller only
// short-circuits when exactly one flag is set and it is the wrong one.
func classifyIntent(query string) (wantsMovies, wantsSeries bool) {
	for _, kw := range movieKeywords {
		if strings.Contains(query, kw) {
			wantsMovies = true
			break
		}
	}
	for _, kw := range seriesKeywords {
		if strings.Contains(query, kw) {
			wantsSeries = true
			break
		}
	}
	return wantsMovies, wantsSeries
}

// skipForIntent decides whether a request for mediaType should be skipped
// outright given the query's classification. Ambiguous and type-neutral
// queries always proceed; this is an optimization, not a correctness gate.
func skipForIntent(mediaType string, wantsMovies, wantsSeries bool) bool {
	switch mediaType {
	case "movie":
		return wantsSeries && !wantsMovies
	case "series":
		return wantsMovies && !wantsSeries
	}
	return false
}
