package catalog

import "fmt"

// buildPrompt asks for a fixed-size candidate list matching the query's
// semantic or mood intent. It receives the original (suffix-stripped,
// un-lowered) query text so the model sees what the user actually typed.
func buildPrompt(query, mediaType string) string {
	kind := "movies"
	if mediaType == "series" {
		kind = "TV series"
	}
	return fmt.Sprintf(`You are a %s recommendation engine. A user searched for:

"%s"

Recommend exactly %d %s that best match the meaning, mood or intent of that search. If the search names a specific actor, director, franchise or theme, every result MUST match it directly; do not pad the list with loosely related titles.

Respond with ONLY a JSON array, no other text. Each object must have exactly these fields:
- "title": the exact official title as listed on TMDB (The Movie Database)
- "year": the original release year as a string

Example format:
[{"title": "Interstellar", "year": "2014"}, {"title": "Arrival", "year": "2016"}]`, kind, query, suggestionCount, kind)
}
