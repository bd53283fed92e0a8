package suggest

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"cinemind/models"
)

// candidateWire tolerates the year arriving as a JSON string or number.
type candidateWire struct {
	Title string   `json:"title"`
	Year  flexYear `json:"year"`
}

type flexYear string

func (y *flexYear) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*y = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		*y = flexYear(strings.TrimSpace(unquoted))
		return nil
	}
	*y = flexYear(s)
	return nil
}

// ParseCandidates extracts a candidate list from raw generative output. The
// contract is best-effort: code fences, surrounding prose and whitespace are
// stripped before decoding, and structural failure degrades to an empty list
// with a diagnostic log line, never an error. Catalog resolution's
// degrade-to-empty guarantee depends on this never failing.
func ParseCandidates(raw string) []models.Candidate {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var wire []candidateWire
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		// The model sometimes wraps the array in prose; retry on the
		// outermost bracket pair before giving up.
		start := strings.Index(cleaned, "[")
		end := strings.LastIndex(cleaned, "]")
		if start < 0 || end <= start {
			log.Printf("[suggest] unparseable suggestion payload (%d bytes): %v", len(raw), err)
			return []models.Candidate{}
		}
		if err2 := json.Unmarshal([]byte(cleaned[start:end+1]), &wire); err2 != nil {
			log.Printf("[suggest] unparseable suggestion payload (%d bytes): %v", len(raw), err2)
			return []models.Candidate{}
		}
	}

	items := make([]models.Candidate, 0, len(wire))
	for _, w := range wire {
		title := strings.TrimSpace(w.Title)
		if title == "" {
			continue
		}
		items = append(items, models.Candidate{Title: title, Year: string(w.Year)})
	}
	return items
}
