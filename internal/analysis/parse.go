package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phrazzld/sift-api/internal/domain"
)

// Verdict is one component score with its explanation, as produced by an
// evaluation prompt.
type Verdict struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// fallbackScore is used when no score can be salvaged from a response.
const fallbackScore = 5

var (
	jsonObjectPattern = regexp.MustCompile(`(?s)\{[^{}]*"score"[^{}]*\}`)
	scorePatterns     = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:score|rate)\D*?(\d+)`),
		regexp.MustCompile(`(\d+)\s*(?:out of|/)\s*10`),
		regexp.MustCompile(`(\d+)\s*(?:points?|pts?)`),
	}
)

// parseVerdict extracts a score and explanation from a model response.
// Models drift from the requested JSON shape often enough that parsing
// never fails outright: strict JSON first, then an embedded JSON object,
// then a bare number, then score-like phrases, and finally a midpoint
// fallback carrying the raw response as the explanation.
func parseVerdict(raw string) Verdict {
	trimmed := strings.TrimSpace(raw)

	var v Verdict
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil && scoreInRange(v.Score) {
		return v
	}

	if match := jsonObjectPattern.FindString(trimmed); match != "" {
		if err := json.Unmarshal([]byte(match), &v); err == nil && scoreInRange(v.Score) {
			if v.Explanation == "" {
				v.Explanation = trimmed
			}
			return v
		}
	}

	if score, err := strconv.Atoi(trimmed); err == nil && scoreInRange(score) {
		return Verdict{
			Score:       score,
			Explanation: fmt.Sprintf("Score only provided: %d/10 (no explanation given)", score),
		}
	}

	for _, pattern := range scorePatterns {
		match := pattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		score, err := strconv.Atoi(match[1])
		if err == nil && scoreInRange(score) {
			return Verdict{
				Score:       score,
				Explanation: fmt.Sprintf("Parsing failed. Raw response: %s", trimmed),
			}
		}
	}

	return Verdict{
		Score:       fallbackScore,
		Explanation: fmt.Sprintf("Parsing failed. Raw response: %s", trimmed),
	}
}

func scoreInRange(score int) bool {
	return score >= domain.MinScore && score <= domain.MaxScore
}
