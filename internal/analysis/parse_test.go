package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		wantScore       int
		wantExplanation string
	}{
		{
			name:            "clean json",
			raw:             `{"score": 8, "explanation": "clear and complete"}`,
			wantScore:       8,
			wantExplanation: "clear and complete",
		},
		{
			name:      "json embedded in prose",
			raw:       "Here is my evaluation:\n{\"score\": 6, \"explanation\": \"missing detail\"}\nHope that helps.",
			wantScore: 6,
		},
		{
			name:            "bare number",
			raw:             "7",
			wantScore:       7,
			wantExplanation: "Score only provided: 7/10 (no explanation given)",
		},
		{
			name:      "score phrase",
			raw:       "I would rate this 9 because it covers everything.",
			wantScore: 9,
		},
		{
			name:      "slash ten phrase",
			raw:       "This summary deserves 4/10 at best.",
			wantScore: 4,
		},
		{
			name:      "unsalvageable falls back to midpoint",
			raw:       "The summary is quite good overall.",
			wantScore: fallbackScore,
		},
		{
			name:      "out of range json falls through",
			raw:       `{"score": 50, "explanation": "way off"}`,
			wantScore: fallbackScore,
		},
		{
			name:      "empty response",
			raw:       "",
			wantScore: fallbackScore,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := parseVerdict(tc.raw)
			assert.Equal(t, tc.wantScore, v.Score)
			if tc.wantExplanation != "" {
				assert.Equal(t, tc.wantExplanation, v.Explanation)
			} else {
				assert.NotEmpty(t, v.Explanation)
			}
		})
	}
}
