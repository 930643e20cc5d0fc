package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain object", `{"matchScore": 80}`, `{"matchScore": 80}`},
		{"fenced json", "Here you go:\n```json\n{\"matchScore\": 72}\n```\nThanks", `{"matchScore": 72}`},
		{"fenced without language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding prose", `The result is {"matchScore": 64, "strengths": ["Go"]} as requested.`, `{"matchScore": 64, "strengths": ["Go"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ExtractJSONObject(tt.text)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}

func TestExtractJSONObject_Errors(t *testing.T) {
	for _, text := range []string{"", "no json here", "[1, 2, 3]", "{not: valid}", "```json\n{broken\n```"} {
		_, err := ExtractJSONObject(text)
		assert.ErrorIs(t, err, ErrNoJSON, text)
	}
}

func TestDecodeAIResponse(t *testing.T) {
	var analysis struct {
		MatchScore  float64  `json:"matchScore"`
		Explanation string   `json:"explanation"`
		Strengths   []string `json:"strengths"`
	}
	err := DecodeAIResponse("```json\n{\"matchScore\": 88.4, \"explanation\": \"Good fit\", \"strengths\": [\"Go\"]}\n```", &analysis)
	require.NoError(t, err)
	assert.InDelta(t, 88.4, analysis.MatchScore, 0.001)
	assert.Equal(t, "Good fit", analysis.Explanation)
	assert.Equal(t, []string{"Go"}, analysis.Strengths)

	err = DecodeAIResponse(`{"matchScore": "high"}`, &analysis)
	assert.Error(t, err)
}
