package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gcccs/careerlink/internal/models"
)

func TestCachedGemini_ServesRepeatedPrompts(t *testing.T) {
	inner := &fakeGemini{respond: func(prompt string) (string, error) { return `{"prompt": "` + prompt + `"}`, nil }}
	cache := newMemoryCache()
	gemini := NewCachedGeminiService(inner, cache, time.Hour)

	first, err := gemini.GenerateText(context.Background(), "hello", 0.3)
	require.NoError(t, err)
	second, err := gemini.GenerateTextWithRetry(context.Background(), "hello", 0.3, 2)
	require.NoError(t, err)

	assert.Equal(t, `{"prompt": "hello"}`, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls())
	assert.Equal(t, 1, cache.sets)
}

func TestCachedGemini_KeyIncludesTemperature(t *testing.T) {
	inner := &fakeGemini{respond: func(string) (string, error) { return "ok", nil }}
	gemini := NewCachedGeminiService(inner, newMemoryCache(), time.Hour)

	_, err := gemini.GenerateText(context.Background(), "hello", 0.3)
	require.NoError(t, err)
	_, err = gemini.GenerateText(context.Background(), "hello", 0.9)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls())
}

func TestCachedGemini_DoesNotCacheErrors(t *testing.T) {
	inner := &fakeGemini{respond: func(string) (string, error) { return "", errors.New("boom") }}
	cache := newMemoryCache()
	gemini := NewCachedGeminiService(inner, cache, time.Hour)

	_, err := gemini.GenerateText(context.Background(), "hello", 0.3)
	assert.Error(t, err)
	assert.Zero(t, cache.sets)
}

func TestCachedGemini_DoesNotCacheRepliesWithoutJSON(t *testing.T) {
	replies := []string{"Sorry, I cannot comply.", `{"matchScore": 88}`}
	inner := &fakeGemini{}
	inner.respond = func(string) (string, error) { return replies[inner.calls()-1], nil }
	cache := newMemoryCache()
	gemini := NewCachedGeminiService(inner, cache, time.Hour)

	first, err := gemini.GenerateText(context.Background(), "hello", 0.3)
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I cannot comply.", first)
	assert.Zero(t, cache.sets)

	second, err := gemini.GenerateText(context.Background(), "hello", 0.3)
	require.NoError(t, err)
	assert.Equal(t, `{"matchScore": 88}`, second)
	assert.Equal(t, 1, cache.sets)

	third, err := gemini.GenerateText(context.Background(), "hello", 0.3)
	require.NoError(t, err)
	assert.Equal(t, second, third)
	assert.Equal(t, 2, inner.calls())
}

func TestCachedGemini_IgnoresStoredRepliesWithoutJSON(t *testing.T) {
	inner := &fakeGemini{respond: func(string) (string, error) { return `{"matchScore": 70}`, nil }}
	cache := newMemoryCache()
	cache.values[promptKey("fake-model", "hello", 0.3)] = "not json"
	gemini := NewCachedGeminiService(inner, cache, time.Hour)

	text, err := gemini.GenerateText(context.Background(), "hello", 0.3)
	require.NoError(t, err)
	assert.Equal(t, `{"matchScore": 70}`, text)
	assert.Equal(t, 1, inner.calls())
}

func TestCachedGemini_MatcherRecoversAfterBadReply(t *testing.T) {
	replies := []string{"Sorry, I cannot comply.", `{"matchScore": 88}`}
	inner := &fakeGemini{}
	inner.respond = func(string) (string, error) {
		n := inner.calls() - 1
		if n >= len(replies) {
			n = len(replies) - 1
		}
		return replies[n], nil
	}
	matcher := NewMatchingService(NewCachedGeminiService(inner, newMemoryCache(), time.Hour), MatchingOptions{Jitter: fixedJitter(0)})
	candidates := []models.Candidate{candidate(t, `{"id":"a","name":"Ada"}`)}
	job := jobPosting(t, `{"title":"Intern"}`)

	first, err := matcher.MatchCandidates(context.Background(), candidates, job)
	require.NoError(t, err)
	assert.Equal(t, models.MatchSourceFallback, first[0].Source)

	for i := 0; i < 2; i++ {
		again, err := matcher.MatchCandidates(context.Background(), candidates, job)
		require.NoError(t, err)
		assert.Equal(t, models.MatchSourceAI, again[0].Source)
		assert.Equal(t, 88, again[0].MatchScore)
	}
	assert.Equal(t, 2, inner.calls())
}

func TestCachedGemini_EmbeddingsPassThrough(t *testing.T) {
	inner := &fakeGemini{}
	gemini := NewCachedGeminiService(inner, newMemoryCache(), time.Hour)

	_, err := gemini.GenerateEmbedding(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.embeds)
	assert.Equal(t, "fake-model", gemini.ModelName())
}
