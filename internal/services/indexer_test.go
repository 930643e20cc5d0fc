package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gcccs/careerlink/internal/models"
)

func TestIndexService_DisabledWithoutDependencies(t *testing.T) {
	svc := NewIndexService(nil, newMemoryIndex())
	assert.False(t, svc.Enabled())

	_, err := svc.SearchJobs(context.Background(), "go", 5)
	assert.ErrorIs(t, err, ErrSearchDisabled)
	assert.ErrorIs(t, svc.IndexJob(context.Background(), models.Job{}), ErrSearchDisabled)

	assert.False(t, NewIndexService(&fakeGemini{}, nil).Enabled())
}

func TestIndexService_IndexJob(t *testing.T) {
	index := newMemoryIndex()
	svc := NewIndexService(&fakeGemini{}, index)

	job := models.Job{ID: uuid.New(), Title: "Tutor", Company: "GCC", Description: "Math tutoring"}
	require.NoError(t, svc.IndexJob(context.Background(), job))

	require.Len(t, index.points[job.ID.String()], 1)
	assert.Contains(t, index.points[job.ID.String()][0], "Tutor at GCC")
}

func TestIndexService_IndexResumeReplacesChunks(t *testing.T) {
	index := newMemoryIndex()
	gemini := &fakeGemini{}
	svc := NewIndexService(gemini, index)

	index.points["app-1"] = []string{"stale"}
	text := strings.Repeat(strings.Repeat("x", 600)+"\n\n", 3)

	n, err := svc.IndexResume(context.Background(), "app-1", text)
	require.NoError(t, err)

	assert.Equal(t, n, len(index.points["app-1"]))
	assert.Greater(t, n, 1)
	assert.NotContains(t, index.points["app-1"], "stale")
	assert.Equal(t, n, gemini.embeds)
}

func TestIndexService_SearchJobsSkipsForeignIDs(t *testing.T) {
	id := uuid.New()
	index := newMemoryIndex()
	index.hits = []SearchResult{
		{DocID: id.String(), Score: 0.9, DocType: DocTypeJob},
		{DocID: "not-a-uuid", Score: 0.5, DocType: DocTypeJob},
	}

	hits, err := NewIndexService(&fakeGemini{}, index).SearchJobs(context.Background(), "tutor", 5)
	require.NoError(t, err)
	assert.Equal(t, []JobHit{{JobID: id, Score: 0.9}}, hits)
}
