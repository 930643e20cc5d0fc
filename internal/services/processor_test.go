package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gcccs/careerlink/internal/models"
)

func newSubmittedApplication(key string) *models.Application {
	return &models.Application{
		ID:      uuid.New(),
		JobID:   uuid.New(),
		FileKey: key,
		Status:  models.ApplicationSubmitted,
	}
}

func TestProcessApplication_StoresResumeText(t *testing.T) {
	app := newSubmittedApplication("resume_1.pdf")
	repo := newFakeApplicationRepo(app)
	storage := &memoryStorage{files: map[string][]byte{"resume_1.pdf": []byte("%PDF- Go developer with SQL experience")}}
	index := newMemoryIndex()

	processor := NewApplicationProcessor(repo, storage, textParser{}, NewIndexService(&fakeGemini{}, index))
	require.NoError(t, processor.ProcessApplication(context.Background(), app.ID))

	got, err := repo.FindByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationProcessed, got.Status)
	require.NotNil(t, got.ResumeText)
	assert.Equal(t, "Go developer with SQL experience", *got.ResumeText)
	assert.Len(t, index.points[app.ID.String()], 1)
}

func TestProcessApplication_WorksWithoutIndex(t *testing.T) {
	app := newSubmittedApplication("resume_2.pdf")
	repo := newFakeApplicationRepo(app)
	storage := &memoryStorage{files: map[string][]byte{"resume_2.pdf": []byte("%PDF- text")}}

	processor := NewApplicationProcessor(repo, storage, textParser{}, NewIndexService(nil, nil))
	require.NoError(t, processor.ProcessApplication(context.Background(), app.ID))
	assert.Equal(t, models.ApplicationProcessed, repo.status(app.ID))
}

func TestProcessApplication_RecordsFailures(t *testing.T) {
	tests := map[string]map[string][]byte{
		"missing file": {},
		"not a pdf":    {"resume.pdf": []byte("hello")},
		"empty text":   {"resume.pdf": []byte("%PDF-   ")},
	}

	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			app := newSubmittedApplication("resume.pdf")
			repo := newFakeApplicationRepo(app)

			processor := NewApplicationProcessor(repo, &memoryStorage{files: files}, textParser{}, nil)
			err := processor.ProcessApplication(context.Background(), app.ID)
			require.Error(t, err)

			got, _ := repo.FindByID(context.Background(), app.ID)
			assert.Equal(t, models.ApplicationFailed, got.Status)
			require.NotNil(t, got.ErrorMessage)
			assert.Equal(t, err.Error(), *got.ErrorMessage)
		})
	}
}

func TestProcessApplication_RecordsStoreFailure(t *testing.T) {
	app := newSubmittedApplication("resume.pdf")
	repo := newFakeApplicationRepo(app)
	repo.resumeTextErr = errors.New("connection reset")
	storage := &memoryStorage{files: map[string][]byte{"resume.pdf": []byte("%PDF- Go developer")}}

	processor := NewApplicationProcessor(repo, storage, textParser{}, nil)
	err := processor.ProcessApplication(context.Background(), app.ID)
	require.Error(t, err)

	got, _ := repo.FindByID(context.Background(), app.ID)
	assert.Equal(t, models.ApplicationFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "connection reset", *got.ErrorMessage)
}

func TestProcessApplication_SkipsProcessed(t *testing.T) {
	app := newSubmittedApplication("resume.pdf")
	app.Status = models.ApplicationProcessed
	repo := newFakeApplicationRepo(app)

	processor := NewApplicationProcessor(repo, &memoryStorage{}, textParser{}, nil)
	assert.NoError(t, processor.ProcessApplication(context.Background(), app.ID))
	assert.Equal(t, models.ApplicationProcessed, repo.status(app.ID))
}
