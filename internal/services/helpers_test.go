package services

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gcccs/careerlink/internal/models"
	"gcccs/careerlink/internal/repositories"
)

// fakeGemini answers prompts with respond and embeddings with a fixed vector.
type fakeGemini struct {
	mu      sync.Mutex
	respond func(prompt string) (string, error)
	prompts []string
	embeds  int
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.embeds++
	f.mu.Unlock()
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxAttempts int) (string, error) {
	return generateWithRetry(ctx, f, prompt, temperature, maxAttempts)
}

func (f *fakeGemini) ModelName() string { return "fake-model" }

func (f *fakeGemini) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type memoryCache struct {
	values map[string]string
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.values[key] = value
	c.sets++
	return nil
}

func candidate(t *testing.T, s string) models.Candidate {
	t.Helper()
	var c models.Candidate
	require.NoError(t, json.Unmarshal([]byte(s), &c))
	return c
}

func jobPosting(t *testing.T, s string) models.JobPosting {
	t.Helper()
	var j models.JobPosting
	require.NoError(t, json.Unmarshal([]byte(s), &j))
	return j
}

func matchProfile(t *testing.T, s string) models.MatchProfile {
	t.Helper()
	var p models.MatchProfile
	require.NoError(t, json.Unmarshal([]byte(s), &p))
	return p
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[uuid.UUID]*models.Application

	resumeTextErr error
}

func newFakeApplicationRepo(apps ...*models.Application) *fakeApplicationRepo {
	r := &fakeApplicationRepo{apps: map[uuid.UUID]*models.Application{}}
	for _, a := range apps {
		r.apps[a.ID] = a
	}
	return r
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) FindByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	return nil, nil
}

func (r *fakeApplicationRepo) FindByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	return nil, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	return r.with(id, func(a *models.Application) { a.Status = status })
}

func (r *fakeApplicationRepo) UpdateResumeText(ctx context.Context, id uuid.UUID, text string) error {
	if r.resumeTextErr != nil {
		return r.resumeTextErr
	}
	return r.with(id, func(a *models.Application) {
		a.Status = models.ApplicationProcessed
		a.ResumeText = &text
		a.ErrorMessage = nil
	})
}

func (r *fakeApplicationRepo) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	return r.with(id, func(a *models.Application) {
		a.Status = models.ApplicationFailed
		a.ErrorMessage = &errorMsg
	})
}

func (r *fakeApplicationRepo) FindPending(ctx context.Context, staleAfter time.Duration, limit int) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-staleAfter)
	var out []models.Application
	for _, a := range r.apps {
		stale := a.Status == models.ApplicationProcessing && a.UpdatedAt.Before(cutoff)
		if (a.Status == models.ApplicationSubmitted || stale) && len(out) < limit {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) status(id uuid.UUID) models.ApplicationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apps[id].Status
}

func (r *fakeApplicationRepo) with(id uuid.UUID, fn func(a *models.Application)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(app)
	app.UpdatedAt = time.Now()
	return nil
}

type memoryStorage struct {
	files map[string][]byte
}

func (s *memoryStorage) EnsureReady(ctx context.Context) error { return nil }

func (s *memoryStorage) SaveFile(ctx context.Context, file *multipart.FileHeader, fileType string) (string, error) {
	return "", errors.New("not supported")
}

func (s *memoryStorage) ReadFile(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

func (s *memoryStorage) DeleteFile(ctx context.Context, key string) error {
	delete(s.files, key)
	return nil
}

// textParser treats the stored bytes as already-extracted text.
type textParser struct{}

func (textParser) ExtractText(data []byte) (*PDFContent, error) {
	if !strings.HasPrefix(string(data), "%PDF-") {
		return nil, errors.New("not a PDF")
	}
	return &PDFContent{Text: strings.TrimSpace(strings.TrimPrefix(string(data), "%PDF-")), PageCount: 1}, nil
}

type memoryIndex struct {
	mu     sync.Mutex
	points map[string][]string
	hits   []SearchResult
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{points: map[string][]string{}}
}

func (m *memoryIndex) InitCollection(ctx context.Context) error { return nil }

func (m *memoryIndex) UpsertDocument(ctx context.Context, docID, docType string, chunk int, text string, embedding []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[docID] = append(m.points[docID], text)
	return nil
}

func (m *memoryIndex) SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error) {
	return m.hits, nil
}

func (m *memoryIndex) DeleteDocument(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.points, docID)
	return nil
}
