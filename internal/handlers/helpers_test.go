package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gcccs/careerlink/internal/middleware"
	"gcccs/careerlink/internal/models"
	"gcccs/careerlink/internal/repositories"
	"gcccs/careerlink/internal/services"
)

const (
	studentToken  = "student-token"
	employerToken = "employer-token"
)

var (
	student  = &services.Identity{UID: "student-1", Email: "stu@example.edu", EmailVerified: true}
	employer = &services.Identity{UID: "employer-1", Email: "hr@example.com", EmailVerified: true}
)

type fakeIdentity struct {
	users   map[string]*services.UserRecord
	linkErr error
}

func (f *fakeIdentity) VerifyIDToken(ctx context.Context, token string) (*services.Identity, error) {
	switch token {
	case studentToken:
		return student, nil
	case employerToken:
		return employer, nil
	}
	return nil, services.ErrInvalidToken
}

func (f *fakeIdentity) GetUserByEmail(ctx context.Context, email string) (*services.UserRecord, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, services.ErrUserNotFound
}

func (f *fakeIdentity) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return "https://verify.example/" + email, nil
}

// fakeMatcher echoes inputs back with fixed scores and counts calls.
type fakeMatcher struct {
	available bool
	err       error
	calls     int
}

func (m *fakeMatcher) Available() bool { return m.available }

func (m *fakeMatcher) MatchCandidates(ctx context.Context, candidates []models.Candidate, job models.JobPosting) ([]models.CandidateMatch, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.CandidateMatch, 0, len(candidates))
	for i := len(candidates) - 1; i >= 0; i-- {
		out = append(out, models.CandidateMatch{Candidate: candidates[i], MatchScore: 90 - i, Source: models.MatchSourceAI})
	}
	return out, nil
}

func (m *fakeMatcher) MatchJobs(ctx context.Context, jobs []models.JobPosting, profile models.MatchProfile) ([]models.JobMatch, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.JobMatch, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, models.JobMatch{Job: j, MatchScore: 50, Explanation: models.FallbackExplanation, Source: models.MatchSourceFallback})
	}
	return out, nil
}

type memoryJobs struct {
	mu   sync.Mutex
	jobs []models.Job
	last models.JobFilter
}

func (r *memoryJobs) Create(ctx context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, *job)
	return nil
}

func (r *memoryJobs) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ID == id {
			copied := j
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memoryJobs) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Job, error) {
	var out []models.Job
	for _, id := range ids {
		if j, err := r.FindByID(ctx, id); err == nil {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *memoryJobs) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = filter
	return append([]models.Job{}, r.jobs...), nil
}

type memoryApplications struct {
	mu   sync.Mutex
	apps []models.Application
}

func (r *memoryApplications) Create(ctx context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps = append(r.apps, *app)
	return nil
}

func (r *memoryApplications) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return nil, repositories.ErrNotFound
}

func (r *memoryApplications) FindByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	return r.filter(func(a models.Application) bool { return a.ApplicantID == applicantID }), nil
}

func (r *memoryApplications) FindByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	return r.filter(func(a models.Application) bool { return a.JobID == jobID }), nil
}

func (r *memoryApplications) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	return nil
}

func (r *memoryApplications) UpdateResumeText(ctx context.Context, id uuid.UUID, text string) error {
	return nil
}

func (r *memoryApplications) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	return nil
}

func (r *memoryApplications) FindPending(ctx context.Context, staleAfter time.Duration, limit int) ([]models.Application, error) {
	return nil, nil
}

func (r *memoryApplications) filter(keep func(models.Application) bool) []models.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Application{}
	for _, a := range r.apps {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

type memoryProfiles struct {
	profiles map[string]*models.Profile
}

func (r *memoryProfiles) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memoryProfiles) FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*models.Profile, error) {
	out := map[string]*models.Profile{}
	for _, id := range userIDs {
		if p, ok := r.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *memoryProfiles) Upsert(ctx context.Context, profile *models.Profile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

type memoryStorage struct {
	saved   map[string][]byte
	saveErr error
}

func (s *memoryStorage) EnsureReady(ctx context.Context) error { return nil }

func (s *memoryStorage) SaveFile(ctx context.Context, file *multipart.FileHeader, fileType string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	key := fileType + "_" + uuid.NewString() + ".pdf"
	s.saved[key] = data
	return key, nil
}

func (s *memoryStorage) ReadFile(ctx context.Context, key string) ([]byte, error) {
	if data, ok := s.saved[key]; ok {
		return data, nil
	}
	return nil, errors.New("not found")
}

func (s *memoryStorage) DeleteFile(ctx context.Context, key string) error {
	delete(s.saved, key)
	return nil
}

type recordingWorker struct {
	enqueued []uuid.UUID
}

func (w *recordingWorker) Start(ctx context.Context) {}

func (w *recordingWorker) Stop() {}

func (w *recordingWorker) Enqueue(applicationID uuid.UUID) {
	w.enqueued = append(w.enqueued, applicationID)
}

type stubIndexer struct {
	enabled bool
	hits    []services.JobHit
	indexed []uuid.UUID
}

func (s *stubIndexer) Enabled() bool { return s.enabled }

func (s *stubIndexer) IndexJob(ctx context.Context, job models.Job) error {
	s.indexed = append(s.indexed, job.ID)
	return nil
}

func (s *stubIndexer) IndexResume(ctx context.Context, applicationID string, text string) (int, error) {
	return 0, nil
}

func (s *stubIndexer) SearchJobs(ctx context.Context, query string, limit int) ([]services.JobHit, error) {
	return s.hits, nil
}

// testEnv wires every handler over in-memory fakes.
type testEnv struct {
	app        *fiber.App
	matcher    *fakeMatcher
	identity   *fakeIdentity
	jobs       *memoryJobs
	apps       *memoryApplications
	profiles   *memoryProfiles
	storage    *memoryStorage
	worker     *recordingWorker
	indexer    *stubIndexer
	production bool
}

func newTestEnv(t *testing.T, opts ...func(*testEnv)) *testEnv {
	t.Helper()

	env := &testEnv{
		matcher:  &fakeMatcher{available: true},
		identity: &fakeIdentity{users: map[string]*services.UserRecord{}},
		jobs:     &memoryJobs{},
		apps:     &memoryApplications{},
		profiles: &memoryProfiles{profiles: map[string]*models.Profile{}},
		storage:  &memoryStorage{saved: map[string][]byte{}},
		worker:   &recordingWorker{},
		indexer:  &stubIndexer{},
	}
	for _, opt := range opts {
		opt(env)
	}

	jobHandler := NewJobHandler(env.jobs, env.apps, env.profiles, env.indexer)
	env.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(env.app, Routes{
		Auth:         middleware.RequireAuth(env.identity),
		Matching:     NewMatchingHandler(env.matcher),
		Identity:     NewAuthHandler(env.identity, !env.production),
		Jobs:         jobHandler,
		Profiles:     NewProfileHandler(env.profiles),
		Applications: NewApplicationHandler(jobHandler, env.apps, env.storage, env.worker, 1024),
	})
	return env
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			encoded, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(encoded)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return env.send(t, req)
}

func (env *testEnv) send(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &decoded), string(data))
	}
	return resp, decoded
}

func (env *testEnv) addJob(employerID string) models.Job {
	job := models.Job{
		ID:           uuid.New(),
		Title:        "Backend Intern",
		Company:      "GCC",
		Status:       models.JobStatusActive,
		EmployerID:   employerID,
		Requirements: []string{"Go"},
	}
	env.jobs.jobs = append(env.jobs.jobs, job)
	return job
}
